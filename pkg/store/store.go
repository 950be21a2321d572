package store

import (
	"errors"
	"log/slog"
	"reflect"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	ferrors "github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/pkg/path"
)

// Store holds a root state of type T and notifies subscribers when it is
// replaced.
type Store[T any] struct {
	root     T
	revision uint64

	// subs is kept in registration order.
	subs []*subscription[T]

	// depth counts open Batch and Tx calls.
	depth int

	name     string
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
}

type subscription[T any] struct {
	fn      func(T)
	removed bool
}

// New creates a store holding initial.
func New[T any](initial T, opts ...Option) *Store[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = NopObserver{}
	}

	return &Store[T]{
		root:     initial,
		name:     o.name,
		logger:   o.logger.With("store", o.name),
		observer: o.observer,
		tracer:   otel.Tracer(o.tracerName),
	}
}

// Get returns the current root.
func (s *Store[T]) Get() T {
	return s.root
}

// Name returns the name given with WithName.
func (s *Store[T]) Name() string {
	return s.name
}

// Revision counts the writes that replaced the root since New.
func (s *Store[T]) Revision() uint64 {
	return s.revision
}

// Batching reports whether a Batch or Tx is open.
func (s *Store[T]) Batching() bool {
	return s.depth > 0
}

// Lookup returns the value at p in the current root.
func (s *Store[T]) Lookup(p path.Path) (any, bool) {
	return path.Lookup(s.root, p)
}

// Subscribe registers fn to be called with the new root after every change.
// Registering the same function twice yields two independent
// subscriptions. The returned function removes this registration only and
// may be called any number of times.
//
// Subscribers are called in registration order. A subscription removed
// while a notification is running is skipped for the rest of that pass;
// one added while it runs is first called on the next pass.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	sub := &subscription[T]{fn: fn}
	s.subs = append(s.subs, sub)

	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		if i := slices.Index(s.subs, sub); i >= 0 {
			s.subs = slices.Delete(s.subs, i, i+1)
		}
	}
}

// SubscriberCount returns the number of live subscriptions.
func (s *Store[T]) SubscriberCount() int {
	return len(s.subs)
}

// notify calls every subscriber with the current root.
func (s *Store[T]) notify() {
	// Copy so that (un)subscribing from a callback cannot shift the pass.
	subs := slices.Clone(s.subs)

	called := 0
	for _, sub := range subs {
		if sub.removed {
			continue
		}
		sub.fn(s.root)
		called++
	}
	s.observer.OnNotify(s.name, called)
}

// write applies leaf at p and notifies unless a batch is open.
func (s *Store[T]) write(p path.Path, leaf reflect.Value) WriteResult {
	slot := reflect.ValueOf(&s.root).Elem()

	next, changed, err := assign(slot, slot.Type(), p, 0, leaf)
	if err != nil {
		result := WriteUnreachable
		if errors.Is(err, ErrTypeMismatch) {
			result = WriteTypeMismatch
		}
		s.diagnose(p, err)
		s.observer.OnWrite(s.name, p, result)
		return result
	}
	if !changed {
		s.observer.OnWrite(s.name, p, WriteNoop)
		return WriteNoop
	}

	slot.Set(next)
	s.revision++
	s.observer.OnWrite(s.name, p, WriteApplied)

	if s.depth == 0 {
		s.notify()
	}
	return WriteApplied
}

// diagnose logs a dropped write. It never fails the caller.
func (s *Store[T]) diagnose(p path.Path, err error) {
	code := ""
	var fe *ferrors.FreeduxError
	if errors.As(err, &fe) {
		code = fe.Code
	}
	s.logger.Warn("freedux: write dropped, state unchanged",
		"path", p.String(),
		"code", code,
		"error", err,
	)
}
