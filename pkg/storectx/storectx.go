package storectx

import (
	"context"

	ferrors "github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/pkg/store"
)

// ErrNoStore is returned by Key.From when the context carries no store for
// the key.
var ErrNoStore error = ferrors.New(ferrors.CodeNoStore)

// Key identifies one kind of store in a context. Two keys never collide,
// even when they share a name and a state type.
type Key[T any] struct {
	name string
}

// Create creates a new Key. The name only appears in error messages.
func Create[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

// Name returns the name given to Create.
func (k *Key[T]) Name() string {
	return k.name
}

// With returns a copy of ctx carrying s. Binding nil is allowed and reads
// as unbound.
func (k *Key[T]) With(ctx context.Context, s *store.Store[T]) context.Context {
	return context.WithValue(ctx, k, s)
}

// From returns the store bound to k in ctx, or ErrNoStore.
func (k *Key[T]) From(ctx context.Context) (*store.Store[T], error) {
	if ctx != nil {
		if s, ok := ctx.Value(k).(*store.Store[T]); ok && s != nil {
			return s, nil
		}
	}
	return nil, ferrors.New(ferrors.CodeNoStore).
		WithDetail("no store bound for key " + k.name).
		WithSuggestion("call " + k.name + ".With(ctx, store) before handing ctx to observers")
}

// Must is like From but panics when no store is bound.
func (k *Key[T]) Must(ctx context.Context) *store.Store[T] {
	s, err := k.From(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
