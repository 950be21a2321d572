package store

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Batch runs fn with notifications held back. When the outermost batch
// returns, subscribers are notified once with the final root, provided any
// write inside changed it.
//
// Batches nest; inner batches never notify on their own. If fn panics the
// batch is closed, nothing is notified and the panic continues. Writes made
// before the panic are kept.
func (s *Store[T]) Batch(fn func()) {
	before := s.begin()
	ok := false
	defer func() { s.end(before, ok) }()

	fn()
	ok = true
}

// Tx is a named Batch traced as an otel span. A non-nil error from fn fails
// the transaction: it is returned, nothing is notified, and the writes made
// so far are kept.
//
//	err := s.Tx(ctx, "checkout", func(ctx context.Context) error {
//	    setCart.Set(nil)
//	    return saveOrder(ctx)
//	})
func (s *Store[T]) Tx(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	ctx, span := s.tracer.Start(ctx, "freedux.tx",
		trace.WithAttributes(
			attribute.String("freedux.store", s.name),
			attribute.String("freedux.tx.name", name),
			attribute.Int("freedux.tx.depth", s.depth+1),
		),
	)
	defer span.End()

	s.logger.Debug("tx start", "tx", name)

	before := s.begin()
	ok := false
	defer func() {
		notified := s.end(before, ok)
		span.SetAttributes(
			attribute.Int64("freedux.tx.writes", int64(s.revision-before)),
			attribute.Bool("freedux.tx.notified", notified),
		)
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case !ok:
			span.SetStatus(codes.Error, "panic")
		}
		s.logger.Debug("tx end", "tx", name, "ok", ok, "notified", notified)
	}()

	if err = fn(ctx); err != nil {
		return err
	}
	ok = true
	return nil
}

// begin opens a batch and returns the revision at entry.
func (s *Store[T]) begin() uint64 {
	s.depth++
	return s.revision
}

// end closes a batch. Only the outermost one may notify, and only when it
// completed and the root moved since before.
func (s *Store[T]) end(before uint64, completed bool) bool {
	s.depth--
	if s.depth > 0 {
		return false
	}
	changed := completed && s.revision != before
	s.observer.OnBatch(s.name, changed)
	if changed {
		s.notify()
	}
	return changed
}
