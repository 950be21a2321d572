package store

import "github.com/vango-dev/freedux/pkg/path"

// WriteResult is the outcome of a single setter call.
type WriteResult int

const (
	// WriteApplied means the root was replaced.
	WriteApplied WriteResult = iota
	// WriteNoop means the new leaf was identical to the old one.
	WriteNoop
	// WriteUnreachable means the path crossed a missing or scalar value.
	WriteUnreachable
	// WriteTypeMismatch means the value did not fit the target slot.
	WriteTypeMismatch
)

func (r WriteResult) String() string {
	switch r {
	case WriteApplied:
		return "applied"
	case WriteNoop:
		return "noop"
	case WriteUnreachable:
		return "unreachable"
	case WriteTypeMismatch:
		return "type_mismatch"
	default:
		return "unknown"
	}
}

// Observer receives instrumentation callbacks from a Store. Callbacks run
// synchronously on the writer's goroutine and must not write to the store.
type Observer interface {
	// OnWrite is called once per setter call.
	OnWrite(store string, p path.Path, result WriteResult)

	// OnNotify is called after each notification pass with the number of
	// subscribers that were invoked.
	OnNotify(store string, subscribers int)

	// OnBatch is called when an outermost Batch or Tx ends. changed reports
	// whether it notified.
	OnBatch(store string, changed bool)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) OnWrite(string, path.Path, WriteResult) {}
func (NopObserver) OnNotify(string, int)                   {}
func (NopObserver) OnBatch(string, bool)                   {}
