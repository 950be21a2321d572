package store

import ferrors "github.com/vango-dev/freedux/internal/errors"

// Diagnostics logged for dropped writes match these with errors.Is.
var (
	// ErrUnreachablePath reports a write whose path crosses a nil or
	// non-container value.
	ErrUnreachablePath error = ferrors.New(ferrors.CodeUnreachablePath)

	// ErrTypeMismatch reports a write whose value cannot be stored at the
	// target slot.
	ErrTypeMismatch error = ferrors.New(ferrors.CodeTypeMismatch)
)
