package engine

import "errors"

var (
	// ErrInvalidArgument indicates a command was rejected without changing state.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotReady is returned by collaborators that cannot act yet. The
	// engine skips the call without retrying.
	ErrNotReady = errors.New("collaborator not ready")

	// ErrClosed indicates the engine was shut down.
	ErrClosed = errors.New("engine closed")
)
