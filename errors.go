package spool

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by any operation on a Buffer after Close.
	ErrClosed = errors.New("spool: buffer is closed")

	// ErrNotSupported is returned by the stream operations a Buffer does not
	// implement: it is write/replay-only and cannot be read or seeked.
	ErrNotSupported = errors.New("spool: operation not supported")

	// ErrLimitExceeded is wrapped by the *LimitError returned when a write
	// would push the total buffered bytes past Config.BufferLimit.
	ErrLimitExceeded = errors.New("spool: buffer limit exceeded")
)

// LimitError reports a write rejected because accepting it would exceed the
// configured buffer limit. Raising it closes the Buffer as a side effect;
// the rejected write is not partially applied.
type LimitError struct {
	// Limit is the configured cap on total buffered bytes.
	Limit int64
	// Buffered is the number of bytes already buffered when the write arrived.
	Buffered int64
	// Requested is the size of the rejected write.
	Requested int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("spool: write of %d bytes exceeds buffer limit (%d of %d bytes used)",
		e.Requested, e.Buffered, e.Limit)
}

func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}

// ConfigError represents an error in configuration or argument values.
type ConfigError struct {
	// Field is the name of the configuration field or argument that's invalid
	Field string
	// Value is the invalid value provided
	Value interface{}
	// Reason explains why the value is invalid
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("spool: config error in field %s (value: %v): %s", e.Field, e.Value, e.Reason)
}

// newFileError wraps an underlying storage error from the temp-directory
// provider or the spill file. Storage errors are never retried internally.
func newFileError(err error, operation, path string) error {
	if path != "" {
		return fmt.Errorf("spool: %s on %s: %w", operation, path, err)
	}
	return fmt.Errorf("spool: %s: %w", operation, err)
}
