package corewl

import (
	"errors"
	"fmt"
)

// Sentinel errors callers can match with errors.Is.
var (
	ErrUnknownSurface = errors.New("corewl: unknown surface")
	ErrUnknownOutput  = errors.New("corewl: unknown output")
	ErrUnknownClient  = errors.New("corewl: unknown client")
	ErrCycle          = errors.New("corewl: attach would create a cycle")
)

// ErrorKind classifies a CoreError so a host can decide whether to report it
// to a client, log it, or ignore it.
type ErrorKind uint8

const (
	// ErrKindClientProtocol is a protocol-level mistake by one client
	// (e.g. committing an unknown surface id). Reported as Event.Error to
	// the offending client; the request is dropped, state untouched.
	ErrKindClientProtocol ErrorKind = iota
	// ErrKindInternal is an internal inconsistency (e.g. the backend
	// reports OutputRemoved for an unknown id). Not fatal; the offending
	// operation is skipped and the Engine continues.
	ErrKindInternal
)

// CoreError wraps an error with the kind classification the Engine uses to
// decide how to surface it.
type CoreError struct {
	Kind ErrorKind
	Err  error
}

func (e *CoreError) Error() string {
	return fmt.Sprintf("corewl: %v", e.Err)
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

// newClientError builds a client-protocol CoreError.
func newClientError(err error) *CoreError {
	return &CoreError{Kind: ErrKindClientProtocol, Err: err}
}

// newInternalError builds an internal-inconsistency CoreError.
func newInternalError(err error) *CoreError {
	return &CoreError{Kind: ErrKindInternal, Err: err}
}
