package feed

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when an asset is requested with an empty key.
	ErrInvalidKey = errors.New("invalid asset key")

	// ErrCanceled matches any NetworkError of kind KindCanceled via errors.Is.
	ErrCanceled = errors.New("fetch canceled")
)

// ErrorKind classifies a NetworkError.
type ErrorKind string

const (
	// KindInvalidRequest is a malformed request target.
	KindInvalidRequest ErrorKind = "invalid_request"

	// KindServer is a non-2xx response.
	KindServer ErrorKind = "server_error"

	// KindDecode is a malformed payload.
	KindDecode ErrorKind = "decode_error"

	// KindTransport is a connectivity or I/O failure.
	KindTransport ErrorKind = "transport"

	// KindCanceled means the request was canceled or the caller withdrew interest.
	KindCanceled ErrorKind = "canceled"
)

// NetworkError is returned by RemoteSource implementations.
type NetworkError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	msg := fmt.Sprintf("network %s", e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrCanceled) match canceled network errors.
func (e *NetworkError) Is(target error) bool {
	return target == ErrCanceled && e.Kind == KindCanceled
}

// NewCanceledError builds a KindCanceled error wrapping cause.
func NewCanceledError(cause error) *NetworkError {
	return &NetworkError{Kind: KindCanceled, Message: "request canceled", Err: cause}
}

// NewWithdrawnError is returned to a single caller that stopped waiting. The
// shared request may still be running for others.
func NewWithdrawnError(cause error) *NetworkError {
	return &NetworkError{Kind: KindCanceled, Message: "interest withdrawn", Err: cause}
}

// NewAbortedError is the outcome of a shared request aborted because every
// interested caller withdrew.
func NewAbortedError(cause error) *NetworkError {
	return &NetworkError{Kind: KindCanceled, Message: "all interested callers withdrew", Err: cause}
}

// IsCanceled reports whether err is a cancellation, either a KindCanceled
// NetworkError or a bare context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// KindOf returns the kind of a NetworkError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Kind
	}
	return ""
}
