package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a backend interaction failure. The set is closed:
// callers switch over it and handle every class explicitly instead of
// probing ad hoc fields on the error.
type Kind int

const (
	// KindValidation is a local, pre-network failure. The request was
	// never sent.
	KindValidation Kind = iota
	// KindNetwork covers timeouts and transport failures where no HTTP
	// response was received. Recoverable; never an authentication verdict.
	KindNetwork
	// KindUnauthorized is a 401 response. An expected condition (e.g. an
	// expired cookie), handled silently by callers.
	KindUnauthorized
	// KindServer is any other non-2xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by Client operations.
type Error struct {
	Kind       Kind
	StatusCode int    // zero when no response was received
	Message    string // most specific message available for the user
	Err        error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the classification of err, or KindServer if err is not
// a *Error (an unclassified failure is surfaced, never swallowed).
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindServer
}

// IsNetwork reports whether err is a recoverable transport failure.
func IsNetwork(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindNetwork
}

// IsUnauthorized reports whether err is a 401 rejection.
func IsUnauthorized(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindUnauthorized
}

// UserMessage returns the most specific human-readable message carried
// by err, falling back to the given default.
func UserMessage(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// networkError wraps a transport-level failure (no response received).
func networkError(err error, fallback string) *Error {
	msg := fallback
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

// errorBody is the error shape the backend returns. The message field
// is preferred over the error code when both are present.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"error"`
}

// statusError classifies a non-2xx response, applying the message
// fallback chain: server message, then server error code, then the
// operation's generic default.
func statusError(status int, body errorBody, fallback string) *Error {
	msg := body.Message
	if msg == "" {
		msg = body.Code
	}
	if msg == "" {
		msg = fallback
	}
	kind := KindServer
	if status == 401 {
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, StatusCode: status, Message: msg}
}
