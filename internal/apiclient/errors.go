package apiclient

import (
	"context"
	"errors"
	"net"
)

// Kind separates the ways an API call can fail.
type Kind string

const (
	// KindServer means the server answered with an error status.
	KindServer Kind = "server"
	// KindNoResponse means the request was sent but no response arrived.
	KindNoResponse Kind = "no_response"
	// KindSetup means the request could not be built.
	KindSetup Kind = "setup"
	// KindTimeout means the call ran past its deadline.
	KindTimeout Kind = "timeout"
)

const (
	msgServerDefault = "An error occurred"
	msgNoResponse    = "No response from server"
	msgSetup         = "Error setting up request"
	msgTimeout       = "Request timed out"
)

// Error is the normalized failure returned by every Client call.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, KindServer only
	Message string // server detail for KindServer, fixed text otherwise
	Err     error  // underlying cause, for logs
}

func (e *Error) Error() string {
	if e.Kind == KindServer || e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func serverError(status int, message string) *Error {
	if message == "" {
		message = msgServerDefault
	}
	return &Error{Kind: KindServer, Status: status, Message: message}
}

func setupError(err error) *Error {
	return &Error{Kind: KindSetup, Message: msgSetup, Err: err}
}

// transportError classifies a failure that happened after the request was
// handed to the transport.
func transportError(ctx context.Context, err error) *Error {
	if isTimeout(ctx, err) {
		return &Error{Kind: KindTimeout, Message: msgTimeout, Err: err}
	}
	return &Error{Kind: KindNoResponse, Message: msgNoResponse, Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// KindOf reports the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsServer(err error) bool     { return KindOf(err) == KindServer }
func IsNoResponse(err error) bool { return KindOf(err) == KindNoResponse }
func IsSetup(err error) bool      { return KindOf(err) == KindSetup }
func IsTimeout(err error) bool    { return KindOf(err) == KindTimeout }

// StatusOf returns the HTTP status carried by a server error, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
