package azure

import (
	"errors"
	"fmt"
)

// Kind classifies everything that can go wrong talking to Azure DevOps.
// Every failure surfaced by this package carries exactly one Kind.
type Kind int

const (
	// KindUnknown is the zero value and never set by this package.
	KindUnknown Kind = iota
	// KindConfiguration means credentials were missing or empty.
	KindConfiguration
	// KindValidation means caller input was rejected before any network call.
	KindValidation
	// KindAuthorization covers 401 and 403 responses.
	KindAuthorization
	// KindNotFound covers 404 responses.
	KindNotFound
	// KindConflict covers 409 responses, typically a stale update.
	KindConflict
	// KindRequest covers the remaining 4xx responses.
	KindRequest
	// KindRemoteService covers 5xx responses.
	KindRemoteService
	// KindTransport covers timeouts and connection failures.
	KindTransport
	// KindDecode means a 2xx response carried a body we could not parse.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindRequest:
		return "request"
	case KindRemoteService:
		return "remote service"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the classified failure value returned by every operation in this
// package. Message holds the remote service's own message when one could be
// extracted, otherwise a local description.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("azure devops: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("azure devops: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the classification of err, or KindUnknown for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// NewConfigurationError builds the classified error for missing or empty
// credentials. Exported for the configuration layer, which resolves
// credentials without ever touching the network.
func NewConfigurationError(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func configurationError(format string, args ...any) *Error {
	return NewConfigurationError(format, args...)
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func transportError(err error, format string, args ...any) *Error {
	return &Error{Kind: KindTransport, Message: fmt.Sprintf(format, args...), Err: err}
}

func decodeError(err error, format string, args ...any) *Error {
	return &Error{Kind: KindDecode, Message: fmt.Sprintf(format, args...), Err: err}
}
