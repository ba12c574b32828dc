package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP boundary can pick a status code.
type Kind string

const (
	KindAuth         Kind = "auth"
	KindConfig       Kind = "config"
	KindMembership   Kind = "membership"
	KindProvisioning Kind = "provisioning"
	KindTransport    Kind = "transport"
	KindBadRequest   Kind = "bad_request"
	KindDisabled     Kind = "disabled"
)

const genericMessage = "An unexpected error occurred. Contact an administrator."

// Common sentinel causes
var (
	ErrNoToken          = errors.New("no token in response")
	ErrNoMatchingRecord = errors.New("no matching record")
	ErrMissingField     = errors.New("missing field")
	ErrNotFound         = errors.New("not found")
)

// Error is a classified failure. Message is safe to show to the end user;
// Err carries the diagnostic detail that is only logged.
type Error struct {
	Kind    Kind
	Message string
	Status  int // overrides the Kind's default status when non-zero
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error.
func (e *Error) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindDisabled:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func WithStatus(kind Kind, status int, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Status: status, Err: err}
}

func Auth(message string, err error) *Error {
	return New(KindAuth, message, err)
}

func Config(message string, err error) *Error {
	return New(KindConfig, message, err)
}

func Provisioning(message string, err error) *Error {
	return New(KindProvisioning, message, err)
}

func Transport(message string, err error) *Error {
	return New(KindTransport, message, err)
}

func BadRequest(message string) *Error {
	return New(KindBadRequest, message, nil)
}

// StatusCode reduces any error to an HTTP status. Unclassified errors are 500.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode()
	}
	return http.StatusInternalServerError
}

// UserMessage reduces any error to the message returned to the caller.
// Unclassified errors never leak their text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return genericMessage
}

// KindOf returns the Kind of a classified error, or KindTransport.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
