// Package errs defines the error kinds shared by the build and publish pipeline.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react without string matching.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindConfiguration  Kind = "configuration"
	KindProcess        Kind = "external_process"
	KindService        Kind = "external_service"
	KindTimeout        Kind = "timeout"
	KindIO             Kind = "io"
	KindInvalidRequest Kind = "invalid_request"
)

// Error is a Kind-tagged error with an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New creates an error of the given kind.
func New(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NotFound(format string, args ...any) error {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

func Configuration(format string, args ...any) error {
	return New(KindConfiguration, fmt.Sprintf(format, args...), nil)
}

func Process(message string, cause error) error {
	return New(KindProcess, message, cause)
}

func Service(message string, cause error) error {
	return New(KindService, message, cause)
}

func Timeout(format string, args ...any) error {
	return New(KindTimeout, fmt.Sprintf(format, args...), nil)
}

func IO(message string, cause error) error {
	return New(KindIO, message, cause)
}

func InvalidRequest(format string, args ...any) error {
	return New(KindInvalidRequest, fmt.Sprintf(format, args...), nil)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
