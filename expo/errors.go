package expo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines expo error kinds.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindExternal   ErrorKind = "external"
	KindTimeout    ErrorKind = "timeout"
	KindCanceled   ErrorKind = "canceled"
	KindInternal   ErrorKind = "internal"
	KindNotImpl    ErrorKind = "not_implemented"
)

// ErrRenderTargetMissing reports that the node to capture is not in the document.
var ErrRenderTargetMissing = errors.New("render target not found")

// RemoteError reports a non-success response from the remote API.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api responded %d", e.StatusCode)
	}
	return fmt.Sprintf("remote api responded %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the server provided message carried by err, or fallback.
func UserMessage(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && strings.TrimSpace(remote.Message) != "" {
		return remote.Message
	}
	return fallback
}

// Error wraps errors with a kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new expo error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var expoErr *Error
	if errors.As(err, &expoErr) {
		kind = expoErr.Kind
		if expoErr.Msg != "" {
			msg = expoErr.Msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindExternal:
		return errorslib.New(msg, errorslib.CategoryExternal).WithTextCode("external")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its expo error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var expoErr *Error
	if errors.As(err, &expoErr) {
		return expoErr.Kind
	}

	if errorslib.IsValidation(err) {
		return KindValidation
	}
	if errorslib.IsNotFound(err) {
		return KindNotFound
	}

	return KindInternal
}

// FieldErrors returns field level validation messages carried by err.
func FieldErrors(err error) map[string]string {
	fields, ok := errorslib.GetValidationErrors(err)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		if _, exists := out[field.Field]; exists {
			continue
		}
		out[field.Field] = field.Message
	}
	return out
}
