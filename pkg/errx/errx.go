// Package errx is the fixed error taxonomy surfaced to API clients.
//
// Every failure that crosses a resolver boundary is exactly one *Error. Any
// other error is classified as an internal error by From, with its detail
// kept out of the client-facing message.
package errx

import (
	"errors"
	"fmt"
	"maps"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Code is the machine readable code placed in extensions.code.
type Code string

const (
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeNotFound            Code = "NOT_FOUND"
	CodeBadUserInput        Code = "BAD_USER_INPUT"
	CodeUnprocessableEntity Code = "UNPROCESSABLE_ENTITY"
	CodeInternalServerError Code = "INTERNAL_SERVER_ERROR"
	CodeUnauthenticated     Code = "UNAUTHENTICATED"
	CodeTooManyRequests     Code = "TOO_MANY_REQUESTS"
)

// Kind identifies which member of the taxonomy an error is. Codes can be
// shared between kinds (NotFound and BadRequest both use BAD_REQUEST) so
// callers that need to branch should use the kind.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindBadRequest
	KindUnprocessable
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindBadRequest:
		return "bad_request"
	case KindUnprocessable:
		return "unprocessable_entity"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

const (
	msgInvalidInput    = "Invalid input."
	msgInternal        = "Internal Server Error"
	msgUnauthenticated = "You must be logged in."
	msgTooManyRequests = "Too many requests. Please try again later."
)

// Error is a classified API failure.
type Error struct {
	Kind    Kind
	Code    Code
	Message string

	// Fields maps a field path to a message. Only set for KindInvalidInput.
	Fields map[string]string

	// Detail is the operator-facing side channel of an internal error. It is
	// rendered as extensions.message and never used as the message itself.
	Detail string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCode returns a copy of e carrying a different code.
func (e *Error) WithCode(code Code) *Error {
	c := *e
	c.Fields = maps.Clone(e.Fields)
	c.Code = code
	return &c
}

// Wrap returns a copy of e that records err as its cause. The cause is only
// visible server side.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.Fields = maps.Clone(e.Fields)
	c.cause = err
	return &c
}

// NotFound reports that a referenced entity does not exist. The resource
// name defaults to "User".
func NotFound(resource ...string) *Error {
	name := "User"
	if len(resource) > 0 && resource[0] != "" {
		name = resource[0]
	}
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeBadRequest,
		Message: name + " not found",
	}
}

// InvalidInput reports failed validation with a field to message map.
func InvalidInput(fields map[string]string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeBadUserInput,
		Message: msgInvalidInput,
		Fields:  maps.Clone(fields),
	}
}

// InvalidField is InvalidInput for a single field.
func InvalidField(field, message string) *Error {
	return InvalidInput(map[string]string{field: message})
}

// BadRequest reports a forbidden combination of otherwise valid inputs.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Code: CodeBadRequest, Message: message}
}

// Unprocessable reports that the entities exist but the operation is not
// allowed for this caller.
func Unprocessable(message string) *Error {
	return &Error{Kind: KindUnprocessable, Code: CodeUnprocessableEntity, Message: message}
}

// Internal reports an unexpected failure. detail is exposed only in the
// message extension; pass "" to expose nothing.
func Internal(detail string) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternalServerError, Message: msgInternal, Detail: detail}
}

// TooManyRequests reports a throttled caller.
func TooManyRequests() *Error {
	return &Error{Kind: KindBadRequest, Code: CodeTooManyRequests, Message: msgTooManyRequests}
}

// Unauthenticated reports a call to a secured field without a valid caller.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Code: CodeUnauthenticated, Message: msgUnauthenticated}
}

// From classifies err. Taxonomy errors anywhere in the chain are returned as
// they are; everything else becomes a redacted internal error that keeps err
// as its cause for logging.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("").Wrap(err)
}

// KindOf returns the kind of err after classification.
func KindOf(err error) Kind {
	return From(err).Kind
}

// GQL renders e in the GraphQL error shape:
//
//	{message, path, extensions: {code, exception?: {errors}, message?}}
func (e *Error) GQL(path ast.Path) *gqlerror.Error {
	ext := map[string]any{"code": string(e.Code)}
	if len(e.Fields) > 0 {
		ext["exception"] = map[string]any{"errors": maps.Clone(e.Fields)}
	}
	if e.Kind == KindInternal && e.Detail != "" {
		ext["message"] = e.Detail
	}
	return &gqlerror.Error{
		Message:    e.Message,
		Path:       path,
		Extensions: ext,
	}
}
