// Package apperr defines the typed errors services return and the HTTP
// layer translates into the response envelope.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindUnauthorized
	KindForbidden
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error carries the envelope message and payload for a failure.
// Status is only meaningful for KindUpstream, where it mirrors the
// collaborator's HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Data    any
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

const (
	MsgBadCredentials     = "username or password is incorrect."
	MsgMissingCredentials = "Login credentials are missing."
	MsgAccountAbnormal    = "User account is abnormal."
	MsgInvalidToken       = "The access token provided is expired, revoked, malformed or invalid for other reason."
	MsgNoPermission       = "No permission."
	MsgInvalidArguments   = "Provided arguments are invalid, see data for details."
	MsgUpstream           = "A rest client error occurs, see data for details."
	MsgInternal           = "A server internal error occurs."
	MsgNoEndpoint         = "This API endpoint is not found."
)

func NotFound(object, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Could not find %s with Id %s :(", object, id)}
}

func InvalidArgument(message string, data any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message, Data: data}
}

// Validation reports per-field failures under the generic validation message.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: MsgInvalidArguments, Data: fields}
}

func BadCredentials(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgBadCredentials, Data: detail}
}

func MissingCredentials(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgMissingCredentials, Data: detail}
}

func AccountAbnormal(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgAccountAbnormal, Data: detail}
}

func InvalidToken(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgInvalidToken, Data: detail}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: MsgNoPermission, Data: "Access Denied"}
}

func Upstream(status int, detail string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: MsgUpstream, Data: detail, Status: status, Err: err}
}

func Internal(message string, err error) *Error {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	return &Error{Kind: KindInternal, Message: message, Data: detail, Err: err}
}

// KindOf returns KindInternal for errors that are not *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
