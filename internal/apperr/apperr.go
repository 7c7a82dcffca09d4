// Package apperr defines the error taxonomy shared by all services.
//
// Every error carries a five-digit business code. Handlers map the error kind
// to an HTTP status and pass the code and message through to the client, so
// services never deal with HTTP directly.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindAuthorization
	KindNotFound
)

// Validation codes.
const (
	CodeInvalidParam = 40001
	CodeOutOfRange   = 40002
	CodeInvalidState = 40003
	CodeDuplicate    = 40004
	CodeDateRange    = 40005
	CodeBadPassword  = 40006
)

// Authorization code.
const CodeForbidden = 40301

// Not-found codes.
const (
	CodeUserNotFound         = 40401
	CodeProjectNotFound      = 40402
	CodeMembershipNotFound   = 40403
	CodeWorkLogNotFound      = 40404
	CodeNotificationNotFound = 40405
	CodeFileNotFound         = 40406
)

type Error struct {
	Code    int
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%s", e.Code, e.Message)
}

func Validation(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...interface{}) *Error {
	return &Error{Code: CodeForbidden, Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// From unwraps err into an *Error, reporting whether it is one.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsValidation(err error) bool    { return isKind(err, KindValidation) }
func IsAuthorization(err error) bool { return isKind(err, KindAuthorization) }
func IsNotFound(err error) bool      { return isKind(err, KindNotFound) }

func isKind(err error, kind Kind) bool {
	e, ok := From(err)
	return ok && e.Kind == kind
}
