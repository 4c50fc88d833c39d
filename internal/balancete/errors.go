package balancete

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure the way the frontend distinguishes them.
type Code string

const (
	CodeParse       Code = "PARSE_ERROR"
	CodeShape       Code = "SHAPE_ERROR"
	CodeNotFound    Code = "NOT_FOUND"
	CodePersistence Code = "PERSISTENCE_ERROR"
)

// Error carries a failure classification plus the user-facing message shown
// inline by the frontend. Messages are pt-BR because they render verbatim.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewParseError reports an upload that is not syntactically valid JSON.
func NewParseError(cause error) *Error {
	return &Error{Code: CodeParse, Message: "Arquivo JSON inválido. Verifique o formato.", Cause: cause}
}

// NewShapeError reports valid JSON with the wrong top-level shape.
func NewShapeError() *Error {
	return &Error{Code: CodeShape, Message: "O arquivo JSON deve conter um array de contas"}
}

// NewNotFoundError reports a missing period record.
func NewNotFoundError() *Error {
	return &Error{Code: CodeNotFound, Message: "Balancete não encontrado"}
}

// NewPersistenceError wraps a storage failure with the message the user sees.
func NewPersistenceError(message string, cause error) *Error {
	return &Error{Code: CodePersistence, Message: message, Cause: cause}
}

// CodeOf extracts the classification of err, or CodePersistence for errors
// that did not originate in this package.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodePersistence
}

// MessageOf extracts the user-facing message of err, or a generic one.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Erro ao processar a solicitação. Tente novamente."
}
