package dderr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeValidationFailure   = "VALIDATION_FAILURE"
	CodeInvalidReference    = "INVALID_REFERENCE"
	CodeDuplicateEntity     = "DUPLICATE_ENTITY"
	CodeReferentialConflict = "REFERENTIAL_CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
)

var (
	// ErrValidation is returned when the request payload is malformed or violates a field rule.
	ErrValidation = New(fiber.StatusBadRequest, CodeValidationFailure, "invalid request: some or all request parameters are invalid")

	// ErrPayloadTooLarge is a validation failure for uploads exceeding the configured size limit.
	ErrPayloadTooLarge = New(fiber.StatusRequestEntityTooLarge, CodeValidationFailure, "payload too large")

	// ErrInvalidReference is returned when referenced catalog codes or entities do not exist.
	ErrInvalidReference = New(fiber.StatusBadRequest, CodeInvalidReference, "one or more referenced entities do not exist")

	// ErrDuplicateEntity is returned when a uniqueness constraint would be violated.
	ErrDuplicateEntity = New(fiber.StatusConflict, CodeDuplicateEntity, "entity already exists")

	// ErrReferentialConflict is returned when an entity is still referenced by another one.
	ErrReferentialConflict = New(fiber.StatusConflict, CodeReferentialConflict, "entity is referenced by other entities")

	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")
)

type Extras map[string]any

type Error struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e Error) Msg(format string, parts ...any) *Error {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e Error) WithExtras(extras Extras) *Error {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations any) *Error {
	e := *ErrValidation
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

// NewDuplicate names the violated uniqueness constraint in the error extras.
func NewDuplicate(constraint string, format string, parts ...any) *Error {
	return ErrDuplicateEntity.Msg(format, parts...).WithExtras(Extras{
		"constraint": constraint,
	})
}

// NewMissingCodes lists catalog codes that could not be resolved.
func NewMissingCodes(codes []string) *Error {
	return ErrInvalidReference.Msg("unknown measurement codes: %v", codes).WithExtras(Extras{
		"missing_codes": codes,
	})
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is reports whether target is an *Error of the same kind, so errors.Is works
// with copies created by Msg and WithExtras.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode && e.StatusCode == t.StatusCode
}
