package errors

import (
	"errors"
	"fmt"
)

// Re-exported so callers only need this package.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

const (
	ErrInternal            = "INTERNAL"
	ErrInvalidArgument     = "INVALID_ARGUMENT"
	ErrEmptyPopulation     = "EMPTY_POPULATION"
	ErrConstraintViolation = "CONSTRAINT_VIOLATION"
	ErrInvalidPath         = "INVALID_PATH"
	ErrSchemaMissing       = "SCHEMA_MISSING"
)

// Error is an error that carries one of the codes above.
type Error interface {
	error
	Code() string
	Unwrap() error
}

type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

func (e *AppError) Unwrap() error {
	return e.err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

func EmptyPopulation(format string, args ...any) error {
	return NewAppError(ErrEmptyPopulation, fmt.Sprintf(format, args...), nil)
}

func InvalidArgument(format string, args ...any) error {
	return NewAppError(ErrInvalidArgument, fmt.Sprintf(format, args...), nil)
}

func ConstraintViolation(message string, err error) error {
	return NewAppError(ErrConstraintViolation, message, err)
}

func InvalidPath(path string, err error) error {
	return NewAppError(ErrInvalidPath, fmt.Sprintf("cannot create storage at %s", path), err)
}

func SchemaMissing(table string) error {
	return NewAppError(ErrSchemaMissing,
		fmt.Sprintf("table %s does not exist (run init-db first)", table), nil)
}

// CodeOf returns the code of the first coded error in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) string {
	var appErr Error
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return ErrInternal
}

// HasCode reports whether any coded error in err's chain has the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		if e, ok := err.(Error); ok && e.Code() == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
