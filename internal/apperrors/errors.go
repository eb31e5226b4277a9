package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

var (
	ErrConflict     = errors.New("conflicting state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Ledger errors. All are user-correctable rejections.
var (
	// ErrPeriodClosed indicates a write against a fiscal year that is not opened.
	ErrPeriodClosed = errors.New("fiscal year is not opened")

	ErrAlreadyLettered      = errors.New("transaction is already lettered")
	ErrUnbalanced           = errors.New("transactions do not balance to zero")
	ErrMultipleAccounts     = errors.New("transactions span more than one account")
	ErrMultipleThirdParties = errors.New("transactions span more than one third party")

	// ErrReferentialIntegrity indicates a delete of a row still referenced elsewhere.
	ErrReferentialIntegrity = errors.New("resource is still referenced")

	// ErrEntryUnbalanced rejects a multi-line posting whose lines do not net to zero.
	ErrEntryUnbalanced = errors.New("entry does not balance to zero")

	ErrYearAlreadyClosed = errors.New("fiscal year is already closed")
)

// AppError carries an HTTP status alongside a wrapped cause.
type AppError struct {
	Status  int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the missing resource description.
func NewNotFoundError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error chain to the response status.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnbalanced),
		errors.Is(err, ErrEntryUnbalanced),
		errors.Is(err, ErrMultipleAccounts),
		errors.Is(err, ErrMultipleThirdParties):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrAlreadyLettered),
		errors.Is(err, ErrReferentialIntegrity),
		errors.Is(err, ErrYearAlreadyClosed):
		return http.StatusConflict
	case errors.Is(err, ErrPeriodClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &appErr):
		return appErr.Status
	default:
		return http.StatusInternalServerError
	}
}
