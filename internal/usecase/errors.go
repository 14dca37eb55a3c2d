package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// エラー分類はHTTPステータスに畳み込む。
// Validation=400 / NotFound=404 / Conflict=409 / Persistence=500
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func newValidationError(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

func newConflictError(message string) error {
	return NewHTTPError(http.StatusConflict, message)
}

func newPersistenceError() error {
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
