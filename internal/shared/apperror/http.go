package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the transport-facing view of an error, ready to be written
// into a response envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP classifies an error for the HTTP layer. Anything that is not an
// AppError is treated as an internal failure and its message is not leaked.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}
