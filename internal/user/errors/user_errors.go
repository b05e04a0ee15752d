package usererrors

import (
	"net/http"

	"github.com/mythicalbadger/swe-hw1-backend/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUsernameAlreadyTaken = apperror.New(
		apperror.CodeConflict,
		"Username already taken",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidPassword = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid password",
		http.StatusBadRequest,
	)
)
