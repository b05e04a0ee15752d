package leaveerrors

import (
	"net/http"

	"github.com/mythicalbadger/swe-hw1-backend/internal/shared/apperror"
)

var (
	ErrInvalidRequesterID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid requester id",
		http.StatusBadRequest,
	)
	ErrInvalidCallerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid caller id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrAdvanceNotice = apperror.New(
		apperror.CodeInvalidState,
		"leave request must be made at least two months in advance",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"not enough remaining leave days",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave request overlaps with another leave request",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveAlreadyStarted = apperror.New(
		apperror.CodeInvalidState,
		"cannot delete leave request after leave has started",
		http.StatusBadRequest,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeUnauthorized,
		"administrator privileges required",
		http.StatusUnauthorized,
	)
)
