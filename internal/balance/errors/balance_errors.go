package balanceerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Balance not found for employee, leave type and year",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient available days",
		http.StatusUnprocessableEntity,
	)
	ErrDuplicateBalance = apperror.New(
		apperror.CodeDuplicateBalance,
		"Balance already exists for employee, leave type and year",
		http.StatusConflict,
	)
	ErrInvalidTotalDays = apperror.New(
		apperror.CodeInvalidInput,
		"Total days cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"Days to apply must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)
	ErrDefaultLeaveTypeUnset = apperror.New(
		apperror.CodeInternalError,
		"Default leave type is not configured",
		http.StatusInternalServerError,
	)
)
