package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet & Ledger Business Logic (WAL) ----

// ErrInvalidAmount rejects amounts that are zero or negative.
func ErrInvalidAmount(detail string) *AppError {
	msg := "Amount must be greater than zero"
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return New("WAL_001", msg, http.StatusBadRequest)
}

// ErrInsufficientBalance rejects an operation whose debit precondition
// fails. The state is left exactly as it was before the call.
func ErrInsufficientBalance(accountID string, currency string) *AppError {
	return New("WAL_002",
		fmt.Sprintf("Insufficient available %s balance on account %s", currency, accountID),
		http.StatusUnprocessableEntity)
}

// ErrAccountNotFound signals that a referenced account has no resolvable
// wallet where existence is required.
func ErrAccountNotFound(accountID string) *AppError {
	return New("WAL_003",
		fmt.Sprintf("Account %s has no wallet", accountID),
		http.StatusNotFound)
}

// ErrInvalidCurrency rejects unsupported currency codes.
func ErrInvalidCurrency(code string) *AppError {
	return New("WAL_004",
		fmt.Sprintf("Unsupported currency %q", code),
		http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_000-style request validation error.
func Validation(message string) *AppError {
	return New("WAL_000", message, http.StatusBadRequest)
}
