package models

import "errors"

// ErrorCode representa el código de error expuesto al cliente
type ErrorCode string

const (
	ErrorCodeMissingInput     ErrorCode = "MISSING_INPUT"
	ErrorCodeInvalidOrExpired ErrorCode = "INVALID_OR_EXPIRED"
	ErrorCodeAlreadyUsed      ErrorCode = "ALREADY_USED"
	ErrorCodeExpired          ErrorCode = "EXPIRED"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeIntegrity        ErrorCode = "INTEGRITY_ERROR"
	ErrorCodeStorageFailure   ErrorCode = "STORAGE_FAILURE"
	ErrorCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrorCodeInternal         ErrorCode = "INTERNAL"
)

// Errores de dominio. Los servicios los envuelven con contexto y los handlers
// los resuelven con errors.Is.
var (
	ErrMissingInput     = errors.New("missing input")
	ErrInvalidOrExpired = errors.New("invalid or expired token")
	ErrAlreadyUsed      = errors.New("token already used")
	ErrExpired          = errors.New("token expired")
	ErrNotFound         = errors.New("not found")
	ErrIntegrity        = errors.New("data integrity error")
	ErrStorageFailure   = errors.New("storage failure")

	// ErrRecordNotFound lo retornan los repositorios cuando la fila no existe
	ErrRecordNotFound = errors.New("record not found")
)

// ErrorResponse representa el sobre de error de las funciones
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// NewErrorResponse crea una nueva respuesta de error
func NewErrorResponse(code ErrorCode, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
		Code:    string(code),
	}
}
