package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/yigit/deptportal/internal/app/models/dto/enums"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

type (
	ErrorCode     = enums.ErrorCode
	ErrorSeverity = enums.ErrorSeverity
)

const (
	ErrorCodeInvalidCredentials    = enums.ErrorCodeInvalidCredentials
	ErrorCodeInvalidPassword       = enums.ErrorCodeInvalidPassword
	ErrorCodeSignupDisabled        = enums.ErrorCodeSignupDisabled
	ErrorCodeInvalidToken          = enums.ErrorCodeInvalidToken
	ErrorCodeExpiredToken          = enums.ErrorCodeExpiredToken
	ErrorCodeRevokedToken          = enums.ErrorCodeRevokedToken
	ErrorCodeUnauthorized          = enums.ErrorCodeUnauthorized
	ErrorCodeResourceNotFound      = enums.ErrorCodeResourceNotFound
	ErrorCodeResourceAlreadyExists = enums.ErrorCodeResourceAlreadyExists
	ErrorCodeConflict              = enums.ErrorCodeConflict
	ErrorCodeValidationFailed      = enums.ErrorCodeValidationFailed
	ErrorCodeFileTooLarge          = enums.ErrorCodeFileTooLarge
	ErrorCodeInternalServer        = enums.ErrorCodeInternalServer
	ErrorCodeDatabaseError         = enums.ErrorCodeDatabaseError
	ErrorCodeUploadFailed          = enums.ErrorCodeUploadFailed
	ErrorCodeBadRequest            = enums.ErrorCodeBadRequest
	ErrorCodeForbidden             = enums.ErrorCodeForbidden

	ErrorSeverityInfo     = enums.ErrorSeverityInfo
	ErrorSeverityWarning  = enums.ErrorSeverityWarning
	ErrorSeverityError    = enums.ErrorSeverityError
	ErrorSeverityCritical = enums.ErrorSeverityCritical
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code      ErrorCode     `json:"code" example:"AUTH_001"`
	Message   string        `json:"message" example:"Invalid email or password"`
	Field     string        `json:"field,omitempty" example:"email"`
	Severity  ErrorSeverity `json:"severity" example:"ERROR"`
	Details   interface{}   `json:"details,omitempty"`
	DebugInfo string        `json:"debugInfo,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithDebugInfo adds debug information (for development/testing only)
func (e *ErrorDetail) WithDebugInfo(format string, args ...interface{}) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now().UTC(),
	}
}

// HandleValidationError turns a validation failure into an error detail
// carrying the per-field messages.
func HandleValidationError(err error) *ErrorDetail {
	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed")
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		detail.Message = ce.Error()
		if len(ce.Details) > 0 {
			detail.Details = ce.Details
		}
		return detail
	}
	return detail.WithDetails(err.Error())
}
