package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeNotFound           ErrorCode = "COMMON_004"
	ErrCodeConflict           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
)

// Gateway / workflow Error Codes.
// AUTH_ and TASK_ codes classify failures of the remote computation platform
// and of the submit/poll lifecycle built on top of it.
const (
	ErrCodeAuthFailed     ErrorCode = "AUTH_001"
	ErrCodeTaskSubmission ErrorCode = "TASK_001"
	ErrCodeTaskNotFound   ErrorCode = "TASK_002"
	ErrCodeResultNotReady ErrorCode = "TASK_003"
	ErrCodeStaleResult    ErrorCode = "TASK_004"
	ErrCodeNoLiveTask     ErrorCode = "TASK_005"
	ErrCodeResultMissing  ErrorCode = "TASK_006"
)

// Data / analytics Error Codes.
const (
	ErrCodeDataShape       ErrorCode = "DATA_001"
	ErrCodeMalformedResult ErrorCode = "DATA_002"
	ErrCodeDatasetParse    ErrorCode = "DATA_003"
)

// Staging Error Codes.
const (
	ErrCodeUnknownAxis  ErrorCode = "STAGE_001"
	ErrCodeUnknownStage ErrorCode = "STAGE_002"
)

// Aliases used by the factory helpers in errors.go.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeAuthFailed:     http.StatusBadGateway,
	ErrCodeTaskSubmission: http.StatusBadGateway,
	ErrCodeTaskNotFound:   http.StatusNotFound,
	ErrCodeResultNotReady: http.StatusAccepted,
	ErrCodeStaleResult:    http.StatusConflict,
	ErrCodeNoLiveTask:     http.StatusConflict,
	ErrCodeResultMissing:  http.StatusNotFound,

	ErrCodeDataShape:       http.StatusUnprocessableEntity,
	ErrCodeMalformedResult: http.StatusBadGateway,
	ErrCodeDatasetParse:    http.StatusUnprocessableEntity,

	ErrCodeUnknownAxis:  http.StatusBadRequest,
	ErrCodeUnknownStage: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeAuthFailed:     "authentication with the computation platform failed",
	ErrCodeTaskSubmission: "task submission failed",
	ErrCodeTaskNotFound:   "task not found",
	ErrCodeResultNotReady: "still waiting for results, try again later",
	ErrCodeStaleResult:    "result belongs to a superseded task",
	ErrCodeNoLiveTask:     "no task has been submitted for this workflow",
	ErrCodeResultMissing:  "task completed but no result payload was returned",

	ErrCodeDataShape:       "result payload violates a shape invariant",
	ErrCodeMalformedResult: "result payload could not be decoded",
	ErrCodeDatasetParse:    "failed to parse source dataset",

	ErrCodeUnknownAxis:  "unknown staging axis",
	ErrCodeUnknownStage: "stage label not in the configured enumeration",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
