// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"

	ErrCodeScoringUnavailable  ErrorCode = "SCORING_UNAVAILABLE"
	ErrCodePredictionRejected  ErrorCode = "PREDICTION_REJECTED"
	ErrCodePredictionFailed    ErrorCode = "PREDICTION_FAILED"
	ErrCodeMalformedPrediction ErrorCode = "MALFORMED_PREDICTION"

	ErrCodeJobCompletionFailed ErrorCode = "JOB_COMPLETION_FAILED"
	ErrCodeWorkflowEngine      ErrorCode = "WORKFLOW_ENGINE_ERROR"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInputParsingFailedError is returned when job variables cannot be read.
func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError wraps schema validation messages.
func NewValidationFailedError(messages []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   strings.Join(messages, "; "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringUnavailableError means the scoring backend could not be reached.
// The message is what the applicant sees.
func NewScoringUnavailableError(message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeScoringUnavailable,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionRejectedError carries the joined per-field validation message
// returned by the scoring backend.
func NewPredictionRejectedError(message string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionRejected,
		Message:   message,
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: false,
		Metadata:  map[string]interface{}{"statusCode": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionFailedError covers generic backend failures.
func NewPredictionFailedError(message string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionFailed,
		Message:   message,
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: false,
		Metadata:  map[string]interface{}{"statusCode": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedPredictionError is used when a 2xx body does not hold a complete result.
func NewMalformedPredictionError(message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeMalformedPrediction,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewJobCompletionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobCompletionFailed,
		Message:   "Failed to complete job",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowEngineError wraps a failed call to the Zeebe gateway.
func NewWorkflowEngineError(operation string, retryable bool, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowEngine,
		Message:   fmt.Sprintf("Zeebe operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: retryable,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the credit-risk process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputParsingFailed:  "INPUT_PARSING_FAILED",
	ErrCodeValidationFailed:    "VALIDATION_FAILED",
	ErrCodeScoringUnavailable:  "SCORING_UNAVAILABLE",
	ErrCodePredictionRejected:  "PREDICTION_REJECTED",
	ErrCodePredictionFailed:    "PREDICTION_FAILED",
	ErrCodeMalformedPrediction: "PREDICTION_FAILED",
	ErrCodeJobCompletionFailed: "JOB_COMPLETION_FAILED",
}

// GetRetryCount returns the job retry budget for a code. Prediction failures
// are terminal for the submission; only job bookkeeping is retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeJobCompletionFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SCORING") || strings.Contains(codeStr, "PREDICTION"):
		return "SCORING"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "JOB") || strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
