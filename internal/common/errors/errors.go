// Package errors provides standardized error handling for the persona-match
// service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDataIntegrityViolation   ErrorCode = "DATA_INTEGRITY_VIOLATION"
	ErrCodeKnowledgeBaseUnreadable  ErrorCode = "KNOWLEDGE_BASE_UNREADABLE"
	ErrCodeKnowledgeBaseInvalid     ErrorCode = "KNOWLEDGE_BASE_INVALID"
	ErrCodeEmbeddingUnavailable     ErrorCode = "EMBEDDING_UNAVAILABLE"
	ErrCodeClassifierUnavailable    ErrorCode = "CLASSIFIER_UNAVAILABLE"
	ErrCodeInferenceTimeout         ErrorCode = "INFERENCE_TIMEOUT"
	ErrCodeInferenceResponseInvalid ErrorCode = "INFERENCE_RESPONSE_INVALID"
	ErrCodeInvalidRequest           ErrorCode = "INVALID_REQUEST"
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

// Is makes StandardError comparable by code via errors.Is.
func (e *StandardError) Is(target error) bool {
	var se *StandardError
	if errors.As(target, &se) {
		return e.Code == se.Code
	}
	return false
}

// CodeOf extracts the error code from err, or empty string when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsInferenceUnavailable reports whether err indicates a failed or unreachable
// inference collaborator. Callers surface these rather than substituting
// default scores, since silently guessing would corrupt rankings.
func IsInferenceUnavailable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeEmbeddingUnavailable, ErrCodeClassifierUnavailable, ErrCodeInferenceTimeout, ErrCodeInferenceResponseInvalid:
		return true
	}
	return false
}

// NewDataIntegrityError creates a non-retryable error for dangling references
// or otherwise inconsistent static data.
func NewDataIntegrityError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataIntegrityViolation,
		Message:   "Static knowledge base is internally inconsistent",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewKnowledgeBaseUnreadableError creates a non-retryable error for missing or
// unparsable knowledge base files.
func NewKnowledgeBaseUnreadableError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeBaseUnreadable,
		Message:   "Failed to read knowledge base file",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewKnowledgeBaseInvalidError creates a non-retryable schema validation error.
func NewKnowledgeBaseInvalidError(path string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeBaseInvalid,
		Message:   "Knowledge base file failed schema validation",
		Details:   fmt.Sprintf("path: %s, errors: %s", path, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingUnavailableError creates a retryable embedding service error.
func NewEmbeddingUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingUnavailable,
		Message:   "Embedding service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifierUnavailableError creates a retryable classifier service error.
func NewClassifierUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifierUnavailable,
		Message:   "Zero-shot classification service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceTimeoutError creates a retryable inference timeout error.
func NewInferenceTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceTimeout,
		Message:   "Inference call exceeded its deadline",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceResponseInvalidError creates a non-retryable error for
// malformed inference API responses.
func NewInferenceResponseInvalidError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceResponseInvalid,
		Message:   "Inference service returned an unusable response",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
