package governance

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an error for retry and
// recovery logic.
type ErrorClass string

const (
	// ErrorClassValidation indicates a precondition failure raised before
	// any state mutation. The caller must retry with corrected input.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassConflict indicates a state conflict such as a duplicate
	// vote or a concurrent stake.
	ErrorClassConflict ErrorClass = "conflict"

	// ErrorClassTransient indicates a failure that may succeed on retry,
	// such as an execution-handler failure on a proposal that remains
	// PASSED.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassPermanent indicates a non-recoverable error.
	ErrorClassPermanent ErrorClass = "permanent"
)

// Stable error codes surfaced to callers. UI and API layers render distinct
// guidance per code, so codes must not change meaning between releases.
const (
	ErrCodeInsufficientBalance    = "INSUFFICIENT_BALANCE"
	ErrCodeInsufficientTrustScore = "INSUFFICIENT_TRUST_SCORE"
	ErrCodeNotStaked              = "NOT_STAKED"
	ErrCodeAlreadyStaked          = "ALREADY_STAKED"
	ErrCodeNoActiveStake          = "NO_ACTIVE_STAKE"
	ErrCodeAlreadyVoted           = "ALREADY_VOTED"
	ErrCodeInvalidState           = "INVALID_STATE"
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeNotExecutable          = "NOT_EXECUTABLE"
	ErrCodeVotingStillOpen        = "VOTING_STILL_OPEN"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeStoreFailure           = "STORE_FAILURE"
	ErrCodeLedgerFailure          = "LEDGER_FAILURE"
	ErrCodeReputationFailure      = "REPUTATION_FAILURE"
	ErrCodeHandlerFailed          = "HANDLER_FAILED"
)

// GovernanceError represents a classified engine error with a stable code.
// nolint:revive // GovernanceError is intentionally named to distinguish from standard errors
type GovernanceError struct {
	// Class is the error classification for retry logic.
	Class ErrorClass `json:"class"`

	// Code is the stable error code for programmatic handling.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *GovernanceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Class, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Class, e.Code, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *GovernanceError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is. Two governance
// errors match when their codes match.
func (e *GovernanceError) Is(target error) bool {
	t, ok := target.(*GovernanceError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail adds a detail field to the error context.
func (e *GovernanceError) WithDetail(key string, value any) *GovernanceError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewValidationError creates a precondition-failure error with a stable code.
func NewValidationError(code, message string) *GovernanceError {
	return &GovernanceError{
		Class:   ErrorClassValidation,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a state-conflict error with a stable code.
func NewConflictError(code, message string) *GovernanceError {
	return &GovernanceError{
		Class:   ErrorClassConflict,
		Code:    code,
		Message: message,
	}
}

// NewTransientError creates a retryable error wrapping an underlying cause.
func NewTransientError(code, message string, err error) *GovernanceError {
	return &GovernanceError{
		Class:   ErrorClassTransient,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewPermanentError creates a non-recoverable error wrapping an underlying
// cause.
func NewPermanentError(code, message string, err error) *GovernanceError {
	return &GovernanceError{
		Class:   ErrorClassPermanent,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the stable code from an error chain, or "" when the
// chain holds no governance error.
func ErrorCode(err error) string {
	var e *GovernanceError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation returns true if the error is a precondition failure.
func IsValidation(err error) bool {
	var e *GovernanceError
	if errors.As(err, &e) {
		return e.Class == ErrorClassValidation
	}
	return false
}

// IsRetryable returns true if the operation may succeed on retry without a
// change in input. Transient and conflict errors are retryable.
func IsRetryable(err error) bool {
	var e *GovernanceError
	if errors.As(err, &e) {
		return e.Class == ErrorClassTransient || e.Class == ErrorClassConflict
	}
	return false
}
