package engine

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of an error for recovery logic.
// Every class is local and recoverable by the caller; none is process-fatal.
type ErrorClass string

const (
	// ErrorClassContract indicates the caller violated an API contract.
	// Examples: searching an unknown rule set, applying a rule to a state
	// whose precondition does not hold.
	ErrorClassContract ErrorClass = "contract"

	// ErrorClassValidation indicates a malformed request or configuration.
	// Examples: nil goal predicate, unrecognized merge method.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassCancelled indicates the context was cancelled while a
	// search was in flight.
	ErrorClassCancelled ErrorClass = "cancelled"

	// ErrorClassInternal indicates an engine invariant was broken.
	ErrorClassInternal ErrorClass = "internal"
)

// SearchError represents a classified error with search context.
type SearchError struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// RuleSet is the rule set name involved, if applicable.
	RuleSet string `json:"ruleset,omitempty"`

	// Rule is the rule name involved, if applicable.
	Rule string `json:"rule,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`

	// Details contains additional context-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	switch {
	case e.RuleSet != "" && e.Rule != "":
		return fmt.Sprintf("[%s] %s (ruleset=%s, rule=%s)%s",
			e.Class, e.Message, e.RuleSet, e.Rule, e.unwrapSuffix())
	case e.RuleSet != "":
		return fmt.Sprintf("[%s] %s (ruleset=%s)%s",
			e.Class, e.Message, e.RuleSet, e.unwrapSuffix())
	default:
		return fmt.Sprintf("[%s] %s%s", e.Class, e.Message, e.unwrapSuffix())
	}
}

// Unwrap returns the underlying error for error chain inspection.
func (e *SearchError) Unwrap() error {
	return e.Err
}

func (e *SearchError) unwrapSuffix() string {
	if e.Err != nil {
		return ": " + e.Err.Error()
	}
	return ""
}

// Is implements error equality checking for errors.Is.
func (e *SearchError) Is(target error) bool {
	t, ok := target.(*SearchError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewContractError creates a new contract-violation error.
func NewContractError(message string, err error) *SearchError {
	return &SearchError{
		Class:   ErrorClassContract,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, err error) *SearchError {
	return &SearchError{
		Class:   ErrorClassValidation,
		Message: message,
		Code:    ErrCodeValidation,
		Err:     err,
	}
}

// NewCancelledError creates a new cancellation error.
func NewCancelledError(message string, err error) *SearchError {
	return &SearchError{
		Class:   ErrorClassCancelled,
		Message: message,
		Code:    ErrCodeCancelled,
		Err:     err,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *SearchError {
	return &SearchError{
		Class:   ErrorClassInternal,
		Message: message,
		Code:    ErrCodeInternal,
		Err:     err,
	}
}

// WithCode adds an error code to an error.
func (e *SearchError) WithCode(code string) *SearchError {
	e.Code = code
	return e
}

// WithRuleSet adds rule set context to an error.
func (e *SearchError) WithRuleSet(name string) *SearchError {
	e.RuleSet = name
	return e
}

// WithRule adds rule context to an error.
func (e *SearchError) WithRule(name string) *SearchError {
	e.Rule = name
	return e
}

// WithDetail adds a detail field to the error context.
func (e *SearchError) WithDetail(key string, value interface{}) *SearchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsUnknownRuleSet returns true if the error reports a rule set name that
// was never created.
func IsUnknownRuleSet(err error) bool {
	var e *SearchError
	if errors.As(err, &e) {
		return e.Code == ErrCodeUnknownRuleSet
	}
	return false
}

// IsInvalidRuleApplication returns true if the error reports a rule action
// applied to a state whose precondition does not hold.
func IsInvalidRuleApplication(err error) bool {
	var e *SearchError
	if errors.As(err, &e) {
		return e.Code == ErrCodeInvalidRuleApplication
	}
	return false
}

// IsValidation returns true if the error is classified as a validation error.
func IsValidation(err error) bool {
	var e *SearchError
	if errors.As(err, &e) {
		return e.Class == ErrorClassValidation
	}
	return false
}

// IsCancelled returns true if the error reports a cancelled search.
func IsCancelled(err error) bool {
	var e *SearchError
	if errors.As(err, &e) {
		return e.Class == ErrorClassCancelled
	}
	return false
}

// Common error codes.
const (
	ErrCodeUnknownRuleSet         = "UNKNOWN_RULESET"
	ErrCodeInvalidRuleApplication = "INVALID_RULE_APPLICATION"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeCancelled              = "CANCELLED"
	ErrCodeInternal               = "INTERNAL_ERROR"
)
