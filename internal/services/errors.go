package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/survey-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized access")

	// Public flow errors
	ErrDefinitionNotFound = errors.New("survey unavailable")

	// Staff resource errors
	ErrStudyNotFound    = errors.New("study not found")
	ErrCohortNotFound   = errors.New("cohort not found")
	ErrSurveyNotFound   = errors.New("survey not found")
	ErrLinkNotFound     = errors.New("survey link not found")
	ErrResponseNotFound = errors.New("response not found")

	// Update errors
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrSlugExhausted    = errors.New("failed to generate a unique link slug")
)

// Business rule identifiers
const (
	RuleStructureLocked     = "structure_locked"
	RuleRequiredAnswers     = "required_answers"
	RuleRequiredContactInfo = "required_contact_info"
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// PersistenceError wraps a store failure that is surfaced unchanged.
type PersistenceError struct {
	Op  string `json:"op"`
	Err error  `json:"-"`
}

func (pe *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", pe.Op, pe.Err)
}

func (pe *PersistenceError) Unwrap() error {
	return pe.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDefinitionNotFound) ||
		errors.Is(err, ErrStudyNotFound) ||
		errors.Is(err, ErrCohortNotFound) ||
		errors.Is(err, ErrSurveyNotFound) ||
		errors.Is(err, ErrLinkNotFound) ||
		errors.Is(err, ErrResponseNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrNoFieldsToUpdate) {
		return true
	}
	return apperrors.IsValidation(err)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsPersistence checks if error came from the store
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
