package validator

import (
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/SAP-F-2025/survey-service/internal/errors"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/go-playground/validator/v10"
)

type ValidationErrors = apperrors.ValidationErrors

// Validator combines struct tag validation with the survey structure rules
type Validator struct {
	structValidator    *validator.Validate
	structureValidator *StructureValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:    structValidator,
		structureValidator: NewStructureValidator(structValidator),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Structure returns the survey structure validator
func (v *Validator) Structure() *StructureValidator {
	return v.structureValidator
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("contact_info_mode", validateContactInfoMode)
	validate.RegisterValidation("contact_info_placement", validateContactInfoPlacement)
	validate.RegisterValidation("link_status", validateLinkStatus)
	validate.RegisterValidation("survey_status", validateSurveyStatus)
	validate.RegisterValidation("slug", validateSlug)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateContactInfoMode(fl validator.FieldLevel) bool {
	switch models.ContactInfoMode(fl.Field().String()) {
	case models.ContactInfoRequired, models.ContactInfoOptional:
		return true
	}
	return false
}

func validateContactInfoPlacement(fl validator.FieldLevel) bool {
	switch models.ContactInfoPlacement(fl.Field().String()) {
	case models.ContactAtStart, models.ContactAtEnd:
		return true
	}
	return false
}

func validateLinkStatus(fl validator.FieldLevel) bool {
	switch models.LinkStatus(fl.Field().String()) {
	case models.LinkOpen, models.LinkClosed:
		return true
	}
	return false
}

func validateSurveyStatus(fl validator.FieldLevel) bool {
	switch models.SurveyStatus(fl.Field().String()) {
	case models.SurveyDraft, models.SurveyOpen, models.SurveyClosed:
		return true
	}
	return false
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}
