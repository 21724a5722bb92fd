package validator

import (
	"fmt"
	"strings"

	apperrors "github.com/SAP-F-2025/survey-service/internal/errors"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// StructureValidator checks an edited survey structure before it is saved.
// It stops at the first problem and reports it in editor-facing wording.
type StructureValidator struct {
	structValidator *validator.Validate
}

func NewStructureValidator(structValidator *validator.Validate) *StructureValidator {
	return &StructureValidator{structValidator: structValidator}
}

func structureError(rule, message string, value interface{}) *apperrors.ValidationError {
	return apperrors.NewValidationErrorWithRule("sections", message, rule, value)
}

// ValidateSections runs every structure rule against raw editor input.
func (v *StructureValidator) ValidateSections(sections []models.SectionDef) error {
	if len(sections) == 0 {
		return structureError("sections_required", "Add at least one section before saving structure.", nil)
	}

	for i := range sections {
		if err := v.validateSection(&sections[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *StructureValidator) validateSection(section *models.SectionDef) error {
	if strings.TrimSpace(section.Title) == "" {
		return structureError("section_title_required", "Every section needs a title.", section.ID)
	}
	if len(section.Questions) == 0 {
		return structureError("section_blocks_required",
			fmt.Sprintf("Section \"%s\" needs at least one block.", section.Title), section.ID)
	}

	keys := make(map[string]bool, len(section.RepeatGroups))
	for _, group := range section.RepeatGroups {
		if err := validateRepeatGroup(section, group, keys); err != nil {
			return err
		}
	}

	for i := range section.Questions {
		if err := v.ValidateQuestion(section, &section.Questions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateRepeatGroup(section *models.SectionDef, group models.RepeatGroupDef, seen map[string]bool) error {
	if strings.TrimSpace(group.Name) == "" {
		return structureError("repeat_group_name_required",
			fmt.Sprintf("Repeat groups need a name (section \"%s\").", section.Title), group.ID)
	}
	key := strings.TrimSpace(group.RepeatGroupKey)
	if key == "" {
		return structureError("repeat_group_key_required",
			fmt.Sprintf("Repeat groups need a key (section \"%s\").", section.Title), group.ID)
	}
	if seen[key] {
		return structureError("repeat_group_key_duplicate",
			fmt.Sprintf("Repeat group key \"%s\" is duplicated in \"%s\".", key, section.Title), key)
	}
	seen[key] = true

	if group.MinItems < 1 || group.MaxItems < 1 {
		return structureError("repeat_group_bounds",
			fmt.Sprintf("Repeat group \"%s\" needs min/max of at least 1.", group.Name), group.ID)
	}
	if group.MaxItems < group.MinItems {
		return structureError("repeat_group_bounds_order",
			fmt.Sprintf("Repeat group \"%s\" has max less than min.", group.Name), group.ID)
	}
	return nil
}

// ValidateQuestion checks a single block of section.
func (v *StructureValidator) ValidateQuestion(section *models.SectionDef, question *models.QuestionDef) error {
	if strings.TrimSpace(question.Label) == "" {
		return structureError("question_label_required",
			fmt.Sprintf("Every block needs a label (section \"%s\").", section.Title), question.ID)
	}
	if err := v.structValidator.Struct(question); err != nil {
		return structureError("question_type",
			fmt.Sprintf("Block \"%s\" has an unsupported type \"%s\".", question.Label, question.Type), question.Type)
	}
	if question.Type.HasOptions() && len(question.Options) == 0 {
		return structureError("question_options_required",
			fmt.Sprintf("Block \"%s\" needs at least one option.", question.Label), question.ID)
	}
	for _, option := range question.Options {
		if strings.TrimSpace(option.Label) == "" || strings.TrimSpace(option.Value) == "" {
			return structureError("option_fields_required",
				fmt.Sprintf("Option labels and values are required (block \"%s\").", question.Label), question.ID)
		}
	}
	return nil
}
