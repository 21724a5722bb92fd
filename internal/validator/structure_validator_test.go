package validator

import (
	"testing"

	apperrors "github.com/SAP-F-2025/survey-service/internal/errors"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSection() models.SectionDef {
	return models.SectionDef{
		ID:    "s1",
		Title: "Purchases",
		RepeatGroups: []models.RepeatGroupDef{
			{ID: "g1", Name: "Purchases", RepeatGroupKey: "purchases", MinItems: 1, MaxItems: 10},
		},
		Questions: []models.QuestionDef{
			{ID: "q1", Type: models.QuestionText, Label: "Item"},
			{ID: "q2", Type: models.QuestionSelect, Label: "Unit", Options: []models.OptionDef{{Value: "kg", Label: "Kilograms"}}},
		},
	}
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Message
}

func TestStructureValidator_AcceptsValidStructure(t *testing.T) {
	v := New().Structure()
	assert.NoError(t, v.ValidateSections([]models.SectionDef{validSection()}))
}

func TestStructureValidator_AcceptsEveryQuestionType(t *testing.T) {
	v := New().Structure()
	section := validSection()
	section.Questions = append(section.Questions,
		models.QuestionDef{ID: "q3", Type: models.QuestionLongtext, Label: "Notes"},
		models.QuestionDef{ID: "q4", Type: models.QuestionNumber, Label: "Quantity"},
		models.QuestionDef{ID: "q5", Type: models.QuestionInfo, Label: "Thanks for the detail"},
		models.QuestionDef{ID: "q6", Type: models.QuestionMultiselect, Label: "Bins", Options: []models.OptionDef{{Value: "compost", Label: "Compost"}}},
	)

	assert.NoError(t, v.ValidateSections([]models.SectionDef{section}))
}

func TestStructureValidator_RejectsUnknownQuestionType(t *testing.T) {
	v := New().Structure()
	section := validSection()
	section.Questions = append(section.Questions, models.QuestionDef{ID: "q3", Type: "textarea", Label: "Notes"})

	assert.Contains(t, messageOf(t, v.ValidateSections([]models.SectionDef{section})), `unsupported type "textarea"`)
}

func TestQuestionType_IsValid(t *testing.T) {
	for _, qt := range models.QuestionTypes {
		assert.True(t, qt.IsValid(), string(qt))
	}
	assert.True(t, models.QuestionType("longtext").IsValid())
	assert.False(t, models.QuestionType("textarea").IsValid())
	assert.False(t, models.QuestionType("").IsValid())
}

func TestStructureValidator_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *models.SectionDef)
		want   string
	}{
		{
			name:   "blank title",
			mutate: func(s *models.SectionDef) { s.Title = "  " },
			want:   "Every section needs a title.",
		},
		{
			name:   "no blocks",
			mutate: func(s *models.SectionDef) { s.Questions = nil },
			want:   `Section "Purchases" needs at least one block.`,
		},
		{
			name:   "group without name",
			mutate: func(s *models.SectionDef) { s.RepeatGroups[0].Name = "" },
			want:   `Repeat groups need a name (section "Purchases").`,
		},
		{
			name:   "group without key",
			mutate: func(s *models.SectionDef) { s.RepeatGroups[0].RepeatGroupKey = " " },
			want:   `Repeat groups need a key (section "Purchases").`,
		},
		{
			name: "duplicate key",
			mutate: func(s *models.SectionDef) {
				s.RepeatGroups = append(s.RepeatGroups, models.RepeatGroupDef{Name: "More", RepeatGroupKey: "purchases", MinItems: 1, MaxItems: 2})
			},
			want: `Repeat group key "purchases" is duplicated in "Purchases".`,
		},
		{
			name:   "zero bounds",
			mutate: func(s *models.SectionDef) { s.RepeatGroups[0].MinItems = 0 },
			want:   `Repeat group "Purchases" needs min/max of at least 1.`,
		},
		{
			name:   "max below min",
			mutate: func(s *models.SectionDef) { s.RepeatGroups[0].MinItems = 5; s.RepeatGroups[0].MaxItems = 2 },
			want:   `Repeat group "Purchases" has max less than min.`,
		},
		{
			name:   "blank label",
			mutate: func(s *models.SectionDef) { s.Questions[0].Label = "" },
			want:   `Every block needs a label (section "Purchases").`,
		},
		{
			name:   "select without options",
			mutate: func(s *models.SectionDef) { s.Questions[1].Options = nil },
			want:   `Block "Unit" needs at least one option.`,
		},
		{
			name:   "blank option",
			mutate: func(s *models.SectionDef) { s.Questions[1].Options[0].Value = " " },
			want:   `Option labels and values are required (block "Unit").`,
		},
		{
			name:   "unknown type",
			mutate: func(s *models.SectionDef) { s.Questions[0].Type = "date" },
			want:   `Block "Item" has an unsupported type "date".`,
		},
	}

	v := New().Structure()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			section := validSection()
			tc.mutate(&section)
			assert.Equal(t, tc.want, messageOf(t, v.ValidateSections([]models.SectionDef{section})))
		})
	}
}

func TestStructureValidator_RejectsEmptyStructure(t *testing.T) {
	err := New().Structure().ValidateSections(nil)
	assert.Equal(t, "Add at least one section before saving structure.", messageOf(t, err))
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidator_CustomTags(t *testing.T) {
	type request struct {
		Placement string `json:"contact_info_placement" validate:"contact_info_placement"`
		Slug      string `json:"public_slug" validate:"omitempty,slug"`
	}
	v := New()

	assert.NoError(t, v.Validate(request{Placement: "end", Slug: "cafe-spring-2025"}))

	err := v.Validate(request{Placement: "middle", Slug: "Bad Slug"})
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, "contact_info_placement", errs[0].Field)
	assert.Equal(t, "must be start or end", errs[0].Message)
	assert.Equal(t, "public_slug", errs[1].Field)
}
