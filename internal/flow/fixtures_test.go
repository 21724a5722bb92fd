package flow

import (
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"gorm.io/datatypes"
)

func strPtr(s string) *string {
	return &s
}

// cafeDefinition has a single-item section, a purchases repeat section, a
// contact section and an empty section.
func cafeDefinition(placement models.ContactInfoPlacement) *models.SurveyDefinition {
	return &models.SurveyDefinition{
		Survey: models.SurveyMeta{
			ID:                   "survey-1",
			Name:                 "Cafe baseline",
			ContactInfoPlacement: placement,
		},
		Sections: []models.SectionDef{
			{
				ID:    "sec-business",
				Title: "Business details",
				Questions: []models.QuestionDef{
					{ID: "q-welcome", Type: models.QuestionInfo, Label: "Welcome"},
					{ID: "q-name", Type: models.QuestionText, Label: "Business name", Required: true},
					{
						ID: "q-kind", Type: models.QuestionSelect, Label: "Kind", Required: true,
						ConfigJSON: datatypes.JSONMap{"allow_other_detail": true},
						Options: []models.OptionDef{
							{Value: "cafe", Label: "Cafe"},
							{Value: "other", Label: "Other"},
						},
					},
				},
			},
			{
				ID:    "sec-purchases",
				Title: "Purchases",
				RepeatGroups: []models.RepeatGroupDef{
					{ID: "grp-purchases", Name: "Purchases", RepeatGroupKey: "purchases", MinItems: 1},
				},
				Questions: []models.QuestionDef{
					{ID: "q-item", Type: models.QuestionText, Label: "Item", Required: true, RepeatGroupKey: strPtr("purchases"), GroupID: strPtr("grp-purchases")},
					{ID: "q-qty", Type: models.QuestionNumber, Label: "Quantity", Required: true, RepeatGroupKey: strPtr("purchases"), GroupID: strPtr("grp-purchases")},
				},
			},
			{
				ID:    "sec-contact",
				Title: "Contact Info",
				Questions: []models.QuestionDef{
					{ID: "q-phone", Type: models.QuestionText, Label: "Phone"},
				},
			},
			{
				ID:    "sec-empty",
				Title: "Notes",
			},
		},
	}
}

func answered(pairs map[string]session.AnswerValue) *session.Session {
	sess := &session.Session{
		Answers:      map[string]session.AnswerValue{},
		RepeatCounts: map[string]int{},
	}
	for k, v := range pairs {
		sess.Answers[k] = v
	}
	return sess
}

func text(s string) session.AnswerValue {
	return session.AnswerValue{Value: session.Text(s)}
}
