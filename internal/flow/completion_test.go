package flow

import (
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestIsQuestionComplete_InfoAlwaysComplete(t *testing.T) {
	info := &models.QuestionDef{ID: "i", Type: models.QuestionInfo, Required: true}

	assert.True(t, IsQuestionComplete(nil, info, 0))
	assert.True(t, IsQuestionComplete(answered(nil), info, 5))
}

func TestIsQuestionComplete_TextValues(t *testing.T) {
	q := &models.QuestionDef{ID: "q", Type: models.QuestionText}

	assert.False(t, IsQuestionComplete(nil, q, 0))
	assert.False(t, IsQuestionComplete(answered(nil), q, 0))
	assert.False(t, IsQuestionComplete(answered(map[string]session.AnswerValue{"q:0": text("   ")}), q, 0))
	assert.True(t, IsQuestionComplete(answered(map[string]session.AnswerValue{"q:0": text("x")}), q, 0))
	assert.False(t, IsQuestionComplete(answered(map[string]session.AnswerValue{"q:0": text("x")}), q, 1))
}

func TestIsQuestionComplete_MultiselectOtherDetail(t *testing.T) {
	q := &models.QuestionDef{
		ID:         "m",
		Type:       models.QuestionMultiselect,
		ConfigJSON: datatypes.JSONMap{"allow_other_detail": true},
	}
	withOther := func(other *string) *session.Session {
		return answered(map[string]session.AnswerValue{
			"m:0": {Value: session.List("a", "other"), Other: other},
		})
	}

	assert.False(t, IsQuestionComplete(withOther(nil), q, 0))
	assert.False(t, IsQuestionComplete(withOther(strPtr("")), q, 0))
	assert.False(t, IsQuestionComplete(withOther(strPtr("  ")), q, 0))
	assert.True(t, IsQuestionComplete(withOther(strPtr("x")), q, 0))

	empty := answered(map[string]session.AnswerValue{"m:0": {Value: session.List()}})
	assert.False(t, IsQuestionComplete(empty, q, 0))

	q.ConfigJSON = nil
	assert.True(t, IsQuestionComplete(withOther(nil), q, 0), "detail only matters when the question asks for it")
}

func TestIsSectionComplete_ChecksEveryItem(t *testing.T) {
	def := cafeDefinition(models.ContactAtEnd)
	section := SectionByID(def, "sec-purchases")

	sess := answered(map[string]session.AnswerValue{
		"q-item:0": text("Milk"),
		"q-qty:0":  text("3"),
	})
	assert.True(t, IsSectionComplete(section, sess))

	sess.RepeatCounts["purchases"] = 2
	assert.False(t, IsSectionComplete(section, sess))

	sess.Answers["q-item:1"] = text("Cups")
	sess.Answers["q-qty:1"] = text("100")
	assert.True(t, IsSectionComplete(section, sess))
}

func TestIsSectionComplete_NoRequiredQuestions(t *testing.T) {
	section := &models.SectionDef{Questions: []models.QuestionDef{{ID: "q", Type: models.QuestionText}}}
	assert.True(t, IsSectionComplete(section, nil))
}

func TestMissingRequiredAnswers(t *testing.T) {
	def := cafeDefinition(models.ContactAtEnd)
	sess := answered(map[string]session.AnswerValue{
		"q-name:0": text("Bean There"),
		"q-kind:0": {Value: session.Text("other")},
		"q-item:0": text("Milk"),
		"q-qty:0":  text("3"),
	})
	sess.RepeatCounts["purchases"] = 3

	missing := MissingRequiredAnswers(def, sess)

	assert.Equal(t, []string{
		"Business details: Kind",
		"Purchases: Item",
		"Purchases: Quantity",
	}, missing)
}

func TestAllSectionsComplete(t *testing.T) {
	empty := &models.SurveyDefinition{}
	assert.True(t, AllSectionsComplete(empty, nil), "no flow sections means nothing is missing")

	def := cafeDefinition(models.ContactAtEnd)
	assert.False(t, AllSectionsComplete(def, answered(nil)))

	sess := answered(map[string]session.AnswerValue{
		"q-name:0": text("Bean There"),
		"q-kind:0": text("cafe"),
		"q-item:0": text("Milk"),
		"q-qty:0":  text("3"),
	})
	assert.True(t, AllSectionsComplete(def, sess))
	assert.Equal(t, []string{"sec-business", "sec-purchases"}, CompletedSectionIDs(def, sess))

	steps := Steps(def, sess)
	assert.Len(t, steps, 3)
	assert.Equal(t, ReviewStepID, steps[2].ID)
	assert.True(t, steps[2].Completed)
}

func TestItemSummary(t *testing.T) {
	def := cafeDefinition(models.ContactAtEnd)
	section := SectionByID(def, "sec-purchases")
	sess := answered(map[string]session.AnswerValue{"q-item:0": text("Oat milk")})

	assert.Equal(t, "Oat milk", ItemSummary(section, sess, 0))
	assert.Equal(t, "Unnamed item", ItemSummary(section, sess, 1))
}

func TestContactInfoSatisfied(t *testing.T) {
	required := models.ContactInfoRequired
	meta := models.SurveyMeta{ContactInfoMode: &required}

	assert.False(t, ContactInfoSatisfied(meta, session.ContactInfo{ContactName: "Dana"}))
	assert.True(t, ContactInfoSatisfied(meta, session.ContactInfo{ContactName: "Dana", ContactEmail: "d@example.com"}))
	assert.True(t, ContactInfoSatisfied(models.SurveyMeta{}, session.ContactInfo{}))
	assert.False(t, ContactInfoSkippable(meta))
}
