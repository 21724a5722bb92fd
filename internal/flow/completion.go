package flow

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
)

const otherOptionValue = "other"

func hasAnswerValue(answer session.AnswerValue, allowOtherDetail bool) bool {
	if answer.Value.IsEmpty() {
		return false
	}
	if allowOtherDetail && answer.Value.Includes(otherOptionValue) {
		return strings.TrimSpace(answer.OtherText()) != ""
	}
	return true
}

// IsQuestionComplete reports whether question has a usable answer in item r.
// Info blocks are always complete.
func IsQuestionComplete(sess *session.Session, question *models.QuestionDef, r int) bool {
	if question.Type == models.QuestionInfo {
		return true
	}
	if sess == nil {
		return false
	}
	answer, ok := sess.Answer(question.ID, r)
	if !ok {
		return false
	}
	return hasAnswerValue(answer, question.AllowOtherDetail())
}

// SectionRepeatCount is the number of items the participant is filling in.
func SectionRepeatCount(section *models.SectionDef, sess *session.Session) int {
	key := RepeatGroupKey(section)
	if key == "" {
		return 1
	}
	return sess.RepeatCount(key)
}

// IsSectionComplete reports whether every required question is complete in
// every item of the section.
func IsSectionComplete(section *models.SectionDef, sess *session.Session) bool {
	count := SectionRepeatCount(section, sess)
	for r := 0; r < count; r++ {
		for i := range section.Questions {
			q := &section.Questions[i]
			if q.Required && !IsQuestionComplete(sess, q, r) {
				return false
			}
		}
	}
	return true
}

func CompletedSectionIDs(def *models.SurveyDefinition, sess *session.Session) []string {
	ids := []string{}
	for _, section := range FlowSections(def) {
		if IsSectionComplete(section, sess) {
			ids = append(ids, section.ID)
		}
	}
	return ids
}

// AllSectionsComplete is true when every flow section is complete, and
// trivially true when there are none.
func AllSectionsComplete(def *models.SurveyDefinition, sess *session.Session) bool {
	for _, section := range FlowSections(def) {
		if !IsSectionComplete(section, sess) {
			return false
		}
	}
	return true
}

// MissingRequiredAnswers lists "<section title>: <question label>" once for
// every required question that is incomplete in at least one item.
func MissingRequiredAnswers(def *models.SurveyDefinition, sess *session.Session) []string {
	missing := []string{}
	for _, section := range FlowSections(def) {
		count := SectionRepeatCount(section, sess)
		for i := range section.Questions {
			q := &section.Questions[i]
			if !q.Required {
				continue
			}
			for r := 0; r < count; r++ {
				if !IsQuestionComplete(sess, q, r) {
					missing = append(missing, fmt.Sprintf("%s: %s", section.Title, q.Label))
					break
				}
			}
		}
	}
	return missing
}

// ItemQuestions returns the questions asked per item: those tagged with the
// section's repeat key, or every question when none are tagged.
func ItemQuestions(section *models.SectionDef) []*models.QuestionDef {
	key := RepeatGroupKey(section)
	var tagged, all []*models.QuestionDef
	for i := range section.Questions {
		q := &section.Questions[i]
		all = append(all, q)
		if key != "" && q.RepeatGroupKey != nil && *q.RepeatGroupKey == key {
			tagged = append(tagged, q)
		}
	}
	if len(tagged) > 0 {
		return tagged
	}
	return all
}

// FirstItemQuestion is the first non-info item question, falling back to the
// first item question.
func FirstItemQuestion(section *models.SectionDef) *models.QuestionDef {
	questions := ItemQuestions(section)
	for _, q := range questions {
		if q.Type != models.QuestionInfo {
			return q
		}
	}
	if len(questions) > 0 {
		return questions[0]
	}
	return nil
}

func IsItemComplete(section *models.SectionDef, sess *session.Session, r int) bool {
	for _, q := range ItemQuestions(section) {
		if q.Required && !IsQuestionComplete(sess, q, r) {
			return false
		}
	}
	return true
}

// FirstIncompleteItem returns the lowest incomplete item index, or -1.
func FirstIncompleteItem(section *models.SectionDef, sess *session.Session) int {
	count := SectionRepeatCount(section, sess)
	for r := 0; r < count; r++ {
		if !IsItemComplete(section, sess, r) {
			return r
		}
	}
	return -1
}

// ItemSummary labels item r by its first answer.
func ItemSummary(section *models.SectionDef, sess *session.Session, r int) string {
	const unnamed = "Unnamed item"
	first := FirstItemQuestion(section)
	if first == nil {
		return unnamed
	}
	answer, ok := sess.Answer(first.ID, r)
	if !ok {
		return unnamed
	}
	if answer.Value.IsList() {
		return strings.Join(answer.Value.Strings(), ", ")
	}
	if strings.TrimSpace(answer.Value.String()) == "" {
		return unnamed
	}
	return answer.Value.String()
}

// ContactInfoSatisfied reports whether contact may be left as entered.
// Required mode needs a name and an email.
func ContactInfoSatisfied(meta models.SurveyMeta, contact session.ContactInfo) bool {
	if meta.ContactInfoMode == nil || *meta.ContactInfoMode != models.ContactInfoRequired {
		return true
	}
	return strings.TrimSpace(contact.ContactName) != "" && strings.TrimSpace(contact.ContactEmail) != ""
}

// ContactInfoSkippable reports whether the participant may skip contact entry.
func ContactInfoSkippable(meta models.SurveyMeta) bool {
	return meta.ContactInfoMode == nil || *meta.ContactInfoMode != models.ContactInfoRequired
}
