package submission

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/flow"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var ErrNoSession = errors.New("no session to submit")

const (
	SkipUnknownQuestion = "unknown_question"
	SkipMalformedKey    = "malformed_key"
)

// SkippedAnswer records a session answer that produced no item.
type SkippedAnswer struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Result is a response record plus its items, ready to persist.
type Result struct {
	Response models.Response
	Items    []models.ResponseItem
	Skipped  []SkippedAnswer
}

type Encoder struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Encoder)

func WithClock(now func() time.Time) Option {
	return func(e *Encoder) {
		e.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Encoder) {
		e.newID = newID
	}
}

func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode converts a finished session into storage records. Contact fields
// are dropped when skipContact is set; blank fields become null. Info blocks
// produce no item and answers for unknown questions are reported in Skipped.
func (e *Encoder) Encode(bundle *models.PublicSurveyBundle, sess *session.Session, skipContact bool) (*Result, error) {
	if sess == nil {
		return nil, ErrNoSession
	}

	contact := sess.ContactInfo
	if skipContact {
		contact = session.ContactInfo{}
	}

	response := models.Response{
		ID:           e.newID(),
		SurveyID:     bundle.Survey.ID,
		CohortID:     bundle.Cohort.ID,
		SurveyLinkID: bundle.Link.ID,
		AnonToken:    e.newID(),
		SubmittedAt:  e.now().UTC(),
		ContactName:  nullable(contact.ContactName),
		ContactEmail: nullable(contact.ContactEmail),
		ContactPhone: nullable(contact.ContactPhone),
		BusinessName: nullable(contact.BusinessName),
	}

	index := flow.IndexQuestions(&bundle.SurveyDefinition)
	result := &Result{Response: response, Items: []models.ResponseItem{}}

	type positioned struct {
		pos  int
		item models.ResponseItem
	}
	var items []positioned

	for key, answer := range sess.Answers {
		questionID, repeatIndex, err := session.ParseAnswerKey(key)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedAnswer{Key: key, Reason: SkipMalformedKey})
			continue
		}
		ref, ok := index[questionID]
		if !ok {
			result.Skipped = append(result.Skipped, SkippedAnswer{Key: key, Reason: SkipUnknownQuestion})
			continue
		}
		item, ok, err := EncodeItem(ref.Question, answer)
		if err != nil {
			return nil, fmt.Errorf("failed to encode answer %s: %w", key, err)
		}
		if !ok {
			continue
		}
		item.ResponseID = response.ID
		item.QuestionID = questionID
		item.RepeatIndex = repeatIndex
		items = append(items, positioned{pos: ref.Position, item: item})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].pos != items[j].pos {
			return items[i].pos < items[j].pos
		}
		return items[i].item.RepeatIndex < items[j].item.RepeatIndex
	})
	for _, p := range items {
		result.Items = append(result.Items, p.item)
	}
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Key < result.Skipped[j].Key
	})
	return result, nil
}

type multiselectValue struct {
	Values []string `json:"values"`
	Other  *string  `json:"other"`
}

type selectOtherValue struct {
	Value session.Value `json:"value"`
	Other string        `json:"other"`
}

// EncodeItem picks the value column for one answer. It reports false for
// info blocks, which are never stored.
//
// A select answer with an "other" detail is stored as JSON while a plain
// select answer is stored as text; readers rely on that split.
func EncodeItem(question *models.QuestionDef, answer session.AnswerValue) (models.ResponseItem, bool, error) {
	switch question.Type {
	case models.QuestionInfo:
		return models.ResponseItem{}, false, nil

	case models.QuestionMultiselect:
		values := []string{answer.Value.String()}
		if answer.Value.IsList() {
			values = answer.Value.Strings()
		}
		raw, err := json.Marshal(multiselectValue{Values: values, Other: answer.Other})
		if err != nil {
			return models.ResponseItem{}, false, err
		}
		return models.ResponseItem{ValueJSON: datatypes.JSON(raw)}, true, nil

	case models.QuestionSelect:
		if answer.OtherText() != "" {
			raw, err := json.Marshal(selectOtherValue{Value: answer.Value, Other: answer.OtherText()})
			if err != nil {
				return models.ResponseItem{}, false, err
			}
			return models.ResponseItem{ValueJSON: datatypes.JSON(raw)}, true, nil
		}
		return textItem(answer), true, nil

	case models.QuestionNumber:
		if n, ok := ParseNumber(answer.Value.String()); ok {
			return models.ResponseItem{ValueNumber: &n}, true, nil
		}
		return textItem(answer), true, nil

	case models.QuestionText, models.QuestionLongtext:
		return textItem(answer), true, nil
	}
	return textItem(answer), true, nil
}

func textItem(answer session.AnswerValue) models.ResponseItem {
	s := answer.Value.String()
	return models.ResponseItem{ValueText: &s}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseNumber reads the longest numeric prefix of s after leading whitespace,
// the way lenient form inputs do, and reports whether it is finite.
func ParseNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimLeft(s, " \t\n\r\v\f\u00a0\ufeff"))
	if m == "" || strings.HasSuffix(m, "Infinity") {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
