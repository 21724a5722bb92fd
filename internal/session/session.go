package session

import (
	"time"
)

type ContactInfo struct {
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	BusinessName string `json:"business_name"`
}

// ContactInfoUpdate is a partial contact update; nil fields are left as is.
type ContactInfoUpdate struct {
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
}

func (c ContactInfo) apply(u ContactInfoUpdate) ContactInfo {
	if u.ContactName != nil {
		c.ContactName = *u.ContactName
	}
	if u.ContactEmail != nil {
		c.ContactEmail = *u.ContactEmail
	}
	if u.ContactPhone != nil {
		c.ContactPhone = *u.ContactPhone
	}
	if u.BusinessName != nil {
		c.BusinessName = *u.BusinessName
	}
	return c
}

// Session is a participant's in-progress state for one survey slug.
type Session struct {
	StartedAt    time.Time              `json:"started_at"`
	ContactInfo  ContactInfo            `json:"contact_info"`
	Answers      map[string]AnswerValue `json:"answers"`
	RepeatCounts map[string]int         `json:"repeat_counts"`
}

func New(now time.Time) *Session {
	return &Session{
		StartedAt:    now.UTC(),
		Answers:      map[string]AnswerValue{},
		RepeatCounts: map[string]int{},
	}
}

// Answer returns the stored answer for questionID at repeatIndex.
// A nil session has no answers.
func (s *Session) Answer(questionID string, repeatIndex int) (AnswerValue, bool) {
	if s == nil {
		return AnswerValue{}, false
	}
	a, ok := s.Answers[AnswerKey(questionID, repeatIndex)]
	return a, ok
}

// RepeatCount returns the number of items for a repeat group, never below 1.
func (s *Session) RepeatCount(groupKey string) int {
	if s == nil {
		return 1
	}
	if n, ok := s.RepeatCounts[groupKey]; ok && n >= 1 {
		return n
	}
	return 1
}

func (s *Session) normalize() {
	if s.Answers == nil {
		s.Answers = map[string]AnswerValue{}
	}
	if s.RepeatCounts == nil {
		s.RepeatCounts = map[string]int{}
	}
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = make(map[string]AnswerValue, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	c.RepeatCounts = make(map[string]int, len(s.RepeatCounts))
	for k, v := range s.RepeatCounts {
		c.RepeatCounts[k] = v
	}
	return &c
}
