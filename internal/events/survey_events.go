package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of survey domain events
type EventType string

const (
	// Response events
	EventResponseSubmitted EventType = "response.submitted"

	// Survey events
	EventSurveyCreated        EventType = "survey.created"
	EventSurveyStructureSaved EventType = "survey.structure_saved"

	// Link events
	EventSurveyLinkCreated EventType = "survey_link.created"
	EventSurveyLinkUpdated EventType = "survey_link.updated"
)

const (
	EventSource  = "survey-service"
	EventVersion = "1.0"
)

// SurveyEvent is the envelope every published event uses
type SurveyEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewSurveyEvent wraps data in an envelope with a fresh id
func NewSurveyEvent(eventType EventType, data interface{}) *SurveyEvent {
	return &SurveyEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

// Event payloads

type ResponseSubmittedEvent struct {
	ResponseID   string    `json:"response_id"`
	SurveyID     string    `json:"survey_id"`
	CohortID     string    `json:"cohort_id"`
	SurveyLinkID string    `json:"survey_link_id"`
	PublicSlug   string    `json:"public_slug"`
	ItemCount    int       `json:"item_count"`
	SkippedCount int       `json:"skipped_count"`
	ContactGiven bool      `json:"contact_given"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type SurveyCreatedEvent struct {
	SurveyID       string  `json:"survey_id"`
	StudyID        string  `json:"study_id"`
	Name           string  `json:"name"`
	IsTemplate     bool    `json:"is_template"`
	SourceSurveyID *string `json:"source_survey_id,omitempty"`
}

type SurveyStructureSavedEvent struct {
	SurveyID      string    `json:"survey_id"`
	SectionCount  int       `json:"section_count"`
	QuestionCount int       `json:"question_count"`
	SavedAt       time.Time `json:"saved_at"`
}

type SurveyLinkEvent struct {
	LinkID     string     `json:"link_id"`
	SurveyID   string     `json:"survey_id"`
	CohortID   string     `json:"cohort_id"`
	PublicSlug string     `json:"public_slug"`
	Status     string     `json:"status"`
	OpensAt    *time.Time `json:"opens_at,omitempty"`
	ClosesAt   *time.Time `json:"closes_at,omitempty"`
}
