package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateSlug is returned when a survey link's public slug is taken.
var ErrDuplicateSlug = errors.New("public slug already exists")

// Repository groups every store the service talks to.
type Repository interface {
	Study() StudyRepository
	Cohort() CohortRepository
	Survey() SurveyRepository
	Structure() StructureRepository
	SurveyLink() SurveyLinkRepository
	Response() ResponseRepository

	// WithTransaction runs fn inside one database transaction. Repository
	// calls made with the tx argument join it.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
}

// ===== SHARED FILTER STRUCTS =====

type SurveyFilters struct {
	StudyID    *string              `json:"study_id"`
	IsTemplate *bool                `json:"is_template"`
	Status     *models.SurveyStatus `json:"status"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
	SortOrder  string               `json:"sort_order"` // "asc", "desc" on created_at
}

type CohortFilters struct {
	StudyID *string `json:"study_id"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// ResponseFilters narrows response listings. A nil SurveyIDs slice means no
// survey restriction; an empty non-nil slice matches nothing.
type ResponseFilters struct {
	SurveyIDs []string   `json:"survey_ids"`
	CohortID  *string    `json:"cohort_id"`
	Status    string     `json:"status"` // "submitted", "draft" or empty
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
}

// ===== SHARED STATISTICS STRUCTS =====

type SurveyResponseStats struct {
	SurveyID       string     `json:"survey_id"`
	TotalResponses int64      `json:"total_responses"`
	LastSubmission *time.Time `json:"last_submission"`
}
