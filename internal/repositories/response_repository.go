package repositories

import (
	"context"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"gorm.io/gorm"
)

type SurveyLinkRepository interface {
	// Create returns ErrDuplicateSlug when the public slug is already used.
	Create(ctx context.Context, tx *gorm.DB, link *models.SurveyLink) error
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.SurveyLink, error) // Includes survey, cohort and study
	GetBySurveyAndCohort(ctx context.Context, tx *gorm.DB, surveyID, cohortID string) (*models.SurveyLink, error)
	ListByCohort(ctx context.Context, tx *gorm.DB, cohortID string) ([]*models.SurveyLink, error)
	Update(ctx context.Context, tx *gorm.DB, link *models.SurveyLink) error
}

type ResponseRepository interface {
	// CreateWithItems inserts the response and all of its items. Either all
	// rows are written or none.
	CreateWithItems(ctx context.Context, tx *gorm.DB, response *models.Response, items []models.ResponseItem) error
	GetByIDWithItems(ctx context.Context, tx *gorm.DB, id string) (*models.Response, error)
	List(ctx context.Context, tx *gorm.DB, filters ResponseFilters) ([]*models.Response, error)
	ListItems(ctx context.Context, tx *gorm.DB, responseIDs []string) ([]*models.ResponseItem, error) // Includes question
	ListAuditLog(ctx context.Context, tx *gorm.DB, responseID string) ([]*models.ResponseAuditLog, error)
	CountBySurvey(ctx context.Context, tx *gorm.DB, surveyID string) (int64, error)
	GetStats(ctx context.Context, tx *gorm.DB, surveyID string) (*SurveyResponseStats, error)
}
