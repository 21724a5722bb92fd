package repositories

import (
	"context"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"gorm.io/gorm"
)

type StudyRepository interface {
	List(ctx context.Context, tx *gorm.DB) ([]*models.Study, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Study, error)
	Create(ctx context.Context, tx *gorm.DB, study *models.Study) error
}

type CohortRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cohort *models.Cohort) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Cohort, error) // Includes study
	List(ctx context.Context, tx *gorm.DB, filters CohortFilters) ([]*models.Cohort, error)
}

// SurveyRepository handles survey metadata rows. Structure rows live in
// StructureRepository.
type SurveyRepository interface {
	Create(ctx context.Context, tx *gorm.DB, survey *models.Survey) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Survey, error)
	Update(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error
	List(ctx context.Context, tx *gorm.DB, filters SurveyFilters) ([]*models.Survey, int64, error)
	ListIDsByStudy(ctx context.Context, tx *gorm.DB, studyID string) ([]string, error)
}

// StructureRepository reads and rewrites the sections of one survey.
type StructureRepository interface {
	// LoadSections returns sections with repeat groups, questions and options
	// preloaded. Ordering is left to the caller.
	LoadSections(ctx context.Context, tx *gorm.DB, surveyID string) ([]models.Section, error)

	// ReplaceStructure deletes every section of the survey and inserts the
	// given ones. Callers run it inside a transaction.
	ReplaceStructure(ctx context.Context, tx *gorm.DB, surveyID string, sections []models.SectionDef) error
}
