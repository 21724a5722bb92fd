package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type SurveyLinkPostgreSQL struct {
	db *gorm.DB
}

func NewSurveyLinkPostgreSQL(db *gorm.DB) repositories.SurveyLinkRepository {
	return &SurveyLinkPostgreSQL{db: db}
}

// Create inserts a link. The database must be opened with TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
func (l *SurveyLinkPostgreSQL) Create(ctx context.Context, tx *gorm.DB, link *models.SurveyLink) error {
	if err := l.getDB(tx).WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create survey link: %w", err)
	}
	return nil
}

// GetBySlug retrieves a link with the survey, cohort and study it serves
func (l *SurveyLinkPostgreSQL) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.SurveyLink, error) {
	var link models.SurveyLink
	err := l.getDB(tx).WithContext(ctx).
		Preload("Survey").
		Preload("Cohort").
		Preload("Cohort.Study").
		Where("public_slug = ?", slug).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (l *SurveyLinkPostgreSQL) GetBySurveyAndCohort(ctx context.Context, tx *gorm.DB, surveyID, cohortID string) (*models.SurveyLink, error) {
	var link models.SurveyLink
	err := l.getDB(tx).WithContext(ctx).
		Where("survey_id = ? AND cohort_id = ?", surveyID, cohortID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (l *SurveyLinkPostgreSQL) ListByCohort(ctx context.Context, tx *gorm.DB, cohortID string) ([]*models.SurveyLink, error) {
	var links []*models.SurveyLink
	err := l.getDB(tx).WithContext(ctx).
		Where("cohort_id = ?", cohortID).
		Order("created_at ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list survey links: %w", err)
	}
	return links, nil
}

// Update saves slug, status and window of an existing link
func (l *SurveyLinkPostgreSQL) Update(ctx context.Context, tx *gorm.DB, link *models.SurveyLink) error {
	err := l.getDB(tx).WithContext(ctx).
		Model(link).
		Select("public_slug", "status", "opens_at", "closes_at").
		Updates(link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to update survey link: %w", err)
	}
	return nil
}

func (l *SurveyLinkPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return resolveDB(l.db, tx)
}
