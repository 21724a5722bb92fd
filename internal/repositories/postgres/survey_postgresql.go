package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type SurveyPostgreSQL struct {
	db *gorm.DB
}

func NewSurveyPostgreSQL(db *gorm.DB) repositories.SurveyRepository {
	return &SurveyPostgreSQL{db: db}
}

func (s *SurveyPostgreSQL) Create(ctx context.Context, tx *gorm.DB, survey *models.Survey) error {
	if err := s.getDB(tx).WithContext(ctx).Create(survey).Error; err != nil {
		return fmt.Errorf("failed to create survey: %w", err)
	}
	return nil
}

// GetByID retrieves a survey with its study
func (s *SurveyPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Survey, error) {
	var survey models.Survey
	err := s.getDB(tx).WithContext(ctx).
		Preload("Study").
		Where("id = ?", id).
		First(&survey).Error
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// Update writes only the given columns and returns gorm.ErrRecordNotFound
// when no survey matched.
func (s *SurveyPostgreSQL) Update(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := s.getDB(tx).WithContext(ctx).
		Model(&models.Survey{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update survey: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves surveys with filters and pagination
func (s *SurveyPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	query := s.getDB(tx).WithContext(ctx).Model(&models.Survey{})

	if filters.StudyID != nil {
		query = query.Where("study_id = ?", *filters.StudyID)
	}
	if filters.IsTemplate != nil {
		query = query.Where("is_template = ?", *filters.IsTemplate)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count surveys: %w", err)
	}

	order := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "ASC"
	}
	query = query.Order("created_at " + order)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var surveys []*models.Survey
	if err := query.Preload("Study").Find(&surveys).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list surveys: %w", err)
	}
	return surveys, total, nil
}

func (s *SurveyPostgreSQL) ListIDsByStudy(ctx context.Context, tx *gorm.DB, studyID string) ([]string, error) {
	var ids []string
	err := s.getDB(tx).WithContext(ctx).
		Model(&models.Survey{}).
		Where("study_id = ?", studyID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list survey ids: %w", err)
	}
	return ids, nil
}

func (s *SurveyPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return resolveDB(s.db, tx)
}
