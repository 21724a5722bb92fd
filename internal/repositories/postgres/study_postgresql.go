package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type StudyPostgreSQL struct {
	db *gorm.DB
}

func NewStudyPostgreSQL(db *gorm.DB) repositories.StudyRepository {
	return &StudyPostgreSQL{db: db}
}

// List returns every study, oldest first
func (s *StudyPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Study, error) {
	var studies []*models.Study
	err := s.getDB(tx).WithContext(ctx).
		Order("created_at ASC").
		Find(&studies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list studies: %w", err)
	}
	return studies, nil
}

func (s *StudyPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Study, error) {
	var study models.Study
	if err := s.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&study).Error; err != nil {
		return nil, err
	}
	return &study, nil
}

func (s *StudyPostgreSQL) Create(ctx context.Context, tx *gorm.DB, study *models.Study) error {
	if err := s.getDB(tx).WithContext(ctx).Create(study).Error; err != nil {
		return fmt.Errorf("failed to create study: %w", err)
	}
	return nil
}

func (s *StudyPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return resolveDB(s.db, tx)
}

type CohortPostgreSQL struct {
	db *gorm.DB
}

func NewCohortPostgreSQL(db *gorm.DB) repositories.CohortRepository {
	return &CohortPostgreSQL{db: db}
}

func (c *CohortPostgreSQL) Create(ctx context.Context, tx *gorm.DB, cohort *models.Cohort) error {
	if err := c.getDB(tx).WithContext(ctx).Create(cohort).Error; err != nil {
		return fmt.Errorf("failed to create cohort: %w", err)
	}
	return nil
}

// GetByID retrieves a cohort with its study
func (c *CohortPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Cohort, error) {
	var cohort models.Cohort
	err := c.getDB(tx).WithContext(ctx).
		Preload("Study").
		Where("id = ?", id).
		First(&cohort).Error
	if err != nil {
		return nil, err
	}
	return &cohort, nil
}

// List retrieves cohorts newest first, optionally for one study
func (c *CohortPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CohortFilters) ([]*models.Cohort, error) {
	query := c.getDB(tx).WithContext(ctx).Model(&models.Cohort{})
	if filters.StudyID != nil {
		query = query.Where("study_id = ?", *filters.StudyID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var cohorts []*models.Cohort
	if err := query.Preload("Study").Order("created_at DESC").Find(&cohorts).Error; err != nil {
		return nil, fmt.Errorf("failed to list cohorts: %w", err)
	}
	return cohorts, nil
}

func (c *CohortPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return resolveDB(c.db, tx)
}
