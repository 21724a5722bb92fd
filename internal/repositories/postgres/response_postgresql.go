package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

// CreateWithItems inserts a response and its items. Without a caller
// transaction it opens its own so a failed item batch leaves no response.
func (r *ResponsePostgreSQL) CreateWithItems(ctx context.Context, tx *gorm.DB, response *models.Response, items []models.ResponseItem) error {
	insert := func(db *gorm.DB) error {
		if err := db.Omit("Items").Create(response).Error; err != nil {
			return fmt.Errorf("failed to create response: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ResponseID = response.ID
		}
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create response items: %w", err)
		}
		return nil
	}

	if tx != nil {
		return insert(tx.WithContext(ctx))
	}
	return r.db.WithContext(ctx).Transaction(insert)
}

// GetByIDWithItems retrieves a response with items ordered for display
func (r *ResponsePostgreSQL) GetByIDWithItems(ctx context.Context, tx *gorm.DB, id string) (*models.Response, error) {
	var response models.Response
	err := r.getDB(tx).WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("repeat_index ASC")
		}).
		Preload("Items.Question").
		Where("id = ?", id).
		First(&response).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves responses newest first
func (r *ResponsePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ResponseFilters) ([]*models.Response, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Response{})

	if filters.SurveyIDs != nil {
		if len(filters.SurveyIDs) == 0 {
			return []*models.Response{}, nil
		}
		query = query.Where("survey_id IN ?", filters.SurveyIDs)
	}
	if filters.CohortID != nil {
		query = query.Where("cohort_id = ?", *filters.CohortID)
	}
	switch filters.Status {
	case "submitted":
		query = query.Where("submitted_at IS NOT NULL")
	case "draft":
		query = query.Where("submitted_at IS NULL")
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var responses []*models.Response
	if err := query.Order("submitted_at DESC").Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, nil
}

// ListItems retrieves the items of several responses with their questions
func (r *ResponsePostgreSQL) ListItems(ctx context.Context, tx *gorm.DB, responseIDs []string) ([]*models.ResponseItem, error) {
	if len(responseIDs) == 0 {
		return []*models.ResponseItem{}, nil
	}
	var items []*models.ResponseItem
	err := r.getDB(tx).WithContext(ctx).
		Preload("Question").
		Where("response_id IN ?", responseIDs).
		Order("response_id, repeat_index ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list response items: %w", err)
	}
	return items, nil
}

func (r *ResponsePostgreSQL) ListAuditLog(ctx context.Context, tx *gorm.DB, responseID string) ([]*models.ResponseAuditLog, error) {
	var entries []*models.ResponseAuditLog
	err := r.getDB(tx).WithContext(ctx).
		Where("response_id = ?", responseID).
		Order("edited_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	return entries, nil
}

func (r *ResponsePostgreSQL) CountBySurvey(ctx context.Context, tx *gorm.DB, surveyID string) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

// GetStats returns the response count and latest submission of a survey
func (r *ResponsePostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, surveyID string) (*repositories.SurveyResponseStats, error) {
	stats := &repositories.SurveyResponseStats{SurveyID: surveyID}
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Response{}).
		Select("COUNT(*) AS total_responses, MAX(submitted_at) AS last_submission").
		Where("survey_id = ?", surveyID).
		Scan(stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get response stats: %w", err)
	}
	stats.SurveyID = surveyID
	return stats, nil
}

func (r *ResponsePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	return resolveDB(r.db, tx)
}
