package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockRepository bundles one mock per store. WithTransaction runs fn with a
// nil tx so calls inside the transaction hit the same mocks.
type MockRepository struct {
	study     *MockStudyRepository
	cohort    *MockCohortRepository
	survey    *MockSurveyRepository
	structure *MockStructureRepository
	link      *MockSurveyLinkRepository
	response  *MockResponseRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		study:     &MockStudyRepository{},
		cohort:    &MockCohortRepository{},
		survey:    &MockSurveyRepository{},
		structure: &MockStructureRepository{},
		link:      &MockSurveyLinkRepository{},
		response:  &MockResponseRepository{},
	}
}

func (m *MockRepository) Study() repositories.StudyRepository           { return m.study }
func (m *MockRepository) Cohort() repositories.CohortRepository         { return m.cohort }
func (m *MockRepository) Survey() repositories.SurveyRepository         { return m.survey }
func (m *MockRepository) Structure() repositories.StructureRepository   { return m.structure }
func (m *MockRepository) SurveyLink() repositories.SurveyLinkRepository { return m.link }
func (m *MockRepository) Response() repositories.ResponseRepository     { return m.response }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	return nil
}

// MockStudyRepository is a mock implementation of StudyRepository
type MockStudyRepository struct {
	mock.Mock
}

func (m *MockStudyRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Study, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).([]*models.Study), args.Error(1)
}

func (m *MockStudyRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Study, error) {
	args := m.Called(ctx, tx, id)
	if study, ok := args.Get(0).(*models.Study); ok {
		return study, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStudyRepository) Create(ctx context.Context, tx *gorm.DB, study *models.Study) error {
	args := m.Called(ctx, tx, study)
	return args.Error(0)
}

// MockCohortRepository is a mock implementation of CohortRepository
type MockCohortRepository struct {
	mock.Mock
}

func (m *MockCohortRepository) Create(ctx context.Context, tx *gorm.DB, cohort *models.Cohort) error {
	args := m.Called(ctx, tx, cohort)
	return args.Error(0)
}

func (m *MockCohortRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Cohort, error) {
	args := m.Called(ctx, tx, id)
	if cohort, ok := args.Get(0).(*models.Cohort); ok {
		return cohort, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCohortRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.CohortFilters) ([]*models.Cohort, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.Cohort), args.Error(1)
}

// MockSurveyRepository is a mock implementation of SurveyRepository
type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) Create(ctx context.Context, tx *gorm.DB, survey *models.Survey) error {
	args := m.Called(ctx, tx, survey)
	return args.Error(0)
}

func (m *MockSurveyRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Survey, error) {
	args := m.Called(ctx, tx, id)
	if survey, ok := args.Get(0).(*models.Survey); ok {
		return survey, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSurveyRepository) Update(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, tx, id, fields)
	return args.Error(0)
}

func (m *MockSurveyRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.Survey), args.Get(1).(int64), args.Error(2)
}

func (m *MockSurveyRepository) ListIDsByStudy(ctx context.Context, tx *gorm.DB, studyID string) ([]string, error) {
	args := m.Called(ctx, tx, studyID)
	return args.Get(0).([]string), args.Error(1)
}

// MockStructureRepository is a mock implementation of StructureRepository
type MockStructureRepository struct {
	mock.Mock
}

func (m *MockStructureRepository) LoadSections(ctx context.Context, tx *gorm.DB, surveyID string) ([]models.Section, error) {
	args := m.Called(ctx, tx, surveyID)
	return args.Get(0).([]models.Section), args.Error(1)
}

func (m *MockStructureRepository) ReplaceStructure(ctx context.Context, tx *gorm.DB, surveyID string, sections []models.SectionDef) error {
	args := m.Called(ctx, tx, surveyID, sections)
	return args.Error(0)
}

// MockSurveyLinkRepository is a mock implementation of SurveyLinkRepository
type MockSurveyLinkRepository struct {
	mock.Mock
}

func (m *MockSurveyLinkRepository) Create(ctx context.Context, tx *gorm.DB, link *models.SurveyLink) error {
	args := m.Called(ctx, tx, link)
	return args.Error(0)
}

func (m *MockSurveyLinkRepository) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.SurveyLink, error) {
	args := m.Called(ctx, tx, slug)
	if link, ok := args.Get(0).(*models.SurveyLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSurveyLinkRepository) GetBySurveyAndCohort(ctx context.Context, tx *gorm.DB, surveyID, cohortID string) (*models.SurveyLink, error) {
	args := m.Called(ctx, tx, surveyID, cohortID)
	if link, ok := args.Get(0).(*models.SurveyLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSurveyLinkRepository) ListByCohort(ctx context.Context, tx *gorm.DB, cohortID string) ([]*models.SurveyLink, error) {
	args := m.Called(ctx, tx, cohortID)
	return args.Get(0).([]*models.SurveyLink), args.Error(1)
}

func (m *MockSurveyLinkRepository) Update(ctx context.Context, tx *gorm.DB, link *models.SurveyLink) error {
	args := m.Called(ctx, tx, link)
	return args.Error(0)
}

// MockResponseRepository is a mock implementation of ResponseRepository
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) CreateWithItems(ctx context.Context, tx *gorm.DB, response *models.Response, items []models.ResponseItem) error {
	args := m.Called(ctx, tx, response, items)
	return args.Error(0)
}

func (m *MockResponseRepository) GetByIDWithItems(ctx context.Context, tx *gorm.DB, id string) (*models.Response, error) {
	args := m.Called(ctx, tx, id)
	if response, ok := args.Get(0).(*models.Response); ok {
		return response, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ResponseFilters) ([]*models.Response, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.Response), args.Error(1)
}

func (m *MockResponseRepository) ListItems(ctx context.Context, tx *gorm.DB, responseIDs []string) ([]*models.ResponseItem, error) {
	args := m.Called(ctx, tx, responseIDs)
	return args.Get(0).([]*models.ResponseItem), args.Error(1)
}

func (m *MockResponseRepository) ListAuditLog(ctx context.Context, tx *gorm.DB, responseID string) ([]*models.ResponseAuditLog, error) {
	args := m.Called(ctx, tx, responseID)
	return args.Get(0).([]*models.ResponseAuditLog), args.Error(1)
}

func (m *MockResponseRepository) CountBySurvey(ctx context.Context, tx *gorm.DB, surveyID string) (int64, error) {
	args := m.Called(ctx, tx, surveyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResponseRepository) GetStats(ctx context.Context, tx *gorm.DB, surveyID string) (*repositories.SurveyResponseStats, error) {
	args := m.Called(ctx, tx, surveyID)
	if stats, ok := args.Get(0).(*repositories.SurveyResponseStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCache is a mock implementation of cache.CacheService
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
