package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type studyService struct {
	repo      repositories.Repository
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewStudyService(repo repositories.Repository, logger *zap.Logger, validator *validator.Validator) StudyService {
	return &studyService{
		repo:      repo,
		logger:    NewServiceLogger(logger, LogConfig{Service: "survey-service", Component: "studies"}),
		validator: validator,
	}
}

func (s *studyService) ListStudies(ctx context.Context) ([]*models.Study, error) {
	studies, err := s.repo.Study().List(ctx, nil)
	if err != nil {
		return nil, NewPersistenceError("list studies", err)
	}
	return studies, nil
}

func (s *studyService) ListCohorts(ctx context.Context, studyID *string) ([]*models.Cohort, error) {
	cohorts, err := s.repo.Cohort().List(ctx, nil, repositories.CohortFilters{StudyID: nonEmpty(studyID)})
	if err != nil {
		return nil, NewPersistenceError("list cohorts", err)
	}
	return cohorts, nil
}

// GetCohort returns a cohort with its study, the study's surveys oldest
// first and the cohort's survey links.
func (s *studyService) GetCohort(ctx context.Context, id string) (*CohortDetailResponse, error) {
	cohort, err := s.repo.Cohort().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCohortNotFound
		}
		return nil, NewPersistenceError("get cohort", err)
	}

	surveys, _, err := s.repo.Survey().List(ctx, nil, repositories.SurveyFilters{
		StudyID:   &cohort.StudyID,
		SortOrder: "asc",
	})
	if err != nil {
		return nil, NewPersistenceError("list study surveys", err)
	}

	links, err := s.repo.SurveyLink().ListByCohort(ctx, nil, cohort.ID)
	if err != nil {
		return nil, NewPersistenceError("list cohort links", err)
	}

	return &CohortDetailResponse{
		Cohort:  cohort,
		Study:   cohort.Study,
		Surveys: surveys,
		Links:   links,
	}, nil
}

func (s *studyService) CreateCohort(ctx context.Context, req *CreateCohortRequest) (result *models.Cohort, err error) {
	op := s.logger.WithOperation(ctx, "create_cohort")
	defer func() {
		id := ""
		if result != nil {
			id = result.ID
		}
		op.LogResult(id, "cohort", err)
	}()

	req.StudyID = strings.TrimSpace(req.StudyID)
	req.Name = strings.TrimSpace(req.Name)
	if req.StudyID == "" || req.Name == "" {
		return nil, NewValidationError("study_id", "study_id and name are required", nil)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Study().GetByID(ctx, nil, req.StudyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, NewPersistenceError("get study", err)
	}

	cohort := &models.Cohort{
		StudyID:  req.StudyID,
		Name:     req.Name,
		Status:   string(models.SurveyDraft),
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Notes:    nonEmpty(req.Notes),
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		cohort.Status = strings.TrimSpace(*req.Status)
	}

	if err := s.repo.Cohort().Create(ctx, nil, cohort); err != nil {
		return nil, NewPersistenceError("create cohort", err)
	}
	return cohort, nil
}
