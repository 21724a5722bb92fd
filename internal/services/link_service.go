package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slugAttempts = 3

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type linkService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	events    SurveyEventService
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewLinkService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	eventService SurveyEventService,
	logger *zap.Logger,
	validator *validator.Validator,
) LinkService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &linkService{
		repo:      repo,
		cache:     cacheService,
		events:    eventService,
		logger:    NewServiceLogger(logger, LogConfig{Service: "survey-service", Component: "links"}),
		validator: validator,
	}
}

func (s *linkService) Get(ctx context.Context, surveyID, cohortID string) (*LinkResponse, error) {
	resp, err := s.resolve(ctx, surveyID, cohortID)
	if err != nil {
		return nil, err
	}

	link, err := s.repo.SurveyLink().GetBySurveyAndCohort(ctx, nil, surveyID, cohortID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewPersistenceError("get survey link", err)
	}
	resp.Link = link
	return resp, nil
}

// Create returns the existing link for the survey and cohort, or creates one
// with a slug derived from the request or from the survey and cohort names.
func (s *linkService) Create(ctx context.Context, req *LinkRequest) (result *LinkResponse, err error) {
	op := s.logger.WithOperation(ctx, "create_link")
	defer func() {
		id := ""
		if result != nil && result.Link != nil {
			id = result.Link.ID
		}
		op.LogResult(id, "survey_link", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	resp, err := s.resolve(ctx, req.SurveyID, req.CohortID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.SurveyLink().GetBySurveyAndCohort(ctx, nil, req.SurveyID, req.CohortID)
	if err == nil {
		resp.Link = existing
		return resp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewPersistenceError("get survey link", err)
	}

	status := models.LinkClosed
	if req.Status != nil {
		status = models.LinkStatus(*req.Status)
	}
	baseSlug := BuildLinkSlug(resp.Survey.Name, resp.Cohort.Name, req.PublicSlug)

	var link *models.SurveyLink
	for attempt := 0; attempt < slugAttempts; attempt++ {
		slug := baseSlug
		if attempt > 0 {
			slug = baseSlug + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
		}
		candidate := &models.SurveyLink{
			SurveyID:   req.SurveyID,
			CohortID:   req.CohortID,
			PublicSlug: slug,
			Status:     status,
			OpensAt:    req.OpensAt,
			ClosesAt:   req.ClosesAt,
		}
		err := s.repo.SurveyLink().Create(ctx, nil, candidate)
		if err == nil {
			link = candidate
			break
		}
		if !errors.Is(err, repositories.ErrDuplicateSlug) {
			return nil, NewPersistenceError("create survey link", err)
		}
		s.logger.Logger().Info("Survey link slug taken, retrying",
			zap.String("slug", slug), zap.Int("attempt", attempt+1))
	}
	if link == nil {
		return nil, ErrSlugExhausted
	}

	s.notify(func() error { return s.events.NotifyLinkCreated(ctx, link) })
	resp.Link = link
	return resp, nil
}

// Update changes the slug, status and window of an existing link. A nil
// opens_at or closes_at clears that bound.
func (s *linkService) Update(ctx context.Context, req *LinkRequest) (result *LinkResponse, err error) {
	op := s.logger.WithOperation(ctx, "update_link")
	defer func() {
		id := ""
		if result != nil && result.Link != nil {
			id = result.Link.ID
		}
		op.LogResult(id, "survey_link", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	resp, err := s.resolve(ctx, req.SurveyID, req.CohortID)
	if err != nil {
		return nil, err
	}

	link, err := s.repo.SurveyLink().GetBySurveyAndCohort(ctx, nil, req.SurveyID, req.CohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, NewPersistenceError("get survey link", err)
	}
	previousSlug := link.PublicSlug

	if req.PublicSlug != nil && strings.TrimSpace(*req.PublicSlug) != "" {
		slug := Slugify(*req.PublicSlug)
		if slug == "" {
			return nil, NewValidationError("public_slug", "must contain letters or digits", *req.PublicSlug)
		}
		link.PublicSlug = slug
	}
	if req.Status != nil {
		link.Status = models.LinkStatus(*req.Status)
	}
	link.OpensAt = req.OpensAt
	link.ClosesAt = req.ClosesAt

	if err := s.repo.SurveyLink().Update(ctx, nil, link); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSlug) {
			return nil, NewValidationError("public_slug", "is already in use", link.PublicSlug)
		}
		return nil, NewPersistenceError("update survey link", err)
	}

	s.invalidateBundle(ctx, previousSlug)
	if link.PublicSlug != previousSlug {
		s.invalidateBundle(ctx, link.PublicSlug)
	}
	s.notify(func() error { return s.events.NotifyLinkUpdated(ctx, link) })

	resp.Link = link
	return resp, nil
}

// resolve loads the cohort, survey and study a link request refers to.
func (s *linkService) resolve(ctx context.Context, surveyID, cohortID string) (*LinkResponse, error) {
	surveyID, cohortID = strings.TrimSpace(surveyID), strings.TrimSpace(cohortID)
	if surveyID == "" || cohortID == "" {
		return nil, NewValidationError("cohort_id", "cohort_id and survey_id are required", nil)
	}

	cohort, err := s.repo.Cohort().GetByID(ctx, nil, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCohortNotFound
		}
		return nil, NewPersistenceError("get cohort", err)
	}
	survey, err := s.repo.Survey().GetByID(ctx, nil, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, NewPersistenceError("get survey", err)
	}

	study := cohort.Study
	if study == nil {
		study, err = s.repo.Study().GetByID(ctx, nil, cohort.StudyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudyNotFound
			}
			return nil, NewPersistenceError("get study", err)
		}
	}

	return &LinkResponse{Study: study, Cohort: cohort, Survey: survey}, nil
}

func (s *linkService) invalidateBundle(ctx context.Context, slug string) {
	if err := s.cache.Delete(ctx, cache.BundleKey(slug)); err != nil {
		s.logger.Logger().Warn("Failed to invalidate survey bundle", zap.String("slug", slug), zap.Error(err))
	}
}

func (s *linkService) notify(publish func() error) {
	if s.events == nil {
		return
	}
	if err := publish(); err != nil {
		s.logger.Logger().Warn("Failed to publish link event", zap.Error(err))
	}
}

// Slugify lowercases value and collapses every run of other characters into
// a single hyphen, trimming hyphens at either end.
func Slugify(value string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(slug, "-")
}

// BuildLinkSlug picks the base slug for a new link.
func BuildLinkSlug(surveyName, cohortName string, provided *string) string {
	if provided != nil {
		if slug := Slugify(*provided); slug != "" {
			return slug
		}
	}
	if base := Slugify(surveyName + "-" + cohortName); base != "" {
		return base
	}
	if name := Slugify(surveyName); name != "" {
		return "survey-" + name
	}
	return "survey-link"
}
