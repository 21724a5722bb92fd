package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/flow"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/structure"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bundleCachePattern = "survey-bundle:*"

type surveyService struct {
	repo       repositories.Repository
	cache      cache.CacheService
	events     SurveyEventService
	normalizer *structure.Normalizer
	logger     *ServiceLogger
	validator  *validator.Validator
}

func NewSurveyService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	eventService SurveyEventService,
	logger *zap.Logger,
	validator *validator.Validator,
) SurveyService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &surveyService{
		repo:       repo,
		cache:      cacheService,
		events:     eventService,
		normalizer: structure.NewNormalizer(validator.Structure()),
		logger:     NewServiceLogger(logger, LogConfig{Service: "survey-service", Component: "surveys"}),
		validator:  validator,
	}
}

// ===== SURVEY METADATA =====

func (s *surveyService) List(ctx context.Context, req *ListSurveysRequest) (*SurveyListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	surveys, total, err := s.repo.Survey().List(ctx, nil, repositories.SurveyFilters{
		StudyID:   req.StudyID,
		Limit:     req.Limit,
		Offset:    req.Offset,
		SortOrder: "desc",
	})
	if err != nil {
		return nil, NewPersistenceError("list surveys", err)
	}

	resp := &SurveyListResponse{Surveys: make([]SurveySummary, 0, len(surveys)), Total: total}
	for _, survey := range surveys {
		summary := SurveySummary{
			ID:         survey.ID,
			StudyID:    survey.StudyID,
			Name:       survey.Name,
			Status:     survey.Status,
			IsTemplate: survey.IsTemplate,
			CreatedAt:  survey.CreatedAt,
		}
		if survey.Study != nil {
			name := survey.Study.Name
			summary.StudyName = &name
		}
		resp.Surveys = append(resp.Surveys, summary)
	}
	return resp, nil
}

func (s *surveyService) ListTemplates(ctx context.Context, studyID *string) ([]*models.Survey, error) {
	isTemplate := true
	surveys, _, err := s.repo.Survey().List(ctx, nil, repositories.SurveyFilters{
		StudyID:    studyID,
		IsTemplate: &isTemplate,
		SortOrder:  "asc",
	})
	if err != nil {
		return nil, NewPersistenceError("list templates", err)
	}
	return surveys, nil
}

func (s *surveyService) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, NewPersistenceError("get survey", err)
	}
	return survey, nil
}

func (s *surveyService) Create(ctx context.Context, req *CreateSurveyRequest) (result *models.Survey, err error) {
	op := s.logger.WithOperation(ctx, "create_survey")
	defer func() {
		id := ""
		if result != nil {
			id = result.ID
		}
		op.LogResult(id, "survey", err)
	}()

	req.StudyID = strings.TrimSpace(req.StudyID)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureStudy(ctx, req.StudyID); err != nil {
		return nil, err
	}

	var sourceSections []models.SectionDef
	if req.SourceSurveyID != nil && *req.SourceSurveyID != "" {
		source, err := s.GetDefinition(ctx, *req.SourceSurveyID)
		if err != nil {
			return nil, err
		}
		sourceSections = source.Sections
	}

	survey := &models.Survey{
		StudyID:              req.StudyID,
		Name:                 req.Name,
		Status:               models.SurveyDraft,
		ContactInfoMode:      contactModeOrDefault(req.ContactInfoMode),
		ContactInfoPlacement: placementOrDefault(req.ContactInfoPlacement),
		IsTemplate:           req.IsTemplate,
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Survey().Create(ctx, tx, survey); err != nil {
			return err
		}
		if len(sourceSections) == 0 {
			return nil
		}
		return s.repo.Structure().ReplaceStructure(ctx, tx, survey.ID, sourceSections)
	})
	if err != nil {
		return nil, NewPersistenceError("create survey", err)
	}

	s.notify(func() error { return s.events.NotifySurveyCreated(ctx, survey, req.SourceSurveyID) })
	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, id string, req *UpdateSurveyRequest) (*models.Survey, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name", "is required", *req.Name)
		}
		fields["name"] = name
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.ContactInfoMode != nil {
		fields["contact_info_mode"] = *req.ContactInfoMode
	}
	if req.ContactInfoPlacement != nil {
		fields["contact_info_placement"] = *req.ContactInfoPlacement
	}
	if req.IsTemplate != nil {
		fields["is_template"] = *req.IsTemplate
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.repo.Survey().Update(ctx, nil, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, NewPersistenceError("update survey", err)
	}

	s.invalidateBundles(ctx)
	return s.GetByID(ctx, id)
}

func (s *surveyService) GetStats(ctx context.Context, id string) (*repositories.SurveyResponseStats, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	stats, err := s.repo.Response().GetStats(ctx, nil, id)
	if err != nil {
		return nil, NewPersistenceError("get survey stats", err)
	}
	return stats, nil
}

// ===== STRUCTURE =====

func (s *surveyService) GetDefinition(ctx context.Context, id string) (*models.SurveyDefinition, error) {
	survey, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.repo.Structure().LoadSections(ctx, nil, id)
	if err != nil {
		return nil, NewPersistenceError("load survey structure", err)
	}
	def := flow.BuildDefinition(*survey, sections)
	return &def, nil
}

// SaveStructure replaces the whole structure of a survey. It is refused once
// the survey has responses, and nothing is written when validation fails.
func (s *surveyService) SaveStructure(ctx context.Context, id string, req *SaveStructureRequest) (result *models.SurveyDefinition, err error) {
	op := s.logger.WithOperation(ctx, "save_structure")
	defer func() { op.LogResult(id, "survey", err) }()

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	sections, err := s.normalizer.Prepare(req.Sections)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		count, err := s.repo.Response().CountBySurvey(ctx, tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return NewBusinessRuleError(RuleStructureLocked,
				"Survey structure cannot be edited after responses exist.",
				map[string]interface{}{"survey_id": id, "response_count": count})
		}
		if err := s.repo.Structure().ReplaceStructure(ctx, tx, id, sections); err != nil {
			return err
		}
		return s.repo.Survey().Update(ctx, tx, id, map[string]interface{}{})
	})
	if err != nil {
		if IsBusinessRule(err) {
			return nil, err
		}
		return nil, NewPersistenceError("save survey structure", err)
	}

	s.invalidateBundles(ctx)
	s.notify(func() error { return s.events.NotifyStructureSaved(ctx, id, sections) })
	return s.GetDefinition(ctx, id)
}

// ImportDefinition creates a new draft survey in a study from a portable
// definition document.
func (s *surveyService) ImportDefinition(ctx context.Context, req *ImportSurveyRequest) (result *models.Survey, err error) {
	op := s.logger.WithOperation(ctx, "import_survey")
	defer func() {
		id := ""
		if result != nil {
			id = result.ID
		}
		op.LogResult(id, "survey", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	doc := req.Definition
	name := strings.TrimSpace(doc.Survey.Name)
	if name == "" {
		return nil, NewValidationError("definition.survey.name", "Missing survey definition", nil)
	}

	sections, err := s.normalizer.Prepare(SectionsFromDocument(doc))
	if err != nil {
		return nil, err
	}
	if err := s.ensureStudy(ctx, req.StudyID); err != nil {
		return nil, err
	}

	survey := &models.Survey{
		StudyID:              req.StudyID,
		Name:                 name,
		Status:               models.SurveyDraft,
		ContactInfoMode:      contactModeOrDefault(doc.Survey.ContactInfoMode),
		ContactInfoPlacement: placementOrDefault(doc.Survey.ContactInfoPlacement),
		IsTemplate:           doc.Survey.IsTemplate,
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Survey().Create(ctx, tx, survey); err != nil {
			return err
		}
		return s.repo.Structure().ReplaceStructure(ctx, tx, survey.ID, sections)
	})
	if err != nil {
		return nil, NewPersistenceError("import survey", err)
	}

	s.notify(func() error { return s.events.NotifySurveyCreated(ctx, survey, nil) })
	return survey, nil
}

func (s *surveyService) ExportDefinition(ctx context.Context, id string) (*DefinitionDocument, error) {
	def, err := s.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	survey, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return DocumentFromDefinition(survey, def), nil
}

// ===== HELPERS =====

func (s *surveyService) ensureStudy(ctx context.Context, studyID string) error {
	if _, err := s.repo.Study().GetByID(ctx, nil, studyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudyNotFound
		}
		return NewPersistenceError("get study", err)
	}
	return nil
}

func (s *surveyService) invalidateBundles(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, bundleCachePattern); err != nil {
		s.logger.Logger().Warn("Failed to invalidate survey bundles", zap.Error(err))
	}
}

func (s *surveyService) notify(publish func() error) {
	if s.events == nil {
		return
	}
	if err := publish(); err != nil {
		s.logger.Logger().Warn("Failed to publish survey event", zap.Error(err))
	}
}

func contactModeOrDefault(mode *string) *models.ContactInfoMode {
	m := models.ContactInfoOptional
	if mode != nil && *mode != "" {
		m = models.ContactInfoMode(*mode)
	}
	return &m
}

func placementOrDefault(placement *string) models.ContactInfoPlacement {
	if placement != nil && *placement != "" {
		return models.ContactInfoPlacement(*placement)
	}
	return models.ContactAtEnd
}
