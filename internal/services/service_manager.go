package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/events"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"go.uber.org/zap"
)

type serviceManager struct {
	repo     repositories.Repository
	public   PublicSurveyService
	survey   SurveyService
	link     LinkService
	response ResponseService
	study    StudyService
	events   SurveyEventService
}

// NewServiceManager wires every service over one repository, cache and
// event publisher. A nil cache disables bundle caching.
func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *zap.Logger,
	validator *validator.Validator,
	bundleTTL time.Duration,
) ServiceManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}

	eventService := NewSurveyEventService(publisher, logger)
	return &serviceManager{
		repo:     repo,
		public:   NewPublicSurveyService(repo, cacheService, eventService, logger, validator, bundleTTL),
		survey:   NewSurveyService(repo, cacheService, eventService, logger, validator),
		link:     NewLinkService(repo, cacheService, eventService, logger, validator),
		response: NewResponseService(repo, logger, validator),
		study:    NewStudyService(repo, logger, validator),
		events:   eventService,
	}
}

func (m *serviceManager) Public() PublicSurveyService { return m.public }
func (m *serviceManager) Survey() SurveyService       { return m.survey }
func (m *serviceManager) Link() LinkService           { return m.link }
func (m *serviceManager) Response() ResponseService   { return m.response }
func (m *serviceManager) Study() StudyService         { return m.study }
func (m *serviceManager) Events() SurveyEventService  { return m.events }

func (m *serviceManager) Ping(ctx context.Context) error {
	return m.repo.Ping(ctx)
}
