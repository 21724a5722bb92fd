package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/events"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"go.uber.org/zap"
)

// SurveyEventService publishes domain events after state changes commit.
type SurveyEventService interface {
	NotifyResponseSubmitted(ctx context.Context, bundle *models.PublicSurveyBundle, response *models.Response, itemCount, skippedCount int) error
	NotifySurveyCreated(ctx context.Context, survey *models.Survey, sourceSurveyID *string) error
	NotifyStructureSaved(ctx context.Context, surveyID string, sections []models.SectionDef) error
	NotifyLinkCreated(ctx context.Context, link *models.SurveyLink) error
	NotifyLinkUpdated(ctx context.Context, link *models.SurveyLink) error
}

type surveyEventService struct {
	eventPublisher events.EventPublisher
	logger         *zap.Logger
}

func NewSurveyEventService(eventPublisher events.EventPublisher, logger *zap.Logger) SurveyEventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &surveyEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== RESPONSE EVENTS =====

func (s *surveyEventService) NotifyResponseSubmitted(ctx context.Context, bundle *models.PublicSurveyBundle, response *models.Response, itemCount, skippedCount int) error {
	s.logger.Info("Publishing response submitted event",
		zap.String("response_id", response.ID),
		zap.String("survey_id", response.SurveyID))

	event := events.NewSurveyEvent(events.EventResponseSubmitted, events.ResponseSubmittedEvent{
		ResponseID:   response.ID,
		SurveyID:     response.SurveyID,
		CohortID:     response.CohortID,
		SurveyLinkID: response.SurveyLinkID,
		PublicSlug:   bundle.Link.PublicSlug,
		ItemCount:    itemCount,
		SkippedCount: skippedCount,
		ContactGiven: response.ContactName != nil || response.ContactEmail != nil ||
			response.ContactPhone != nil || response.BusinessName != nil,
		SubmittedAt: response.SubmittedAt,
	})
	event.Metadata = map[string]interface{}{
		"study_id": bundle.Study.ID,
	}
	return s.publish(ctx, event)
}

// ===== SURVEY EVENTS =====

func (s *surveyEventService) NotifySurveyCreated(ctx context.Context, survey *models.Survey, sourceSurveyID *string) error {
	s.logger.Info("Publishing survey created event", zap.String("survey_id", survey.ID))

	event := events.NewSurveyEvent(events.EventSurveyCreated, events.SurveyCreatedEvent{
		SurveyID:       survey.ID,
		StudyID:        survey.StudyID,
		Name:           survey.Name,
		IsTemplate:     survey.IsTemplate,
		SourceSurveyID: sourceSurveyID,
	})
	return s.publish(ctx, event)
}

func (s *surveyEventService) NotifyStructureSaved(ctx context.Context, surveyID string, sections []models.SectionDef) error {
	questionCount := 0
	for _, section := range sections {
		questionCount += len(section.Questions)
	}

	s.logger.Info("Publishing structure saved event",
		zap.String("survey_id", surveyID),
		zap.Int("section_count", len(sections)),
		zap.Int("question_count", questionCount))

	event := events.NewSurveyEvent(events.EventSurveyStructureSaved, events.SurveyStructureSavedEvent{
		SurveyID:      surveyID,
		SectionCount:  len(sections),
		QuestionCount: questionCount,
		SavedAt:       time.Now().UTC(),
	})
	return s.publish(ctx, event)
}

// ===== LINK EVENTS =====

func (s *surveyEventService) NotifyLinkCreated(ctx context.Context, link *models.SurveyLink) error {
	return s.publishLink(ctx, events.EventSurveyLinkCreated, link)
}

func (s *surveyEventService) NotifyLinkUpdated(ctx context.Context, link *models.SurveyLink) error {
	return s.publishLink(ctx, events.EventSurveyLinkUpdated, link)
}

func (s *surveyEventService) publishLink(ctx context.Context, eventType events.EventType, link *models.SurveyLink) error {
	s.logger.Info("Publishing survey link event",
		zap.String("type", string(eventType)),
		zap.String("link_id", link.ID),
		zap.String("public_slug", link.PublicSlug))

	event := events.NewSurveyEvent(eventType, events.SurveyLinkEvent{
		LinkID:     link.ID,
		SurveyID:   link.SurveyID,
		CohortID:   link.CohortID,
		PublicSlug: link.PublicSlug,
		Status:     string(link.Status),
		OpensAt:    link.OpensAt,
		ClosesAt:   link.ClosesAt,
	})
	return s.publish(ctx, event)
}

func (s *surveyEventService) publish(ctx context.Context, event *events.SurveyEvent) error {
	if s.eventPublisher == nil {
		return nil
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
