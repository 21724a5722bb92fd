package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/flow"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"github.com/SAP-F-2025/survey-service/internal/submission"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type publicSurveyService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	events    SurveyEventService
	encoder   *submission.Encoder
	logger    *ServiceLogger
	validator *validator.Validator
	bundleTTL time.Duration
	now       func() time.Time
}

func NewPublicSurveyService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	eventService SurveyEventService,
	logger *zap.Logger,
	validator *validator.Validator,
	bundleTTL time.Duration,
) PublicSurveyService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &publicSurveyService{
		repo:      repo,
		cache:     cacheService,
		events:    eventService,
		encoder:   submission.NewEncoder(),
		logger:    NewServiceLogger(logger, LogConfig{Service: "survey-service", Component: "public"}),
		validator: validator,
		bundleTTL: bundleTTL,
		now:       time.Now,
	}
}

// ===== BUNDLE =====

func (s *publicSurveyService) GetBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error) {
	bundle, err := s.loadBundle(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !linkAccepts(bundle.Link, s.now()) {
		s.logger.Logger().Info("Survey link is not accepting responses",
			zap.String("slug", slug),
			zap.String("status", string(bundle.Link.Status)))
		return nil, ErrDefinitionNotFound
	}
	return bundle, nil
}

func (s *publicSurveyService) PreviewBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error) {
	return s.loadBundle(ctx, slug)
}

func (s *publicSurveyService) loadBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrDefinitionNotFound
	}

	key := cache.BundleKey(slug)
	var cached models.PublicSurveyBundle
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Logger().Warn("Bundle cache unavailable, reading from store", zap.String("slug", slug), zap.Error(err))
	}

	link, err := s.repo.SurveyLink().GetBySlug(ctx, nil, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, NewPersistenceError("load survey link", err)
	}
	if link.Survey == nil || link.Cohort == nil {
		return nil, ErrDefinitionNotFound
	}

	sections, err := s.repo.Structure().LoadSections(ctx, nil, link.SurveyID)
	if err != nil {
		return nil, NewPersistenceError("load survey structure", err)
	}

	bundle := BuildBundle(link, sections)
	_ = s.cache.Set(ctx, key, bundle, s.bundleTTL)
	return bundle, nil
}

// BuildBundle assembles the participant bundle from a link with its survey,
// cohort and study loaded.
func BuildBundle(link *models.SurveyLink, sections []models.Section) *models.PublicSurveyBundle {
	bundle := &models.PublicSurveyBundle{
		Link: models.LinkInfo{
			ID:         link.ID,
			PublicSlug: link.PublicSlug,
			Status:     link.Status,
			OpensAt:    link.OpensAt,
			ClosesAt:   link.ClosesAt,
		},
		SurveyDefinition: flow.BuildDefinition(*link.Survey, sections),
	}
	if link.Cohort != nil {
		bundle.Cohort = models.CohortInfo{ID: link.Cohort.ID, Name: link.Cohort.Name}
		bundle.Study.ID = link.Cohort.StudyID
	}

	study := link.Survey.Study
	if link.Cohort != nil && link.Cohort.Study != nil {
		study = link.Cohort.Study
	}
	if study != nil {
		bundle.Study = models.StudyInfo{ID: study.ID, Name: study.Name, HostName: study.HostName}
	}
	return bundle
}

func linkAccepts(info models.LinkInfo, now time.Time) bool {
	link := models.SurveyLink{Status: info.Status, OpensAt: info.OpensAt, ClosesAt: info.ClosesAt}
	return link.AcceptsResponses(now)
}

// ===== NAVIGATION =====

func (s *publicSurveyService) Navigate(ctx context.Context, slug string, req *NavigateRequest) (*NavigateResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	pathSlug, page, err := flow.ParsePath(req.Path)
	if err != nil {
		return nil, NewValidationError("path", err.Error(), req.Path)
	}
	if pathSlug != slug {
		return nil, NewValidationError("path", "path belongs to a different survey", req.Path)
	}

	bundle, err := s.GetBundle(ctx, slug)
	if err != nil {
		return nil, err
	}
	sess := s.sessionOrNew(req.Session)
	flow.CapRepeatCounts(&bundle.SurveyDefinition, sess)
	nav := flow.NewNavigator(&bundle.SurveyDefinition)
	resp := &NavigateResponse{From: page}

	switch req.Action {
	case ActionNext:
		if to, ok := nav.Next(page, sess); ok {
			resp.setTarget(to, slug)
			if section := flow.SectionByID(&bundle.SurveyDefinition, to.SectionID); section != nil {
				if change, changed := flow.EnsureMinimumItems(section, sess); changed {
					resp.RepeatCount = &RepeatCountChange{GroupKey: change.GroupKey, Count: change.Count}
				}
			}
		}
	case ActionPrevious:
		if to, ok := nav.Previous(page); ok {
			resp.setTarget(to, slug)
		}
	case ActionAddItem, ActionRemoveItem:
		change, err := s.changeItems(&bundle.SurveyDefinition, page, sess, req.Action)
		if err != nil {
			return nil, err
		}
		resp.setTarget(page, slug)
		resp.RepeatCount = change
	}

	return resp, nil
}

func (r *NavigateResponse) setTarget(page flow.Page, slug string) {
	r.To = &page
	r.Path = page.Path(slug)
}

func (s *publicSurveyService) changeItems(def *models.SurveyDefinition, page flow.Page, sess *session.Session, action NavigateAction) (*RepeatCountChange, error) {
	if page.Kind != flow.PageItems {
		return nil, NewValidationError("path", "items can only be changed from the item list", page.Path(""))
	}
	section := flow.SectionByID(def, page.SectionID)
	if section == nil || !flow.IsRepeating(section) {
		return nil, NewValidationError("path", "section does not repeat", page.SectionID)
	}

	var change flow.RepeatChange
	var ok bool
	if action == ActionAddItem {
		change, ok = flow.AddItem(section, sess)
	} else {
		change, ok = flow.RemoveItem(section, sess)
	}
	if !ok {
		minItems, maxItems := flow.ItemBounds(section)
		return nil, NewBusinessRuleError("item_bounds",
			fmt.Sprintf("This section takes between %d and %d items.", minItems, maxItems),
			map[string]interface{}{"section_id": section.ID, "count": sess.RepeatCount(flow.RepeatGroupKey(section))})
	}
	return &RepeatCountChange{GroupKey: change.GroupKey, Count: change.Count}, nil
}

// ===== REVIEW =====

func (s *publicSurveyService) Review(ctx context.Context, slug string, req *ReviewRequest) (*ReviewResponse, error) {
	bundle, err := s.GetBundle(ctx, slug)
	if err != nil {
		return nil, err
	}
	sess := s.sessionOrNew(req.Session)
	def := &bundle.SurveyDefinition
	flow.CapRepeatCounts(def, sess)
	nav := flow.NewNavigator(def)

	missing := flow.MissingRequiredAnswers(def, sess)
	contactSatisfied := flow.ContactInfoSatisfied(def.Survey, sess.ContactInfo)
	next := nav.AfterReview()

	resp := &ReviewResponse{
		Steps:            flow.Steps(def, sess),
		Missing:          missing,
		ContactSatisfied: contactSatisfied,
		ContactSkippable: flow.ContactInfoSkippable(def.Survey),
		Next:             next,
		NextPath:         next.Path(slug),
	}
	// Contact collected at the end is checked on its own page.
	resp.CanSubmit = len(missing) == 0 && (next.Kind == flow.PageContact || contactSatisfied)
	if prev, ok := nav.Previous(flow.ReviewPage()); ok {
		resp.PreviousPath = prev.Path(slug)
	}
	return resp, nil
}

// ===== SUBMISSION =====

func (s *publicSurveyService) Submit(ctx context.Context, slug string, req *SubmitRequest) (result *SubmitResponse, err error) {
	op := s.logger.WithOperation(ctx, "submit_response")
	defer func() {
		id := ""
		if result != nil {
			id = result.ResponseID
		}
		op.LogResult(id, "response", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bundle, err := s.GetBundle(ctx, slug)
	if err != nil {
		return nil, err
	}
	def := &bundle.SurveyDefinition
	flow.CapRepeatCounts(def, req.Session)

	if missing := flow.MissingRequiredAnswers(def, req.Session); len(missing) > 0 {
		return nil, NewBusinessRuleError(RuleRequiredAnswers,
			"Please answer all required questions before submitting.",
			map[string]interface{}{"missing": missing})
	}
	if req.SkipContact && !flow.ContactInfoSkippable(def.Survey) {
		return nil, NewBusinessRuleError(RuleRequiredContactInfo, "Contact information is required for this survey.", nil)
	}
	if !req.SkipContact && !flow.ContactInfoSatisfied(def.Survey, req.Session.ContactInfo) {
		return nil, NewBusinessRuleError(RuleRequiredContactInfo, "Please provide a contact name and email.", nil)
	}

	encoded, err := s.encoder.Encode(bundle, req.Session, req.SkipContact)
	if err != nil {
		if errors.Is(err, submission.ErrNoSession) {
			return nil, NewValidationError("session", "is required", nil)
		}
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.repo.Response().CreateWithItems(ctx, tx, &encoded.Response, encoded.Items)
	})
	if err != nil {
		return nil, NewPersistenceError("create response", err)
	}

	for _, skipped := range encoded.Skipped {
		s.logger.Logger().Warn("Answer skipped during submission",
			zap.String("response_id", encoded.Response.ID),
			zap.String("key", skipped.Key),
			zap.String("reason", skipped.Reason))
	}

	if s.events != nil {
		if err := s.events.NotifyResponseSubmitted(ctx, bundle, &encoded.Response, len(encoded.Items), len(encoded.Skipped)); err != nil {
			s.logger.Logger().Warn("Failed to publish response submitted event",
				zap.String("response_id", encoded.Response.ID), zap.Error(err))
		}
	}

	return &SubmitResponse{
		ResponseID: encoded.Response.ID,
		ItemCount:  len(encoded.Items),
		Skipped:    encoded.Skipped,
		NextPath:   flow.ThankYouPage().Path(slug),
	}, nil
}

func (s *publicSurveyService) sessionOrNew(sess *session.Session) *session.Session {
	if sess != nil {
		return sess
	}
	return session.New(s.now())
}
