package services

import (
	"context"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
)

// PublicSurveyService serves the participant flow for a public slug
type PublicSurveyService interface {
	// GetBundle resolves a slug to its survey, gated on the link being open
	// and inside its window. Unavailable surveys return ErrDefinitionNotFound.
	GetBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error)
	// PreviewBundle is GetBundle without the open/window gating, for staff
	PreviewBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error)
	Navigate(ctx context.Context, slug string, req *NavigateRequest) (*NavigateResponse, error)
	Review(ctx context.Context, slug string, req *ReviewRequest) (*ReviewResponse, error)
	Submit(ctx context.Context, slug string, req *SubmitRequest) (*SubmitResponse, error)
}

type SurveyService interface {
	List(ctx context.Context, req *ListSurveysRequest) (*SurveyListResponse, error)
	ListTemplates(ctx context.Context, studyID *string) ([]*models.Survey, error)
	GetByID(ctx context.Context, id string) (*models.Survey, error)
	Create(ctx context.Context, req *CreateSurveyRequest) (*models.Survey, error)
	Update(ctx context.Context, id string, req *UpdateSurveyRequest) (*models.Survey, error)
	GetStats(ctx context.Context, id string) (*repositories.SurveyResponseStats, error)

	// Structure
	GetDefinition(ctx context.Context, id string) (*models.SurveyDefinition, error)
	SaveStructure(ctx context.Context, id string, req *SaveStructureRequest) (*models.SurveyDefinition, error)
	ImportDefinition(ctx context.Context, req *ImportSurveyRequest) (*models.Survey, error)
	ExportDefinition(ctx context.Context, id string) (*DefinitionDocument, error)
}

type LinkService interface {
	Get(ctx context.Context, surveyID, cohortID string) (*LinkResponse, error)
	Create(ctx context.Context, req *LinkRequest) (*LinkResponse, error)
	Update(ctx context.Context, req *LinkRequest) (*LinkResponse, error)
}

type ResponseService interface {
	List(ctx context.Context, req *ListResponsesRequest) (*ResponseListResponse, error)
	GetDetail(ctx context.Context, id string) (*ResponseDetail, error)
	ExportCSV(ctx context.Context, req *ListResponsesRequest) (*ExportFile, error)
	ExportXLSX(ctx context.Context, req *ListResponsesRequest) (*ExportFile, error)
}

type StudyService interface {
	ListStudies(ctx context.Context) ([]*models.Study, error)
	ListCohorts(ctx context.Context, studyID *string) ([]*models.Cohort, error)
	GetCohort(ctx context.Context, id string) (*CohortDetailResponse, error)
	CreateCohort(ctx context.Context, req *CreateCohortRequest) (*models.Cohort, error)
}

// ServiceManager hands out every service the handlers use
type ServiceManager interface {
	Public() PublicSurveyService
	Survey() SurveyService
	Link() LinkService
	Response() ResponseService
	Study() StudyService
	Events() SurveyEventService
	Ping(ctx context.Context) error
}
