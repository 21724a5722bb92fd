package services

import (
	"time"

	"github.com/SAP-F-2025/survey-service/internal/flow"
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"github.com/SAP-F-2025/survey-service/internal/submission"
)

// ===== PUBLIC FLOW =====

type NavigateAction string

const (
	ActionNext       NavigateAction = "next"
	ActionPrevious   NavigateAction = "previous"
	ActionAddItem    NavigateAction = "add_item"
	ActionRemoveItem NavigateAction = "remove_item"
)

type NavigateRequest struct {
	Path    string           `json:"path" validate:"required"`
	Action  NavigateAction   `json:"action" validate:"required,oneof=next previous add_item remove_item"`
	Session *session.Session `json:"session"`
}

type RepeatCountChange struct {
	GroupKey string `json:"group_key"`
	Count    int    `json:"count"`
}

type NavigateResponse struct {
	From flow.Page  `json:"from"`
	To   *flow.Page `json:"to"`
	Path string     `json:"path,omitempty"`
	// RepeatCount is set when the action changed an item count the client
	// must store in its session.
	RepeatCount *RepeatCountChange `json:"repeat_count,omitempty"`
}

type ReviewRequest struct {
	Session *session.Session `json:"session"`
}

type ReviewResponse struct {
	Steps            []flow.Step `json:"steps"`
	Missing          []string    `json:"missing"`
	CanSubmit        bool        `json:"can_submit"`
	ContactSatisfied bool        `json:"contact_satisfied"`
	ContactSkippable bool        `json:"contact_skippable"`
	Next             flow.Page   `json:"next"`
	NextPath         string      `json:"next_path"`
	PreviousPath     string      `json:"previous_path,omitempty"`
}

type SubmitRequest struct {
	Session     *session.Session `json:"session" validate:"required"`
	SkipContact bool             `json:"skip_contact"`
}

type SubmitResponse struct {
	ResponseID string                     `json:"response_id"`
	ItemCount  int                        `json:"item_count"`
	Skipped    []submission.SkippedAnswer `json:"skipped,omitempty"`
	NextPath   string                     `json:"next_path"`
}

// ===== SURVEYS =====

type ListSurveysRequest struct {
	StudyID *string `form:"study_id" json:"study_id"`
	Limit   int     `form:"limit" json:"limit" validate:"omitempty,min=1,max=500"`
	Offset  int     `form:"offset" json:"offset" validate:"omitempty,min=0"`
}

type SurveySummary struct {
	ID         string              `json:"id"`
	StudyID    string              `json:"study_id"`
	Name       string              `json:"name"`
	Status     models.SurveyStatus `json:"status"`
	IsTemplate bool                `json:"is_template"`
	CreatedAt  time.Time           `json:"created_at"`
	StudyName  *string             `json:"study_name"`
}

type SurveyListResponse struct {
	Surveys []SurveySummary `json:"surveys"`
	Total   int64           `json:"total"`
}

type CreateSurveyRequest struct {
	StudyID              string  `json:"study_id" validate:"required"`
	Name                 string  `json:"name" validate:"required,max=200"`
	ContactInfoMode      *string `json:"contact_info_mode" validate:"omitempty,contact_info_mode"`
	ContactInfoPlacement *string `json:"contact_info_placement" validate:"omitempty,contact_info_placement"`
	IsTemplate           bool    `json:"is_template"`
	SourceSurveyID       *string `json:"source_survey_id"`
}

// UpdateSurveyRequest is a partial update; nil fields are left unchanged.
type UpdateSurveyRequest struct {
	Name                 *string `json:"name" validate:"omitempty,min=1,max=200"`
	Status               *string `json:"status" validate:"omitempty,survey_status"`
	ContactInfoMode      *string `json:"contact_info_mode" validate:"omitempty,contact_info_mode"`
	ContactInfoPlacement *string `json:"contact_info_placement" validate:"omitempty,contact_info_placement"`
	IsTemplate           *bool   `json:"is_template"`
}

type SaveStructureRequest struct {
	Sections []models.SectionDef `json:"sections"`
}

// DefinitionDocument is the portable survey format used by import and export.
type DefinitionDocument struct {
	Survey   DocumentSurvey    `json:"survey"`
	Sections []DocumentSection `json:"sections"`
}

type DocumentSurvey struct {
	Name                 string  `json:"name"`
	ContactInfoMode      *string `json:"contact_info_mode,omitempty" validate:"omitempty,contact_info_mode"`
	ContactInfoPlacement *string `json:"contact_info_placement,omitempty" validate:"omitempty,contact_info_placement"`
	IsTemplate           bool    `json:"is_template"`
}

type DocumentSection struct {
	Title        string                `json:"title"`
	SortOrder    *int                  `json:"sort_order,omitempty"`
	RepeatGroups []DocumentRepeatGroup `json:"repeat_groups,omitempty"`
	Questions    []DocumentQuestion    `json:"questions"`
}

type DocumentRepeatGroup struct {
	Name           string `json:"name"`
	RepeatGroupKey string `json:"repeat_group_key"`
	MinItems       *int   `json:"min_items,omitempty"`
	MaxItems       *int   `json:"max_items,omitempty"`
}

type DocumentQuestion struct {
	Type           models.QuestionType    `json:"type"`
	Label          string                 `json:"label"`
	HelperText     *string                `json:"helper_text,omitempty"`
	Required       bool                   `json:"required"`
	RepeatGroupKey *string                `json:"repeat_group_key,omitempty"`
	SortOrder      *int                   `json:"sort_order,omitempty"`
	ConfigJSON     map[string]interface{} `json:"config_json,omitempty"`
	Options        []DocumentOption       `json:"options,omitempty"`
}

type DocumentOption struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

type ImportSurveyRequest struct {
	StudyID    string              `json:"study_id" validate:"required"`
	Definition *DefinitionDocument `json:"definition" validate:"required"`
}

// ===== LINKS =====

type LinkRequest struct {
	SurveyID   string     `json:"survey_id" form:"survey_id"`
	CohortID   string     `json:"cohort_id" form:"cohort_id"`
	PublicSlug *string    `json:"public_slug"`
	Status     *string    `json:"status" validate:"omitempty,link_status"`
	OpensAt    *time.Time `json:"opens_at"`
	ClosesAt   *time.Time `json:"closes_at"`
}

type LinkResponse struct {
	Study  *models.Study      `json:"study"`
	Cohort *models.Cohort     `json:"cohort"`
	Survey *models.Survey     `json:"survey"`
	Link   *models.SurveyLink `json:"link"`
}

// ===== STUDIES & COHORTS =====

type CreateCohortRequest struct {
	StudyID  string     `json:"study_id"`
	Name     string     `json:"name"`
	Status   *string    `json:"status" validate:"omitempty,max=20"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Notes    *string    `json:"notes"`
}

type CohortDetailResponse struct {
	Cohort  *models.Cohort       `json:"cohort"`
	Study   *models.Study        `json:"study"`
	Surveys []*models.Survey     `json:"surveys"`
	Links   []*models.SurveyLink `json:"links"`
}

// ===== RESPONSES =====

type ListResponsesRequest struct {
	SurveyID *string `form:"survey_id"`
	CohortID *string `form:"cohort_id"`
	StudyID  *string `form:"study_id"`
	Slug     *string `form:"slug"`
	Status   string  `form:"status" validate:"omitempty,oneof=submitted draft"`
	From     *string `form:"from"`
	To       *string `form:"to"`
	Search   string  `form:"search"`
	Limit    int     `form:"limit" validate:"omitempty,min=1,max=5000"`
}

type ResponseSummary struct {
	ID           string    `json:"id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	SurveyID     string    `json:"survey_id"`
	CohortID     string    `json:"cohort_id"`
	ContactName  *string   `json:"contact_name"`
	ContactEmail *string   `json:"contact_email"`
	ContactPhone *string   `json:"contact_phone"`
	BusinessName *string   `json:"business_name"`
	ItemCount    int       `json:"item_count"`
}

type ResponseListResponse struct {
	Responses []ResponseSummary `json:"responses"`
}

type ResponseDetail struct {
	*models.Response
	AuditLog []*models.ResponseAuditLog `json:"response_audit_log"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
