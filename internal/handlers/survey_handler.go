package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	BaseHandler
	surveyService services.SurveyService
}

func NewSurveyHandler(surveyService services.SurveyService, logger utils.Logger) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler:   NewBaseHandler(logger),
		surveyService: surveyService,
	}
}

// ListSurveys lists surveys, newest first
// @Summary List surveys
// @Tags surveys
// @Produce json
// @Param study_id query string false "Study filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.SurveyListResponse
// @Router /staff/surveys [get]
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	req := services.ListSurveysRequest{
		StudyID: optionalQuery(c, "study_id"),
		Limit:   parseIntQuery(c, "limit", 0),
		Offset:  parseIntQuery(c, "offset", 0),
	}

	resp, err := h.surveyService.List(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTemplates lists surveys flagged as templates
// @Summary List templates
// @Tags surveys
// @Produce json
// @Param study_id query string false "Study filter"
// @Success 200 {array} models.Survey
// @Router /staff/templates [get]
func (h *SurveyHandler) ListTemplates(c *gin.Context) {
	templates, err := h.surveyService.ListTemplates(c.Request.Context(), optionalQuery(c, "study_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateSurvey creates a draft survey, optionally copying a source survey
// @Summary Create survey
// @Tags surveys
// @Accept json
// @Produce json
// @Param survey body services.CreateSurveyRequest true "Survey data"
// @Success 201 {object} models.Survey
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/surveys [post]
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req services.CreateSurveyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating survey", "study_id", req.StudyID)

	survey, err := h.surveyService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, survey)
}

// GetSurvey returns a survey's metadata
// @Summary Get survey
// @Tags surveys
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 404 {object} ErrorResponse
// @Router /staff/surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	survey, err := h.surveyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

// UpdateSurvey applies a partial metadata update
// @Summary Update survey
// @Tags surveys
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param survey body services.UpdateSurveyRequest true "Fields to change"
// @Success 200 {object} models.Survey
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/surveys/{id} [patch]
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateSurveyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	survey, err := h.surveyService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

// GetSurveyStats returns response counts for a survey
// @Summary Survey response stats
// @Tags surveys
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} repositories.SurveyResponseStats
// @Router /staff/surveys/{id}/stats [get]
func (h *SurveyHandler) GetSurveyStats(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	stats, err := h.surveyService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDefinition returns the survey with its sections, groups, questions and options
// @Summary Get survey definition
// @Tags surveys
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} models.SurveyDefinition
// @Failure 404 {object} ErrorResponse
// @Router /staff/surveys/{id}/definition [get]
func (h *SurveyHandler) GetDefinition(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	def, err := h.surveyService.GetDefinition(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, def)
}

// SaveStructure replaces the survey's structure with the editor's sections
// @Summary Save survey structure
// @Tags surveys
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param structure body services.SaveStructureRequest true "Sections"
// @Success 200 {object} models.SurveyDefinition
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /staff/surveys/{id}/definition [put]
func (h *SurveyHandler) SaveStructure(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SaveStructureRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Saving survey structure", "survey_id", id, "section_count", len(req.Sections))

	def, err := h.surveyService.SaveStructure(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, def)
}

// ImportSurvey creates a draft survey from a portable definition document
// @Summary Import survey
// @Tags surveys
// @Accept json
// @Produce json
// @Param request body services.ImportSurveyRequest true "Study and definition"
// @Success 201 {object} models.Survey
// @Failure 400 {object} ErrorResponse
// @Router /staff/surveys/import [post]
func (h *SurveyHandler) ImportSurvey(c *gin.Context) {
	var req services.ImportSurveyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	survey, err := h.surveyService.ImportDefinition(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"survey_id": survey.ID, "survey": survey})
}

// ExportSurvey renders the survey as a portable definition document
// @Summary Export survey
// @Tags surveys
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} services.DefinitionDocument
// @Failure 404 {object} ErrorResponse
// @Router /staff/surveys/{id}/export [get]
func (h *SurveyHandler) ExportSurvey(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	doc, err := h.surveyService.ExportDefinition(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
