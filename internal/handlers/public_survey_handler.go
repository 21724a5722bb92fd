package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// PublicSurveyHandler serves the participant flow. Routes are unauthenticated
// and keyed by the link's public slug.
type PublicSurveyHandler struct {
	BaseHandler
	publicService services.PublicSurveyService
}

func NewPublicSurveyHandler(publicService services.PublicSurveyService, logger utils.Logger) *PublicSurveyHandler {
	return &PublicSurveyHandler{
		BaseHandler:   NewBaseHandler(logger),
		publicService: publicService,
	}
}

// GetBundle returns the survey definition behind a public slug
// @Summary Get public survey
// @Tags public
// @Produce json
// @Param slug path string true "Public slug"
// @Success 200 {object} models.PublicSurveyBundle
// @Failure 404 {object} ErrorResponse
// @Router /public/surveys/{slug} [get]
func (h *PublicSurveyHandler) GetBundle(c *gin.Context) {
	slug := ParseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	bundle, err := h.publicService.GetBundle(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// Navigate resolves the page after (or before) the current one
// @Summary Navigate survey pages
// @Tags public
// @Accept json
// @Produce json
// @Param slug path string true "Public slug"
// @Param request body services.NavigateRequest true "Current path, action and session"
// @Success 200 {object} services.NavigateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /public/surveys/{slug}/navigate [post]
func (h *PublicSurveyHandler) Navigate(c *gin.Context) {
	slug := ParseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	var req services.NavigateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.publicService.Navigate(c.Request.Context(), slug, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Review summarizes the session before submission
// @Summary Review answers
// @Tags public
// @Accept json
// @Produce json
// @Param slug path string true "Public slug"
// @Param request body services.ReviewRequest true "Session"
// @Success 200 {object} services.ReviewResponse
// @Router /public/surveys/{slug}/review [post]
func (h *PublicSurveyHandler) Review(c *gin.Context) {
	slug := ParseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	var req services.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.publicService.Review(c.Request.Context(), slug, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Submit stores the participant's answers as a response
// @Summary Submit response
// @Tags public
// @Accept json
// @Produce json
// @Param slug path string true "Public slug"
// @Param request body services.SubmitRequest true "Session and contact choice"
// @Success 201 {object} services.SubmitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /public/surveys/{slug}/responses [post]
func (h *PublicSurveyHandler) Submit(c *gin.Context) {
	slug := ParseStringIDParam(c, "slug")
	if slug == "" {
		return
	}

	var req services.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting survey response", "slug", slug)

	resp, err := h.publicService.Submit(c.Request.Context(), slug, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
