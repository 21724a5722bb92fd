package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// LinkHandler manages the public link of a survey within a cohort and the
// staff preview of the bundle behind it.
type LinkHandler struct {
	BaseHandler
	linkService   services.LinkService
	publicService services.PublicSurveyService
}

func NewLinkHandler(linkService services.LinkService, publicService services.PublicSurveyService, logger utils.Logger) *LinkHandler {
	return &LinkHandler{
		BaseHandler:   NewBaseHandler(logger),
		linkService:   linkService,
		publicService: publicService,
	}
}

// GetLink returns the link for a survey and cohort, if one exists
// @Summary Get survey link
// @Tags links
// @Produce json
// @Param survey_id query string true "Survey ID"
// @Param cohort_id query string true "Cohort ID"
// @Success 200 {object} services.LinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/links [get]
func (h *LinkHandler) GetLink(c *gin.Context) {
	resp, err := h.linkService.Get(c.Request.Context(), c.Query("survey_id"), c.Query("cohort_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateLink creates the link, or returns the existing one
// @Summary Create survey link
// @Tags links
// @Accept json
// @Produce json
// @Param link body services.LinkRequest true "Link data"
// @Success 200 {object} services.LinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	req, ok := h.bindLinkRequest(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating survey link", "survey_id", req.SurveyID, "cohort_id", req.CohortID)

	resp, err := h.linkService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateLink changes the slug, status or window of an existing link
// @Summary Update survey link
// @Tags links
// @Accept json
// @Produce json
// @Param link body services.LinkRequest true "Link data"
// @Success 200 {object} services.LinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/links [patch]
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	req, ok := h.bindLinkRequest(c)
	if !ok {
		return
	}

	resp, err := h.linkService.Update(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PreviewBundle returns the bundle for a slug regardless of link status
// @Summary Preview survey bundle
// @Tags links
// @Produce json
// @Param slug query string true "Public slug"
// @Success 200 {object} models.PublicSurveyBundle
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/bundles [get]
func (h *LinkHandler) PreviewBundle(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing slug parameter",
		})
		return
	}

	bundle, err := h.publicService.PreviewBundle(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// bindLinkRequest reads the body, falling back to query parameters for the
// survey and cohort ids.
func (h *LinkHandler) bindLinkRequest(c *gin.Context) (*services.LinkRequest, bool) {
	var req services.LinkRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return nil, false
		}
	}
	if req.SurveyID == "" {
		req.SurveyID = c.Query("survey_id")
	}
	if req.CohortID == "" {
		req.CohortID = c.Query("cohort_id")
	}
	return &req, true
}
