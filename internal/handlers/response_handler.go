package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ResponseHandler struct {
	BaseHandler
	responseService services.ResponseService
}

func NewResponseHandler(responseService services.ResponseService, logger utils.Logger) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:     NewBaseHandler(logger),
		responseService: responseService,
	}
}

// ListResponses lists submitted responses matching the filters
// @Summary List responses
// @Tags responses
// @Produce json
// @Param survey_id query string false "Survey ID"
// @Param cohort_id query string false "Cohort ID"
// @Param study_id query string false "Study ID"
// @Param slug query string false "Public slug"
// @Param status query string false "submitted or draft"
// @Param from query string false "Submitted at or after"
// @Param to query string false "Submitted at or before"
// @Param search query string false "Free text"
// @Param limit query int false "Max rows"
// @Success 200 {object} services.ResponseListResponse
// @Router /staff/responses [get]
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	req, ok := h.bindFilters(c)
	if !ok {
		return
	}

	resp, err := h.responseService.List(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetResponse returns one response with its answers and audit log
// @Summary Get response
// @Tags responses
// @Produce json
// @Param id path string true "Response ID"
// @Success 200 {object} services.ResponseDetail
// @Failure 404 {object} ErrorResponse
// @Router /staff/responses/{id} [get]
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	detail, err := h.responseService.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ExportResponses downloads matching responses, one row per answer
// @Summary Export responses
// @Tags responses
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /staff/responses/export [get]
func (h *ResponseHandler) ExportResponses(c *gin.Context) {
	req, ok := h.bindFilters(c)
	if !ok {
		return
	}

	var (
		file *services.ExportFile
		err  error
	)
	switch format := strings.ToLower(c.DefaultQuery("format", "csv")); format {
	case "csv":
		file, err = h.responseService.ExportCSV(c.Request.Context(), req)
	case "xlsx":
		file, err = h.responseService.ExportXLSX(c.Request.Context(), req)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *ResponseHandler) bindFilters(c *gin.Context) (*services.ListResponsesRequest, bool) {
	var req services.ListResponsesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return nil, false
	}
	return &req, true
}
