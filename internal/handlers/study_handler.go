package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type StudyHandler struct {
	BaseHandler
	studyService services.StudyService
}

func NewStudyHandler(studyService services.StudyService, logger utils.Logger) *StudyHandler {
	return &StudyHandler{
		BaseHandler:  NewBaseHandler(logger),
		studyService: studyService,
	}
}

// ListStudies lists studies by name
// @Summary List studies
// @Tags studies
// @Produce json
// @Success 200 {array} models.Study
// @Router /staff/studies [get]
func (h *StudyHandler) ListStudies(c *gin.Context) {
	studies, err := h.studyService.ListStudies(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"studies": studies})
}

// ListCohorts lists cohorts, optionally for one study
// @Summary List cohorts
// @Tags cohorts
// @Produce json
// @Param study_id query string false "Study filter"
// @Success 200 {array} models.Cohort
// @Router /staff/cohorts [get]
func (h *StudyHandler) ListCohorts(c *gin.Context) {
	cohorts, err := h.studyService.ListCohorts(c.Request.Context(), optionalQuery(c, "study_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cohorts": cohorts})
}

// GetCohort returns a cohort with its study, surveys and links
// @Summary Get cohort
// @Tags cohorts
// @Produce json
// @Param id path string true "Cohort ID"
// @Success 200 {object} services.CohortDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/cohorts/{id} [get]
func (h *StudyHandler) GetCohort(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	detail, err := h.studyService.GetCohort(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateCohort creates a cohort in a study
// @Summary Create cohort
// @Tags cohorts
// @Accept json
// @Produce json
// @Param cohort body services.CreateCohortRequest true "Cohort data"
// @Success 201 {object} models.Cohort
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /staff/cohorts [post]
func (h *StudyHandler) CreateCohort(c *gin.Context) {
	var req services.CreateCohortRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cohort, err := h.studyService.CreateCohort(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cohort)
}
