package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// StaffAuthConfig configures the shared-secret guard on staff routes
type StaffAuthConfig struct {
	AdminToken      string
	AllowQueryToken bool
}

type HandlerManager struct {
	serviceManager  services.ServiceManager
	logger          utils.Logger
	staffAuth       StaffAuthConfig
	publicHandler   *PublicSurveyHandler
	surveyHandler   *SurveyHandler
	linkHandler     *LinkHandler
	responseHandler *ResponseHandler
	studyHandler    *StudyHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	staffAuth StaffAuthConfig,
) *HandlerManager {
	return &HandlerManager{
		serviceManager:  serviceManager,
		logger:          logger,
		staffAuth:       staffAuth,
		publicHandler:   NewPublicSurveyHandler(serviceManager.Public(), logger),
		surveyHandler:   NewSurveyHandler(serviceManager.Survey(), logger),
		linkHandler:     NewLinkHandler(serviceManager.Link(), serviceManager.Public(), logger),
		responseHandler: NewResponseHandler(serviceManager.Response(), logger),
		studyHandler:    NewStudyHandler(serviceManager.Study(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Participant routes
		public := v1.Group("/public/surveys/:slug")
		{
			public.GET("", hm.publicHandler.GetBundle)
			public.POST("/navigate", hm.publicHandler.Navigate)
			public.POST("/review", hm.publicHandler.Review)
			public.POST("/responses", hm.publicHandler.Submit)
		}

		staff := v1.Group("/staff")
		staff.Use(AdminAuth(hm.staffAuth.AdminToken, hm.staffAuth.AllowQueryToken, hm.logger))
		{
			staff.GET("/studies", hm.studyHandler.ListStudies)

			cohorts := staff.Group("/cohorts")
			{
				cohorts.GET("", hm.studyHandler.ListCohorts)
				cohorts.POST("", hm.studyHandler.CreateCohort)
				cohorts.GET("/:id", hm.studyHandler.GetCohort)
			}

			surveys := staff.Group("/surveys")
			{
				surveys.GET("", hm.surveyHandler.ListSurveys)
				surveys.POST("", hm.surveyHandler.CreateSurvey)
				surveys.POST("/import", hm.surveyHandler.ImportSurvey)
				surveys.GET("/:id", hm.surveyHandler.GetSurvey)
				surveys.PATCH("/:id", hm.surveyHandler.UpdateSurvey)
				surveys.GET("/:id/stats", hm.surveyHandler.GetSurveyStats)
				surveys.GET("/:id/definition", hm.surveyHandler.GetDefinition)
				surveys.PUT("/:id/definition", hm.surveyHandler.SaveStructure)
				surveys.GET("/:id/export", hm.surveyHandler.ExportSurvey)
			}

			staff.GET("/templates", hm.surveyHandler.ListTemplates)

			links := staff.Group("/links")
			{
				links.GET("", hm.linkHandler.GetLink)
				links.POST("", hm.linkHandler.CreateLink)
				links.PATCH("", hm.linkHandler.UpdateLink)
			}

			staff.GET("/bundles", hm.linkHandler.PreviewBundle)

			responses := staff.Group("/responses")
			{
				responses.GET("", hm.responseHandler.ListResponses)
				responses.GET("/export", hm.responseHandler.ExportResponses)
				responses.GET("/:id", hm.responseHandler.GetResponse)
			}
		}
	}
}

// HealthCheck reports whether the database is reachable
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.Ping(c.Request.Context()); err != nil {
		hm.logger.LogError(err, "Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "survey-service",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "survey-service",
	})
}
