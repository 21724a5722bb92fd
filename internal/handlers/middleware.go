package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	HeaderAdminToken   = "X-Admin-Token"
	ContextStaffAuthed = "staff_authenticated"
)

// AdminAuth guards staff routes with a shared secret taken from
// X-Admin-Token or a bearer Authorization header. The token query parameter
// is only honoured when allowQueryToken is set, which is development only.
func AdminAuth(adminToken string, allowQueryToken bool, logger utils.Logger) gin.HandlerFunc {
	adminToken = strings.TrimSpace(adminToken)

	return func(c *gin.Context) {
		if adminToken == "" {
			logger.Error("Staff request rejected, ADMIN_API_TOKEN is not configured",
				"path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Admin API token is not configured",
			})
			return
		}

		token := requestToken(c, allowQueryToken)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			logger.Warn("Unauthorized staff request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Unauthorized",
			})
			return
		}

		c.Set(ContextStaffAuthed, true)
		c.Next()
	}
}

func requestToken(c *gin.Context, allowQueryToken bool) string {
	header := c.GetHeader(HeaderAdminToken)
	if header == "" {
		header = c.GetHeader("Authorization")
	}
	if token := parseBearer(header); token != "" {
		return token
	}
	if allowQueryToken {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}

// parseBearer strips an optional "Bearer " prefix, case-insensitively
func parseBearer(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) >= 7 && strings.EqualFold(trimmed[:7], "bearer ") {
		return strings.TrimSpace(trimmed[7:])
	}
	return trimmed
}
