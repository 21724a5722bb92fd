package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newAuthRouter(token string, allowQuery bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AdminAuth(token, allowQuery, utils.NewZapLogger(zap.NewNop())))
	router.GET("/staff", func(c *gin.Context) {
		authed, _ := c.Get(ContextStaffAuthed)
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	return router
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		allowQuery bool
		url        string
		headers    map[string]string
		wantStatus int
	}{
		{"admin header", "s3cret", false, "/staff", map[string]string{"X-Admin-Token": "s3cret"}, http.StatusOK},
		{"bearer header", "s3cret", false, "/staff", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
		{"bearer prefix is case-insensitive", "s3cret", false, "/staff", map[string]string{"Authorization": "bearer  s3cret "}, http.StatusOK},
		{"admin header bearer form", "s3cret", false, "/staff", map[string]string{"X-Admin-Token": "Bearer s3cret"}, http.StatusOK},
		{"wrong token", "s3cret", false, "/staff", map[string]string{"X-Admin-Token": "nope"}, http.StatusUnauthorized},
		{"missing token", "s3cret", false, "/staff", nil, http.StatusUnauthorized},
		{"query token in development", "s3cret", true, "/staff?token=s3cret", nil, http.StatusOK},
		{"query token outside development", "s3cret", false, "/staff?token=s3cret", nil, http.StatusUnauthorized},
		{"unconfigured token", "  ", true, "/staff?token=", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(tt.token, tt.allowQuery)
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"authed":true}`, w.Body.String())
			}
		})
	}
}

func TestParseBearer(t *testing.T) {
	assert.Equal(t, "abc", parseBearer("Bearer abc"))
	assert.Equal(t, "abc", parseBearer("  abc "))
	assert.Equal(t, "", parseBearer(""))
}
