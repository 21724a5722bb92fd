package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/repositories"
	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAdminToken = "s3cret"

// ===== MOCK SERVICES =====

type MockPublicService struct {
	mock.Mock
}

func (m *MockPublicService) GetBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error) {
	args := m.Called(ctx, slug)
	if bundle, ok := args.Get(0).(*models.PublicSurveyBundle); ok {
		return bundle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPublicService) PreviewBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error) {
	args := m.Called(ctx, slug)
	if bundle, ok := args.Get(0).(*models.PublicSurveyBundle); ok {
		return bundle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPublicService) Navigate(ctx context.Context, slug string, req *services.NavigateRequest) (*services.NavigateResponse, error) {
	args := m.Called(ctx, slug, req)
	if resp, ok := args.Get(0).(*services.NavigateResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPublicService) Review(ctx context.Context, slug string, req *services.ReviewRequest) (*services.ReviewResponse, error) {
	args := m.Called(ctx, slug, req)
	if resp, ok := args.Get(0).(*services.ReviewResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPublicService) Submit(ctx context.Context, slug string, req *services.SubmitRequest) (*services.SubmitResponse, error) {
	args := m.Called(ctx, slug, req)
	if resp, ok := args.Get(0).(*services.SubmitResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSurveyService struct {
	mock.Mock
	services.SurveyService
}

func (m *MockSurveyService) SaveStructure(ctx context.Context, id string, req *services.SaveStructureRequest) (*models.SurveyDefinition, error) {
	args := m.Called(ctx, id, req)
	if def, ok := args.Get(0).(*models.SurveyDefinition); ok {
		return def, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSurveyService) GetStats(ctx context.Context, id string) (*repositories.SurveyResponseStats, error) {
	args := m.Called(ctx, id)
	if stats, ok := args.Get(0).(*repositories.SurveyResponseStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockResponseService struct {
	mock.Mock
	services.ResponseService
}

func (m *MockResponseService) ExportCSV(ctx context.Context, req *services.ListResponsesRequest) (*services.ExportFile, error) {
	args := m.Called(ctx, req)
	if file, ok := args.Get(0).(*services.ExportFile); ok {
		return file, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseService) List(ctx context.Context, req *services.ListResponsesRequest) (*services.ResponseListResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*services.ResponseListResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLinkService struct {
	mock.Mock
	services.LinkService
}

func (m *MockLinkService) Create(ctx context.Context, req *services.LinkRequest) (*services.LinkResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*services.LinkResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStudyService struct {
	mock.Mock
	services.StudyService
}

type fakeServiceManager struct {
	public   *MockPublicService
	survey   *MockSurveyService
	link     *MockLinkService
	response *MockResponseService
	study    *MockStudyService
	pingErr  error
}

func (f *fakeServiceManager) Public() services.PublicSurveyService  { return f.public }
func (f *fakeServiceManager) Survey() services.SurveyService        { return f.survey }
func (f *fakeServiceManager) Link() services.LinkService            { return f.link }
func (f *fakeServiceManager) Response() services.ResponseService    { return f.response }
func (f *fakeServiceManager) Study() services.StudyService          { return f.study }
func (f *fakeServiceManager) Events() services.SurveyEventService   { return nil }
func (f *fakeServiceManager) Ping(ctx context.Context) error        { return f.pingErr }

func newTestRouter() (*gin.Engine, *fakeServiceManager) {
	gin.SetMode(gin.TestMode)
	sm := &fakeServiceManager{
		public:   &MockPublicService{},
		survey:   &MockSurveyService{},
		link:     &MockLinkService{},
		response: &MockResponseService{},
		study:    &MockStudyService{},
	}
	router := gin.New()
	hm := NewHandlerManager(sm, utils.NewZapLogger(zap.NewNop()), StaffAuthConfig{AdminToken: testAdminToken})
	hm.SetupRoutes(router)
	return router, sm
}

func doRequest(router *gin.Engine, method, url string, body interface{}, staff bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if staff {
		req.Header.Set(HeaderAdminToken, testAdminToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ===== TESTS =====

func TestHealthCheck(t *testing.T) {
	router, sm := newTestRouter()

	w := doRequest(router, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	sm.pingErr = errors.New("connection refused")
	w = doRequest(router, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPublicRoutes(t *testing.T) {
	t.Run("bundle", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.public.On("GetBundle", mock.Anything, "bakery-wave-1").Return(&models.PublicSurveyBundle{
			Link: models.LinkInfo{PublicSlug: "bakery-wave-1", Status: models.LinkOpen},
		}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/public/surveys/bakery-wave-1", nil, false)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"public_slug":"bakery-wave-1"`)
	})

	t.Run("unavailable survey", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.public.On("GetBundle", mock.Anything, "closed").Return(nil, services.ErrDefinitionNotFound)

		w := doRequest(router, http.MethodGet, "/api/v1/public/surveys/closed", nil, false)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Survey unavailable", decodeError(t, w).Message)
	})

	t.Run("malformed navigate payload", func(t *testing.T) {
		router, _ := newTestRouter()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/surveys/bakery-wave-1/navigate", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request payload", decodeError(t, w).Message)
	})

	t.Run("submit created", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.public.On("Submit", mock.Anything, "bakery-wave-1", mock.MatchedBy(func(r *services.SubmitRequest) bool {
			return r.SkipContact
		})).Return(&services.SubmitResponse{ResponseID: "resp-1", ItemCount: 3}, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/public/surveys/bakery-wave-1/responses",
			map[string]interface{}{"session": map[string]interface{}{}, "skip_contact": true}, false)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"response_id":"resp-1"`)
	})

	t.Run("submit missing answers", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.public.On("Submit", mock.Anything, "bakery-wave-1", mock.Anything).Return(nil,
			services.NewBusinessRuleError(services.RuleRequiredAnswers, "Please answer all required questions before submitting.",
				map[string]interface{}{"missing": []string{"q-name"}}))

		w := doRequest(router, http.MethodPost, "/api/v1/public/surveys/bakery-wave-1/responses",
			map[string]interface{}{"session": map[string]interface{}{}}, false)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, services.RuleRequiredAnswers, resp.Code)
	})
}

func TestStaffRoutes(t *testing.T) {
	t.Run("require the admin token", func(t *testing.T) {
		router, _ := newTestRouter()
		w := doRequest(router, http.MethodGet, "/api/v1/staff/responses", nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("structure locked", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.survey.On("SaveStructure", mock.Anything, "survey-1", mock.Anything).Return(nil,
			services.NewBusinessRuleError(services.RuleStructureLocked,
				"Survey structure cannot be edited after responses exist.", nil))

		w := doRequest(router, http.MethodPut, "/api/v1/staff/surveys/survey-1/definition",
			map[string]interface{}{"sections": []interface{}{}}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Survey structure cannot be edited after responses exist.", decodeError(t, w).Message)
	})

	t.Run("structure validation", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.survey.On("SaveStructure", mock.Anything, "survey-1", mock.Anything).Return(nil,
			services.ValidationErrors{{Field: "sections[0].title", Message: "Section title is required."}})

		w := doRequest(router, http.MethodPut, "/api/v1/staff/surveys/survey-1/definition",
			map[string]interface{}{"sections": []interface{}{map[string]interface{}{}}}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation failed", decodeError(t, w).Message)
	})

	t.Run("stats of unknown survey", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.survey.On("GetStats", mock.Anything, "ghost").Return(nil, services.ErrSurveyNotFound)

		w := doRequest(router, http.MethodGet, "/api/v1/staff/surveys/ghost/stats", nil, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("link ids from the query", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.link.On("Create", mock.Anything, mock.MatchedBy(func(r *services.LinkRequest) bool {
			return r.SurveyID == "survey-1" && r.CohortID == "cohort-1"
		})).Return(&services.LinkResponse{Link: &models.SurveyLink{PublicSlug: "bakery-wave-1"}}, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/staff/links?survey_id=survey-1&cohort_id=cohort-1", nil, true)
		assert.Equal(t, http.StatusOK, w.Code)
		sm.link.AssertExpectations(t)
	})

	t.Run("responses bind query filters", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.response.On("List", mock.Anything, mock.MatchedBy(func(r *services.ListResponsesRequest) bool {
			return r.Slug != nil && *r.Slug == "bakery-wave-1" && r.Limit == 25 && r.Search == "rye"
		})).Return(&services.ResponseListResponse{Responses: []services.ResponseSummary{}}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/staff/responses?slug=bakery-wave-1&limit=25&search=rye", nil, true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"responses":[]}`, w.Body.String())
	})

	t.Run("csv export download", func(t *testing.T) {
		router, sm := newTestRouter()
		sm.response.On("ExportCSV", mock.Anything, mock.Anything).Return(&services.ExportFile{
			Filename:    "responses.csv",
			ContentType: "text/csv",
			Data:        []byte("response_id\n"),
		}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/staff/responses/export", nil, true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="responses.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "response_id\n", w.Body.String())
	})

	t.Run("unknown export format", func(t *testing.T) {
		router, _ := newTestRouter()
		w := doRequest(router, http.MethodGet, "/api/v1/staff/responses/export?format=pdf", nil, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("preview needs a slug", func(t *testing.T) {
		router, _ := newTestRouter()
		w := doRequest(router, http.MethodGet, "/api/v1/staff/bundles", nil, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
