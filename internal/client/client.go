package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/session"
	"github.com/SAP-F-2025/survey-service/internal/submission"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the survey service.
type APIError struct {
	StatusCode int
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("survey service returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("survey service returned %d: %s", e.StatusCode, e.Message)
}

// SubmitResult is the service's answer to a successful submission.
type SubmitResult struct {
	ResponseID string                     `json:"response_id"`
	ItemCount  int                        `json:"item_count"`
	Skipped    []submission.SkippedAnswer `json:"skipped,omitempty"`
}

// PublicClient talks to the participant surface of the survey service.
type PublicClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPublicClient(baseURL string, logger *zap.Logger) *PublicClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// GetBundle fetches the definition behind slug.
func (c *PublicClient) GetBundle(ctx context.Context, slug string) (*models.PublicSurveyBundle, error) {
	var bundle models.PublicSurveyBundle
	if err := c.do(ctx, http.MethodGet, c.surveyURL(slug), nil, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Submit posts the finished session as a response.
func (c *PublicClient) Submit(ctx context.Context, slug string, sess *session.Session, skipContact bool) (*SubmitResult, error) {
	payload := map[string]interface{}{
		"session":      sess,
		"skip_contact": skipContact,
	}
	var result SubmitResult
	if err := c.do(ctx, http.MethodPost, c.surveyURL(slug)+"/responses", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *PublicClient) surveyURL(slug string) string {
	return c.baseURL + "/api/v1/public/surveys/" + url.PathEscape(slug)
}

func (c *PublicClient) do(ctx context.Context, method, target string, body interface{}, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to survey service failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Survey service call",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Message string      `json:"message"`
			Code    string      `json:"code"`
			Details interface{} `json:"details"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Code = envelope.Code
			if details, ok := envelope.Details.(map[string]interface{}); ok {
				apiErr.Details = details
			}
		}
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
