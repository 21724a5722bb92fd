package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicClient_GetBundle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/public/surveys/bakery-wave-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"study":{"id":"study-1","name":"Local Food"},"link":{"public_slug":"bakery-wave-1","status":"open"},"survey":{"id":"survey-1","name":"Bakery"},"sections":[]}`))
	}))
	defer server.Close()

	bundle, err := NewPublicClient(server.URL+"/", nil).GetBundle(context.Background(), "bakery-wave-1")
	require.NoError(t, err)
	assert.Equal(t, "Local Food", bundle.Study.Name)
	assert.Equal(t, "Bakery", bundle.Survey.Name)
	assert.Equal(t, "bakery-wave-1", bundle.Link.PublicSlug)
}

func TestPublicClient_Submit(t *testing.T) {
	var received struct {
		Session     session.Session `json:"session"`
		SkipContact bool            `json:"skip_contact"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/public/surveys/bakery-wave-1/responses", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"response_id":"resp-1","item_count":2,"skipped":[{"key":"broken","reason":"malformed answer key"}]}`))
	}))
	defer server.Close()

	sess := session.New(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	sess.Answers[session.AnswerKey("q-name", 0)] = session.AnswerValue{Value: session.Text("Ada")}

	result, err := NewPublicClient(server.URL, nil).Submit(context.Background(), "bakery-wave-1", sess, true)
	require.NoError(t, err)
	assert.Equal(t, "resp-1", result.ResponseID)
	assert.Equal(t, 2, result.ItemCount)
	require.Len(t, result.Skipped, 1)
	assert.True(t, received.SkipContact)
	assert.Equal(t, "Ada", received.Session.Answers[session.AnswerKey("q-name", 0)].Value.String())
}

func TestPublicClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Please answer all required questions before submitting.","code":"required_answers","details":{"missing":["q-name"]}}`))
	}))
	defer server.Close()

	_, err := NewPublicClient(server.URL, nil).Submit(context.Background(), "bakery-wave-1", session.New(time.Now()), false)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "required_answers", apiErr.Code)
	assert.Contains(t, apiErr.Details, "missing")
}

func TestPublicClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewPublicClient(server.URL, nil).GetBundle(context.Background(), "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
