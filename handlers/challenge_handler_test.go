package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestStartChallengeRequiresOSHeader(t *testing.T) {
	h := NewChallengeHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenge", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.StartChallenge(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OS header is required", decodeError(t, rec))
}

func TestStartChallengeRequiresAuth(t *testing.T) {
	h := NewChallengeHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenge", strings.NewReader(`{}`))
	req.Header.Set("OS", "iOS")
	rec := httptest.NewRecorder()

	h.StartChallenge(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authenticated", decodeError(t, rec))
}

func TestGetChallengeRequiresAuth(t *testing.T) {
	h := NewChallengeHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/challenge", nil)
	rec := httptest.NewRecorder()

	h.GetChallenge(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetHomeRequiresAuth(t *testing.T) {
	h := NewChallengeHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/challenge/home", nil)
	rec := httptest.NewRecorder()

	h.GetHome(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateTodayStatusRequiresAuth(t *testing.T) {
	h := NewChallengeHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/challenge/today", strings.NewReader(`{"status":"SUCCESS"}`))
	rec := httptest.NewRecorder()

	h.UpdateTodayStatus(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddAppsRequiresOSHeader(t *testing.T) {
	h := NewChallengeHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenge/app", strings.NewReader(`[]`))
	rec := httptest.NewRecorder()

	h.AddApps(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OS header is required", decodeError(t, rec))
}

func TestRemoveAppRequiresOSHeader(t *testing.T) {
	h := NewChallengeHandler(nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/challenge/app", strings.NewReader(`{"appCode":"X"}`))
	rec := httptest.NewRecorder()

	h.RemoveApp(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
