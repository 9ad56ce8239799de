package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustJay7/collections-tracker/internal/ack"
	"github.com/JustJay7/collections-tracker/internal/analysis"
	"github.com/JustJay7/collections-tracker/internal/cache"
	"github.com/JustJay7/collections-tracker/internal/database"
	"github.com/JustJay7/collections-tracker/internal/ledger"
	"github.com/JustJay7/collections-tracker/internal/mailcache"
	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/internal/staleness"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

type stubCases []model.Case

func (s stubCases) Load(context.Context) ([]model.Case, error) { return s, nil }

type stubMail []model.Message

func (s stubMail) Messages() ([]model.Message, error) { return s, nil }

func (s stubMail) Stats() (*mailcache.Stats, error) {
	return &mailcache.Stats{Status: "populated", Messages: len(s)}, nil
}

func (s stubMail) IsOutbound(m model.Message) bool { return m.From == "billing@clinic.com" }

func setupTestRouter(t *testing.T, messages stubMail) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	db, err := database.Initialize(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	log, err := logger.NewLogger("error", "json")
	require.NoError(t, err)

	cases := stubCases{
		{CaseNumber: "333925", PatientName: "Jane Doe", DateOfInjury: "2023-05-01", LawFirm: "Doe & Partners"},
		{CaseNumber: "400100", PatientName: "Ann Lee", DateOfInjury: "2023-01-10"},
	}

	svc := analysis.NewService(analysis.Deps{
		Cases:      cases,
		Messages:   messages,
		Builder:    ledger.NewBuilder(nil, messages, 1, log),
		Store:      ledger.NewFileStore(filepath.Join(dir, "tracking.json")),
		Classifier: staleness.New(staleness.DefaultThresholds(), clock),
		Acks:       ack.NewService(db, log, clock),
		Cache:      cache.NewCache(10, time.Hour),
		DB:         db,
		Logger:     log,
		Now:        clock,
	})

	router := gin.New()
	SetupRoutes(router, svc, log)
	return router
}

func defaultMessages() stubMail {
	return stubMail{
		{ID: "m1", Date: testNow.AddDate(0, 0, -10).Format(time.RFC3339), From: "billing@clinic.com", Subject: "Jane Doe 05/01/2023 // status"},
		{ID: "m2", Date: testNow.AddDate(0, 0, -5).Format(time.RFC3339), From: "counsel@firm.com", Subject: "RE: Jane Doe 05/01/2023"},
		{ID: "m3", Date: testNow.AddDate(0, 0, -95).Format(time.RFC3339), From: "billing@clinic.com", Subject: "Balance on 400100"},
	}
}

func do(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t, defaultMessages())

	w, response := do(router, "GET", "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, true, response["database"])
}

func TestReadersBeforeAnalysis(t *testing.T) {
	router := setupTestRouter(t, defaultMessages())

	for _, path := range []string{"/api/report", "/api/summary", "/api/firms", "/api/cases/333925"} {
		w, response := do(router, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, false, response["success"], path)
	}
}

func TestRunAnalysisAndReport(t *testing.T) {
	router := setupTestRouter(t, defaultMessages())

	w, response := do(router, "POST", "/api/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := response["data"].(map[string]interface{})
	assert.Equal(t, true, run["success"])
	assert.Equal(t, float64(2), run["cases"])

	w, response = do(router, "GET", "/api/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories := response["data"].(map[string]interface{})["categories"].(map[string]interface{})
	assert.Equal(t, []interface{}{"333925"}, categories["has_responses"])
	assert.Equal(t, []interface{}{"400100"}, categories["critical"])
	counts := response["counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["no_response"])

	w, response = do(router, "GET", "/api/runs?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"], 1)

	w, response = do(router, "GET", "/api/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := response["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["total_cases"])
}

func TestGetCase(t *testing.T) {
	router := setupTestRouter(t, defaultMessages())
	do(router, "POST", "/api/analysis", nil)

	w, response := do(router, "GET", "/api/cases/333925", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["sent_count"])
	assert.Equal(t, float64(1), data["received_count"])
	activities := data["activities"].([]interface{})
	require.Len(t, activities, 2)
	assert.Equal(t, "m2", activities[0].(map[string]interface{})["message_id"])

	w, _ = do(router, "GET", "/api/cases/999999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcknowledgeFlow(t *testing.T) {
	router := setupTestRouter(t, defaultMessages())
	do(router, "POST", "/api/analysis", nil)

	w, _ := do(router, "POST", "/api/cases/400100/ack", map[string]interface{}{
		"reason":      "payment plan",
		"snooze_days": 14,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, response := do(router, "GET", "/api/report", nil)
	categories := response["data"].(map[string]interface{})["categories"].(map[string]interface{})
	assert.Empty(t, categories["critical"])

	_, response = do(router, "GET", "/api/report?include_acknowledged=true", nil)
	categories = response["data"].(map[string]interface{})["categories"].(map[string]interface{})
	assert.Equal(t, []interface{}{"400100"}, categories["critical"])

	_, response = do(router, "GET", "/api/acks", nil)
	assert.Len(t, response["data"], 1)

	w, _ = do(router, "DELETE", "/api/cases/400100/ack", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(router, "DELETE", "/api/cases/400100/ack", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadRequests(t *testing.T) {
	router := setupTestRouter(t, defaultMessages())

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
	}{
		{"negative snooze", "POST", "/api/cases/400100/ack", map[string]interface{}{"snooze_days": -1}, http.StatusBadRequest},
		{"missing body", "POST", "/api/cases/400100/ack", nil, http.StatusBadRequest},
		{"bad limit", "GET", "/api/runs?limit=0", nil, http.StatusBadRequest},
		{"bad flag", "GET", "/api/report?include_acknowledged=maybe", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRunAnalysisEmptyCache(t *testing.T) {
	router := setupTestRouter(t, stubMail{})

	w, response := do(router, "POST", "/api/analysis", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, ledger.ErrEmptyMessageCache.Error(), response["error"])
}

func TestCacheStats(t *testing.T) {
	router := setupTestRouter(t, defaultMessages())

	w, response := do(router, "GET", "/api/cache/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, response["success"])
	email := response["email"].(map[string]interface{})
	assert.Equal(t, float64(3), email["email_count"])
}
