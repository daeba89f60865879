// api_test.go: Package api provides tests for API v1 endpoints.

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/tphakala/habitwheel/internal/errors"
)

// notFoundErr builds the categorized error the datastore returns for a
// missing row.
func notFoundErr(resource string) error {
	return errors.Newf("%s not found", resource).
		Category(errors.CategoryNotFound).
		Build()
}

func TestHealthCheck(t *testing.T) {
	e, _, controller := setupTestEnvironment(t)

	controller.Settings.Version = "1.2.3"
	controller.Settings.BuildDate = "2026-01-15"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/health")

	if assert.NoError(t, controller.HealthCheck(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "1.2.3", response["version"])
		assert.Equal(t, "2026-01-15", response["build_date"])

		if timestamp, exists := response["timestamp"]; exists {
			_, err := time.Parse(time.RFC3339, timestamp.(string))
			assert.NoError(t, err, "Timestamp should be in RFC3339 format")
		}
	}
}

func TestReadyCheck(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)
	mockDS.On("Ping").Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ready", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/ready")

	if assert.NoError(t, controller.ReadyCheck(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "ready", response["status"])
		assert.Equal(t, "connected", response["database_status"])
	}
	mockDS.AssertExpectations(t)
}

func TestReadyCheckDatabaseDown(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)
	mockDS.On("Ping").Return(errors.NewStd("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ready", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/ready")

	if assert.NoError(t, controller.ReadyCheck(c)) {
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var response map[string]any
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		assert.Equal(t, "disconnected", response["database_status"])
	}
	mockDS.AssertExpectations(t)
}

func TestCategoryStatusMapping(t *testing.T) {
	cases := []struct {
		name      string
		category  errors.ErrorCategory
		wantCode  int
		wantLabel string
	}{
		{"validation", errors.CategoryValidation, http.StatusBadRequest, "validation"},
		{"not found", errors.CategoryNotFound, http.StatusNotFound, "not_found"},
		{"conflict", errors.CategoryConflict, http.StatusConflict, "conflict"},
		{"database", errors.CategoryDatabase, http.StatusInternalServerError, "database"},
		{"generic", errors.CategoryGeneric, http.StatusInternalServerError, "system"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := errors.Newf("boom").Category(tc.category).Build()
			code, label := categoryStatus(err)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantLabel, label)
		})
	}
}

func TestHandleErrorResponseEnvelope(t *testing.T) {
	e, _, controller := setupTestEnvironment(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/people/99", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/people/:id")

	err := controller.HandleError(c, errors.NewStd("boom"), "Something failed", http.StatusInternalServerError)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "boom", resp.Error)
	assert.Equal(t, "Something failed", resp.Message)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Len(t, resp.CorrelationID, 8)
}

// newJSONContext builds an echo context carrying a JSON body.
func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
