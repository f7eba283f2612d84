package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/config"
	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/report"
	"github.com/cmlabs-hris/punch-ledger-go/internal/repository/catalog"
	"github.com/cmlabs-hris/punch-ledger-go/internal/service/extractor"
	ledgerService "github.com/cmlabs-hris/punch-ledger-go/internal/service/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestPunches   = "15/01/2024 08:25:00 SA\n15/01/2024 05:30:00 CH\n"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*chi.Mux, string) {
	t.Helper()

	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	svc := ledgerService.NewLedgerService(
		catalog.NewDefaultShiftRepository(),
		extractor.New(time.UTC),
		ledger.DefaultQuotaPolicy(),
		ledger.Shift1,
		report.LangEN,
		366,
	)
	router := NewRouter(jwtService, NewLedgerHandler(svc), config.AppConfig{
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	token, _, err := jwtService.GenerateAccessToken("clerk-01")
	require.NoError(t, err)

	return router, token
}

func do(t *testing.T, router http.Handler, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRouter_Heartbeat(t *testing.T) {
	router, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	router, _ := setupRouter(t)

	rec, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	_, refresh, err := other.JWTAuth().Encode(map[string]interface{}{
		"clerk_id": "clerk-01",
		"type":     "refresh",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	rec, env := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil), refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestLedgerHandler_ListShifts(t *testing.T) {
	router, token := setupRouter(t)

	rec, env := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil), token)

	require.Equal(t, http.StatusOK, rec.Code)
	var shifts []ledger.ShiftResponse
	require.NoError(t, json.Unmarshal(env.Data, &shifts))
	require.Len(t, shifts, 3)
	assert.Equal(t, "SHIFT_1", shifts[0].ID)
}

func TestLedgerHandler_Analyze(t *testing.T) {
	router, token := setupRouter(t)

	rec, env := do(t, router, jsonRequest(t, http.MethodPost, "/api/v1/ledger/analyze", map[string]interface{}{
		"text": handlerTestPunches,
	}), token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var result ledger.AnalyzeResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Records, 1)

	day := result.Records[0]
	assert.Equal(t, "2024-01-15", day.Date)
	assert.Equal(t, []string{"LATE", "EARLY_ALLOWED"}, day.Status)
	assert.Equal(t, 25, day.LateMinutes)
	assert.Equal(t, 30, day.EarlyMinutes)
	assert.Equal(t, 1, result.Summary.TotalLate)
}

func TestLedgerHandler_AnalyzeErrors(t *testing.T) {
	router, token := setupRouter(t)

	tests := []struct {
		name     string
		body     interface{}
		raw      string
		wantCode int
		wantErr  string
	}{
		{name: "malformed json", raw: "{", wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "missing text", body: map[string]interface{}{}, wantCode: http.StatusUnprocessableEntity, wantErr: "VALIDATION_ERROR"},
		{name: "unknown shift", body: map[string]interface{}{"text": handlerTestPunches, "shift_id": "NIGHT"}, wantCode: http.StatusNotFound, wantErr: "NOT_FOUND"},
		{name: "window too long", body: map[string]interface{}{"start_date": "0001-01-01", "end_date": "9999-12-31"}, wantCode: http.StatusUnprocessableEntity, wantErr: "VALIDATION_ERROR"},
		{name: "bad custom shift", body: map[string]interface{}{"text": handlerTestPunches, "shift": map[string]interface{}{"start_time": "8am", "end_time": "17:00"}}, wantCode: http.StatusUnprocessableEntity, wantErr: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.raw != "" {
				req = httptest.NewRequest(http.MethodPost, "/api/v1/ledger/analyze", bytes.NewBufferString(tt.raw))
			} else {
				req = jsonRequest(t, http.MethodPost, "/api/v1/ledger/analyze", tt.body)
			}

			rec, env := do(t, router, req, token)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestLedgerHandler_Import(t *testing.T) {
	router, token := setupRouter(t)

	rec, env := do(t, router, uploadRequest(t, "terminal.txt", []byte(handlerTestPunches), map[string]string{
		"shift_id": "SHIFT_2",
		"end_date": "2024-01-16",
	}), token)

	require.Equal(t, http.StatusOK, rec.Code)
	var result ledger.AnalyzeResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "SHIFT_2", result.Shift.ID)
	require.Len(t, result.Records, 2)
	assert.Equal(t, []string{"ABSENT"}, result.Records[1].Status)
}

func TestLedgerHandler_ImportRejectsUnsupportedFile(t *testing.T) {
	router, token := setupRouter(t)

	rec, env := do(t, router, uploadRequest(t, "terminal.pdf", []byte(handlerTestPunches), nil), token)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", env.Error.Code)
}

func TestLedgerHandler_ImportEmptyFile(t *testing.T) {
	router, token := setupRouter(t)

	rec, _ := do(t, router, uploadRequest(t, "terminal.log", []byte("   \n"), nil), token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerHandler_Export(t *testing.T) {
	router, token := setupRouter(t)

	rec, _ := do(t, router, jsonRequest(t, http.MethodPost, "/api/v1/ledger/export", map[string]interface{}{
		"text": handlerTestPunches,
	}), token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-ledger.xlsx")
	// xlsx is a zip container
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}
