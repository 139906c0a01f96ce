package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/andyballingall/jerify"
	"github.com/andyballingall/jerify/internal/metrics"
)

func newTestRouter(t *testing.T, schemaDir string) (http.Handler, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	j, err := jerify.New(schemaDir,
		jerify.WithLogger(slog.New(slog.DiscardHandler)),
		jerify.WithRecorder(m))
	require.NoError(t, err)
	return NewRouter(j, m.Handler()), m
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func TestRouter(t *testing.T) {
	t.Parallel()
	h, _ := newTestRouter(t, filepath.Join("..", "..", "testdata", "schemas"))

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int
		check    func(t *testing.T, body string)
	}{
		{
			name: "liveness", method: http.MethodGet, target: "/v1/liveness", wantCode: http.StatusOK,
			check: func(t *testing.T, body string) { assert.Equal(t, "ok", body) },
		},
		{
			name: "readiness", method: http.MethodGet, target: "/v1/readiness", wantCode: http.StatusOK,
			check: func(t *testing.T, body string) { assert.Equal(t, "ready", body) },
		},
		{
			name: "list schemas", method: http.MethodGet, target: "/v1/schemas", wantCode: http.StatusOK,
			check: func(t *testing.T, body string) { assert.JSONEq(t, `{"schemas":["greeting","test"]}`, body) },
		},
		{
			name: "example endpoint", method: http.MethodPost, target: "/test", body: `{"target": "world"}`,
			wantCode: http.StatusOK,
			check:    func(t *testing.T, body string) { assert.Equal(t, `{"target":"world"}`, body) },
		},
		{
			name: "example endpoint type mismatch", method: http.MethodPost, target: "/test", body: `{"target": 5}`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, body string) {
				assert.Equal(t, "Bad Request", gjson.Get(body, "errors.0.status").String())
				assert.Contains(t, gjson.Get(body, "errors.0.detail").String(), "want string")
			},
		},
		{
			name: "example endpoint invalid json", method: http.MethodPost, target: "/test", body: `oops`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, body string) {
				assert.Equal(t, "invalid json", gjson.Get(body, "errors.0.detail").String())
			},
		},
		{
			name: "validate valid", method: http.MethodPost, target: "/v1/schemas/greeting/validate",
			body: `{"message": "hi"}`, wantCode: http.StatusOK,
			check: func(t *testing.T, body string) { assert.JSONEq(t, `{"valid":true}`, body) },
		},
		{
			name: "validate invalid", method: http.MethodPost, target: "/v1/schemas/greeting/validate",
			body: `{"message": "hi", "extra": true}`, wantCode: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body string) {
				assert.False(t, gjson.Get(body, "valid").Bool())
				assert.Empty(t, gjson.Get(body, "location").String())
				assert.Contains(t, gjson.Get(body, "message").String(), "additional properties 'extra' not allowed")
			},
		},
		{
			name: "validate unknown schema", method: http.MethodPost, target: "/v1/schemas/nope/validate",
			body: `{}`, wantCode: http.StatusNotFound,
			check: func(t *testing.T, body string) {
				assert.Equal(t, "Unknown schema: nope", gjson.Get(body, "errors.0.detail").String())
			},
		},
		{
			name: "validate invalid json", method: http.MethodPost, target: "/v1/schemas/greeting/validate",
			body: `{`, wantCode: http.StatusBadRequest,
		},
		{
			name: "not found", method: http.MethodGet, target: "/nowhere", wantCode: http.StatusNotFound,
			check: func(t *testing.T, body string) {
				assert.Equal(t, int64(404), gjson.Get(body, "errors.0.code").Int())
				assert.Equal(t, jerify.DetailNotFound, gjson.Get(body, "errors.0.detail").String())
			},
		},
		{
			name: "method not allowed", method: http.MethodGet, target: "/test", wantCode: http.StatusMethodNotAllowed,
			check: func(t *testing.T, body string) {
				assert.Equal(t, "Method Not Allowed", gjson.Get(body, "errors.0.status").String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, rec.Body.String())
			}
		})
	}
}

func TestRouter_NoSchemas(t *testing.T) {
	t.Parallel()
	h, _ := newTestRouter(t, t.TempDir())

	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/v1/readiness", "").Code)

	rec := do(t, h, http.MethodPost, "/test", `{"target": "world"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, jerify.DetailInternal, gjson.Get(rec.Body.String(), "errors.0.detail").String())
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	h, _ := newTestRouter(t, filepath.Join("..", "..", "testdata", "schemas"))

	do(t, h, http.MethodPost, "/test", `{"target": "world"}`)
	do(t, h, http.MethodPost, "/test", `{"target": 5}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `jerify_requests_accepted_total{schema="test"} 1`)
	assert.Contains(t, body, `jerify_requests_rejected_total{reason="schema_violation",schema="test"} 1`)
}
