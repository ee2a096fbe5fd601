package api

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirocosta/todo-service/internal/model"
)

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		incoming string
		check    func(t *testing.T, got string)
	}{
		"generated when missing": {
			check: func(t *testing.T, got string) {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			},
		},
		"client id is kept": {
			incoming: "abc-123",
			check: func(t *testing.T, got string) {
				assert.Equal(t, "abc-123", got)
			},
		},
		"oversized id is replaced": {
			incoming: strings.Repeat("x", 200),
			check: func(t *testing.T, got string) {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var fromContext string
			h := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromContext = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			tc.check(t, got)
			assert.Equal(t, got, fromContext)
		})
	}
}

func TestRecovererMiddleware(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	h := recovererMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/getTodos", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "recovered from panic")
	assert.Contains(t, logs.String(), "boom")
}

func TestLoggerMiddleware(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	h := requestIDMiddleware(loggerMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := logs.String()
	assert.Contains(t, line, "http request")
	assert.Contains(t, line, "status=418")
	assert.Contains(t, line, "path=/brew")
	assert.Contains(t, line, "request_id=req-1")
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for name, tc := range map[string]struct {
		origins     []string
		method      string
		headers     map[string]string
		wantStatus  int
		wantOrigin  string
		wantMethods string
		wantHeaders string
	}{
		"wildcard echoes origin": {
			origins:    []string{"*"},
			method:     http.MethodGet,
			headers:    map[string]string{"Origin": "https://app.example"},
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://app.example",
		},
		"listed origin": {
			origins:    []string{"https://a.example", "https://b.example"},
			method:     http.MethodGet,
			headers:    map[string]string{"Origin": "https://b.example"},
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://b.example",
		},
		"unlisted origin gets no headers": {
			origins:    []string{"https://a.example"},
			method:     http.MethodGet,
			headers:    map[string]string{"Origin": "https://evil.example"},
			wantStatus: http.StatusNoContent,
		},
		"no origin": {
			origins:    []string{"*"},
			method:     http.MethodGet,
			wantStatus: http.StatusNoContent,
		},
		"preflight is answered": {
			origins: []string{"*"},
			method:  http.MethodOptions,
			headers: map[string]string{
				"Origin":                         "https://app.example",
				"Access-Control-Request-Method":  "put",
				"Access-Control-Request-Headers": "content-type, x-request-id",
			},
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://app.example",
			wantMethods: "PUT",
			wantHeaders: "content-type, x-request-id",
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, "/updateTodo/1", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			corsMiddleware(tc.origins)(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.wantMethods, rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, tc.wantHeaders, rec.Header().Get("Access-Control-Allow-Headers"))
			if tc.wantOrigin != "" {
				assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestMetricsRecordRoutePattern(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	r := NewRouter(NewNoopTodoService(), Options{Logger: discardLogger(), Metrics: metrics})

	for _, path := range []string{"/getTodos/1", "/getTodos/2", "/getTodos/abc", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "GET /getTodos/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "GET /getTodos/{id}", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.HTTPRequestDuration))
}

func TestMetricsCountPanicsAsServerErrors(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	r := NewRouter(panickingService{NewNoopTodoService()}, Options{Logger: discardLogger(), Metrics: metrics})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/getTodos", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "GET /getTodos", "500")))
}

type panickingService struct {
	*NoopTodoService
}

func (panickingService) ListTodos(ctx context.Context) ([]model.Todo, error) {
	panic("store exploded")
}
