package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/api/test", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(SurfaceAdmin, "GET", "/api/test", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	durationCount := testutil.CollectAndCount(httpRequestDuration)
	if durationCount == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMetricsMiddleware_DifferentStatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/notfound", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path           string
		expectedStatus string
	}{
		{"/ok", "200"},
		{"/notfound", "404"},
		{"/error", "500"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(SurfaceAdmin, "GET", tc.path, tc.expectedStatus))
			if val < 1 {
				t.Errorf("expected requests_total for %s with status %s >= 1, got %f", tc.path, tc.expectedStatus, val)
			}
		})
	}
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/replay/{id}/*", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.Post("/sessions/{id}/items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	for _, tc := range []struct {
		method, target, surface, pattern, status string
	}{
		{"GET", "/replay/abc/search?for=cell", SurfaceReplay, "/replay/{id}/*", "200"},
		{"GET", "/replay/def/articles/00001", SurfaceReplay, "/replay/{id}/*", "200"},
		{"POST", "/sessions/abc/items", SurfaceAdmin, "/sessions/{id}/items", "201"},
	} {
		t.Run(tc.target, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.surface, tc.method, tc.pattern, tc.status))
			if val < 1 {
				t.Errorf("expected requests_total{path=%q} >= 1, got %f", tc.pattern, val)
			}
		})
	}

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(SurfaceReplay, "GET", "/replay/abc/search", "200")); got != 0 {
		t.Errorf("raw paths must not become labels, got %f", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/api/v1/users", "/api/v1/users"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		result := normalizePath(tc.input)
		if result != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestMetricsMiddleware_ReplayMissOnReplaySurface(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/replay/{id}/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(SurfaceReplay, "GET", "/replay/{id}/*", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/replay/s1/search?for=dog", http.NoBody))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(SurfaceReplay, "GET", "/replay/{id}/*", "404"))
	if after-before != 1 {
		t.Errorf("replay 404 count delta = %f, want 1", after-before)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(SurfaceAdmin, "GET", "/replay/{id}/*", "404")); got != 0 {
		t.Errorf("replay traffic counted as admin: %f", got)
	}
}

func TestSurface(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"/replay/{id}/*", SurfaceReplay},
		{"/sessions/{id}/items", SurfaceAdmin},
		{"/sessions/", SurfaceAdmin},
		{"/health", SurfaceOps},
		{"/metrics", SurfaceOps},
		{"unknown", SurfaceOps},
	}
	for _, tc := range tests {
		if got := Surface(tc.pattern); got != tc.want {
			t.Errorf("Surface(%q) = %q, want %q", tc.pattern, got, tc.want)
		}
	}
}

func TestFixtureMetrics_ExposedViaPromhttp(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(FixturesRegisteredTotal, FixtureResolveTotal)

	FixturesRegisteredTotal.WithLabelValues("ok").Add(3)
	FixtureResolveTotal.WithLabelValues("miss").Inc()

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	for _, want := range []string{
		`searchstub_fixtures_registered_total{status="ok"}`,
		`searchstub_fixture_resolve_total{result="miss"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestRegisterFixtureMetrics_Idempotent(t *testing.T) {
	RegisterFixtureMetrics()
	RegisterFixtureMetrics()
}
