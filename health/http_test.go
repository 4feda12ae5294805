package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "OK")
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantCode int
		wantBody string
	}{
		{"healthy", Healthy("warm"), http.StatusOK, "OK"},
		{"degraded still ready", Degraded("evicting"), http.StatusOK, "DEGRADED"},
		{"unhealthy", Unhealthy("down", ErrCheckFailed), http.StatusServiceUnavailable, "UNHEALTHY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.Register("cache", staticChecker("cache", tt.result))

			rec := httptest.NewRecorder()
			ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register("cache", staticChecker("cache", Healthy("warm").WithDetails(map[string]any{"layers": 2})))
	agg.Register("redis", staticChecker("redis", Unhealthy("connection refused", ErrCheckFailed)))

	rec := httptest.NewRecorder()
	DetailedHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Status != "unhealthy" {
		t.Errorf("body.Status = %q, want %q", body.Status, "unhealthy")
	}
	if body.Checks["cache"].Status != "healthy" {
		t.Errorf("cache check = %+v, want healthy", body.Checks["cache"])
	}
	if body.Checks["redis"].Error == "" {
		t.Error("redis check missing error string")
	}
}

func TestSingleCheckHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register("memory", staticChecker("memory", Healthy("usage normal")))

	rec := httptest.NewRecorder()
	SingleCheckHandler(agg, "memory")(rec, httptest.NewRequest(http.MethodGet, "/health/memory", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("known checker status = %d, want %d", rec.Code, http.StatusOK)
	}

	var check CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if check.Status != "healthy" || check.Message != "usage normal" {
		t.Errorf("check = %+v", check)
	}

	rec = httptest.NewRecorder()
	SingleCheckHandler(agg, "nope")(rec, httptest.NewRequest(http.MethodGet, "/health/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown checker status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRegisterHandlers(t *testing.T) {
	agg := NewAggregator()
	agg.Register("cache", NewCheckerFunc("cache", func(ctx context.Context) Result {
		return Healthy("warm")
	}))

	mux := http.NewServeMux()
	RegisterHandlers(mux, agg)

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
