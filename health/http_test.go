package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonwraymond/upcall/call"
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
		source   fakeSource
		wantCode int
		wantBody string
	}{
		{
			"all closed is ready",
			fakeSource{"quick": {State: call.StateClosed}},
			http.StatusOK, "OK",
		},
		{
			"half-open still serves",
			fakeSource{"quick": {State: call.StateHalfOpen}},
			http.StatusOK, "DEGRADED",
		},
		{
			"open breaker is not ready",
			fakeSource{"quick": {State: call.StateOpen, Failures: 5}},
			http.StatusServiceUnavailable, "UNHEALTHY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ReadinessHandler(NewReporter(tt.source))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

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
	source := fakeSource{
		"quick":              {State: call.StateClosed},
		"content-generation": {State: call.StateOpen, Failures: 5},
	}

	rec := httptest.NewRecorder()
	DetailedHandler(NewReporter(source))(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy", resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("len(Checks) = %d, want 2", len(resp.Checks))
	}
	if resp.Checks["quick"].Status != "healthy" {
		t.Errorf("quick status = %q, want healthy", resp.Checks["quick"].Status)
	}
	if resp.Checks["content-generation"].Status != "unhealthy" {
		t.Errorf("content-generation status = %q, want unhealthy", resp.Checks["content-generation"].Status)
	}
	if resp.Timestamp == "" {
		t.Error("Timestamp is empty")
	}
}

func TestSingleCheckHandler(t *testing.T) {
	rep := NewReporter(fakeSource{"quick": {State: call.StateOpen, Failures: 3}})

	rec := httptest.NewRecorder()
	SingleCheckHandler(rep, "quick")(rec, httptest.NewRequest(http.MethodGet, "/health/quick", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var resp CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy", resp.Status)
	}

	rec = httptest.NewRecorder()
	SingleCheckHandler(rep, "missing")(rec, httptest.NewRequest(http.MethodGet, "/health/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown check = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux, NewReporter(fakeSource{"quick": {State: call.StateClosed}}))

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
