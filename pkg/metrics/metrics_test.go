package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestManagerExposesRecordedMetrics(t *testing.T) {
	m := New("test_ns")
	m.RecordToolCall("get_box_score", "ok", 25*time.Millisecond)
	m.RecordProviderRequest("playergamelog", "ok", 120*time.Millisecond)
	m.RecordProviderRetry()
	m.RecordGameExtracted()
	m.RecordGameError()
	m.RecordShifts(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`test_ns_tool_calls_total{status="ok",tool="get_box_score"} 1`,
		`test_ns_provider_requests_total{endpoint="playergamelog",status="ok"} 1`,
		"test_ns_provider_retries_total 1",
		"test_ns_shift_games_extracted_total 1",
		"test_ns_shift_game_errors_total 1",
		"test_ns_shifts_emitted_total 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two managers must not collide on metric registration.
	a := New("ns")
	b := New("ns")
	a.RecordShifts(1)
	b.RecordShifts(2)

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "ns_shifts_emitted_total 2") {
		t.Fatalf("registry isolation broken:\n%s", rec.Body.String())
	}
}
