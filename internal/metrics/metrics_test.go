package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", 200, time.Millisecond)
	m.StandingsFetch(time.Millisecond, nil)
	m.Computed(time.Now(), 1)
	m.CacheHit()
	m.CacheMiss()
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New(nil)
	m.ObserveRequest("/api/v1/pool", 200, 5*time.Millisecond)
	m.StandingsFetch(time.Second, errors.New("down"))
	m.StandingsFetch(time.Second, nil)
	m.Computed(time.Unix(1700000000, 0), 2)
	m.CacheHit()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`overs_pool_http_requests_total{route="/api/v1/pool",status="200"} 1`,
		`overs_pool_standings_fetches_total{result="error"} 1`,
		`overs_pool_standings_fetches_total{result="ok"} 1`,
		`overs_pool_computations_total 1`,
		`overs_pool_unmatched_teams 2`,
		`overs_pool_cache_hits_total 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	New(nil)
	New(nil)
}
