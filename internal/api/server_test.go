package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/albapepper/overs-pool/internal/api/respond"
	"github.com/albapepper/overs-pool/internal/cache"
	"github.com/albapepper/overs-pool/internal/config"
	"github.com/albapepper/overs-pool/internal/metrics"
	"github.com/albapepper/overs-pool/internal/picks"
	"github.com/albapepper/overs-pool/internal/pool"
	"github.com/albapepper/overs-pool/internal/provider"
	"github.com/albapepper/overs-pool/internal/provider/espn"
	"github.com/albapepper/overs-pool/internal/tracker"
)

type stubStandings struct {
	standings []provider.Standing
	err       error
}

func (s stubStandings) FetchStandings(ctx context.Context) ([]provider.Standing, error) {
	return s.standings, s.err
}

// ctxStandings fails when its context is already done, like a real HTTP
// fetch would.
type ctxStandings struct{}

func (ctxStandings) FetchStandings(ctx context.Context) ([]provider.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sampleStandings(), nil
}

type stubPicks struct {
	book picks.Book
	err  error
}

func (s stubPicks) Load(ctx context.Context) (picks.Book, error) {
	return s.book, s.err
}

func sampleStandings() []provider.Standing {
	return []provider.Standing{
		{FullName: "Boston Celtics", Abbreviation: "BOS", Wins: 50, Losses: 20},
		{FullName: "Washington Wizards", Abbreviation: "WSH", Wins: 10, Losses: 60},
		{FullName: "Los Angeles Clippers", Abbreviation: "LAC", Wins: 35, Losses: 35},
	}
}

func sampleBook() picks.Book {
	return picks.Book{
		Season:       2025,
		Participants: []string{"Kevin", "Dave"},
		Predictions: []pool.Prediction{
			// projects 58.6 against 45.5: OVER, far
			{Team: "Boston Celtics", Line: 45.5, Picks: map[string]pool.Pick{"Kevin": pool.Over, "Dave": pool.Under}},
			// projects 41.0 against 41: UNDER, close
			{Team: "LA Clippers", Line: 41, Picks: map[string]pool.Pick{"Kevin": pool.Over, "Dave": pool.Under}},
			// projects 11.7 against 20.5: UNDER
			{Team: "Washington Wizards", Line: 20.5, Picks: map[string]pool.Pick{"Kevin": pool.Over, "Dave": pool.Under}},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		League:           "NBA",
		Season:           2025,
		CORSAllowOrigins: []string{"*"},
		PoolCacheTTL:     time.Hour,
	}
}

func newTestServer(t *testing.T, standings tracker.StandingsSource, source picks.Source) *httptest.Server {
	t.Helper()
	c := cache.New(true)
	m := metrics.New(nil)
	c.OnHit, c.OnMiss = m.CacheHit, m.CacheMiss
	tr := tracker.New(tracker.Options{
		Standings: standings,
		Picks:     source,
		Season:    2025,
		Cache:     c,
		CacheTTL:  time.Hour,
		Metrics:   m,
		Now:       func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) },
	})
	srv := httptest.NewServer(NewRouter(Deps{Tracker: tr, Cache: c, Metrics: m}, testConfig()))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, header http.Header) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e respond.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return string(e.Error.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, stubStandings{standings: sampleStandings()}, stubPicks{book: sampleBook()})

	for _, path := range []string{"/", "/health", "/health/db", "/health/cache"} {
		resp, body := get(t, srv, path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status %d, body %s", path, resp.StatusCode, body)
		}
		if resp.Header.Get("X-Process-Time") == "" {
			t.Errorf("GET %s: missing X-Process-Time", path)
		}
	}

	_, body := get(t, srv, "/health/db", nil)
	if !strings.Contains(string(body), "not configured") {
		t.Errorf("/health/db without a database = %s", body)
	}
}

func TestGetPool(t *testing.T) {
	srv := newTestServer(t, stubStandings{standings: sampleStandings()}, stubPicks{book: sampleBook()})

	resp, body := get(t, srv, "/api/v1/pool", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, body %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("first request X-Cache = %q, want MISS", resp.Header.Get("X-Cache"))
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	var res pool.Result
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Teams) != 3 || len(res.Leaderboard) != 2 {
		t.Fatalf("got %d teams, %d leaderboard rows", len(res.Teams), len(res.Leaderboard))
	}
	if res.Leaderboard[0].Player != "Dave" || res.Leaderboard[0].Correct != 2 {
		t.Errorf("leader = %+v, want Dave with 2", res.Leaderboard[0])
	}
	if res.Teams[1].Abbreviation != "LAC" {
		t.Errorf("Clippers alias not applied: %+v", res.Teams[1])
	}

	resp, _ = get(t, srv, "/api/v1/pool", nil)
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache = %q, want HIT", resp.Header.Get("X-Cache"))
	}

	resp, body = get(t, srv, "/api/v1/pool", http.Header{"If-None-Match": {etag}})
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("conditional request status %d, want 304", resp.StatusCode)
	}
	if len(body) != 0 {
		t.Errorf("304 carried a body: %s", body)
	}
}

func TestGetLeaderboard(t *testing.T) {
	srv := newTestServer(t, stubStandings{standings: sampleStandings()}, stubPicks{book: sampleBook()})

	resp, body := get(t, srv, "/api/v1/pool/leaderboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, body %s", resp.StatusCode, body)
	}
	var lb struct {
		UpdatedAt   time.Time             `json:"updatedAt"`
		Leaderboard []pool.LeaderboardRow `json:"leaderboard"`
	}
	if err := json.Unmarshal(body, &lb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"Dave", "Kevin"}
	if len(lb.Leaderboard) != len(want) {
		t.Fatalf("got %d rows", len(lb.Leaderboard))
	}
	for i, w := range want {
		if lb.Leaderboard[i].Player != w {
			t.Errorf("row %d = %s, want %s", i, lb.Leaderboard[i].Player, w)
		}
	}
	if !lb.UpdatedAt.Equal(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("updatedAt = %v", lb.UpdatedAt)
	}
}

func TestGetTeams(t *testing.T) {
	srv := newTestServer(t, stubStandings{standings: sampleStandings()}, stubPicks{book: sampleBook()})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Boston Celtics", "LA Clippers", "Washington Wizards"}},
		{"?sort=input", []string{"Boston Celtics", "LA Clippers", "Washington Wizards"}},
		{"?sort=close", []string{"LA Clippers", "Washington Wizards", "Boston Celtics"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, srv, "/api/v1/pool/teams"+tt.query, nil)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status %d, body %s", resp.StatusCode, body)
			}
			var out struct {
				Teams []pool.TeamResult `json:"teams"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(out.Teams) != len(tt.want) {
				t.Fatalf("got %d teams", len(out.Teams))
			}
			for i, w := range tt.want {
				if out.Teams[i].Team != w {
					t.Errorf("team %d = %s, want %s", i, out.Teams[i].Team, w)
				}
			}
		})
	}

	resp, body := get(t, srv, "/api/v1/pool/teams?sort=alpha", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad sort status %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "INVALID_SORT" {
		t.Errorf("bad sort code %s", code)
	}
}

func TestGetTeam(t *testing.T) {
	srv := newTestServer(t, stubStandings{standings: sampleStandings()}, stubPicks{book: sampleBook()})

	for _, name := range []string{"boston%20celtics", "BOSTON%20CELTICS", "bos"} {
		resp, body := get(t, srv, "/api/v1/pool/teams/"+name, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d, body %s", name, resp.StatusCode, body)
		}
		var team pool.TeamResult
		if err := json.Unmarshal(body, &team); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if team.Team != "Boston Celtics" || team.ProjectedOutcome != pool.OutcomeOver {
			t.Errorf("GET %s = %+v", name, team)
		}
	}

	resp, body := get(t, srv, "/api/v1/pool/teams/Seattle", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown team status %d", resp.StatusCode)
	}
	if code := errorCode(t, body); code != "NOT_FOUND" {
		t.Errorf("unknown team code %s", code)
	}
}

func TestGetStandingsAndPicks(t *testing.T) {
	srv := newTestServer(t, stubStandings{standings: sampleStandings()}, stubPicks{book: sampleBook()})

	resp, body := get(t, srv, "/api/v1/standings", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("standings status %d, body %s", resp.StatusCode, body)
	}
	var st struct {
		Count     int                 `json:"count"`
		Standings []provider.Standing `json:"standings"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("decode standings: %v", err)
	}
	if st.Count != 3 || st.Standings[0].Abbreviation != "BOS" {
		t.Errorf("standings = %+v", st)
	}

	resp, body = get(t, srv, "/api/v1/picks", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("picks status %d, body %s", resp.StatusCode, body)
	}
	var book picks.Book
	if err := json.Unmarshal(body, &book); err != nil {
		t.Fatalf("decode picks: %v", err)
	}
	if len(book.Predictions) != 3 || book.Predictions[1].Picks["Dave"] != pool.Under {
		t.Errorf("picks = %+v", book)
	}
}

func TestErrorMapping(t *testing.T) {
	upstream := fmt.Errorf("%w: status 503", espn.ErrUpstream)

	tests := []struct {
		name       string
		standings  stubStandings
		picks      stubPicks
		path       string
		wantStatus int
		wantCode   string
	}{
		{"upstream pool", stubStandings{err: upstream}, stubPicks{book: sampleBook()}, "/api/v1/pool", http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"upstream teams", stubStandings{err: upstream}, stubPicks{book: sampleBook()}, "/api/v1/pool/teams", http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"upstream standings", stubStandings{err: upstream}, stubPicks{book: sampleBook()}, "/api/v1/standings", http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"picks load", stubStandings{standings: sampleStandings()}, stubPicks{err: errors.New("no such file")}, "/api/v1/pool", http.StatusInternalServerError, "PICKS_UNAVAILABLE"},
		{"picks invalid", stubStandings{standings: sampleStandings()}, stubPicks{book: picks.Book{}}, "/api/v1/picks", http.StatusInternalServerError, "PICKS_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.standings, tt.picks)
			resp, body := get(t, srv, tt.path, nil)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, body)
			}
			if code := errorCode(t, body); code != tt.wantCode {
				t.Errorf("code %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, stubStandings{standings: sampleStandings()}, stubPicks{book: sampleBook()})

	get(t, srv, "/api/v1/pool", nil)
	resp, body := get(t, srv, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	for _, want := range []string{
		`overs_pool_standings_fetches_total{result="ok"} 1`,
		"overs_pool_computations_total 1",
		"overs_pool_cache_misses_total 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	c := cache.New(true)
	tr := tracker.New(tracker.Options{
		Standings: stubStandings{standings: sampleStandings()},
		Picks:     stubPicks{book: sampleBook()},
		Cache:     c,
	})
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	srv := httptest.NewServer(NewRouter(Deps{Tracker: tr, Cache: c}, cfg))
	defer srv.Close()

	// burst is half the per-window allowance
	resp, _ := get(t, srv, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status %d", resp.StatusCode)
	}
	resp, body := get(t, srv, "/health", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second request status %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if code := errorCode(t, body); code != "RATE_LIMITED" {
		t.Errorf("code %s", code)
	}
}

func TestErrorDetailWithheldInProduction(t *testing.T) {
	c := cache.New(true)
	tr := tracker.New(tracker.Options{
		Standings: stubStandings{err: fmt.Errorf("%w: ESPN returned 500: secret", espn.ErrUpstream)},
		Picks:     stubPicks{book: sampleBook()},
		Cache:     c,
	})
	cfg := testConfig()
	cfg.Environment = "production"
	srv := httptest.NewServer(NewRouter(Deps{Tracker: tr, Cache: c}, cfg))
	defer srv.Close()

	resp, body := get(t, srv, "/api/v1/pool", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if strings.Contains(string(body), "secret") {
		t.Errorf("production error leaked detail: %s", body)
	}
}

func TestStandingsLoadOutlivesDisconnectedClient(t *testing.T) {
	c := cache.New(true)
	tr := tracker.New(tracker.Options{
		Standings: ctxStandings{},
		Picks:     stubPicks{book: sampleBook()},
		Cache:     c,
	})
	router := NewRouter(Deps{Tracker: tr, Cache: c}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/standings", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if _, ok := c.Get("standings"); !ok {
		t.Error("standings load was not cached for the next caller")
	}
}
