package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/overs-pool/internal/api/respond"
	"github.com/albapepper/overs-pool/internal/cache"
	"github.com/albapepper/overs-pool/internal/pool"
	"github.com/albapepper/overs-pool/internal/provider"
)

// LeaderboardResponse is the /pool/leaderboard payload.
type LeaderboardResponse struct {
	UpdatedAt   time.Time             `json:"updatedAt"`
	Leaderboard []pool.LeaderboardRow `json:"leaderboard"`
}

// TeamsResponse is the /pool/teams payload.
type TeamsResponse struct {
	UpdatedAt time.Time         `json:"updatedAt"`
	Teams     []pool.TeamResult `json:"teams"`
}

// StandingsResponse is the /standings payload.
type StandingsResponse struct {
	Count     int                 `json:"count"`
	Standings []provider.Standing `json:"standings"`
}

// GetPool returns the full scored pool.
// @Summary Get pool
// @Description Returns the leaderboard and every team's projection and pick correctness. Served from cache; supports If-None-Match.
// @Tags pool
// @Produce json
// @Success 200 {object} pool.Result
// @Success 304 "Not modified"
// @Failure 500 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /pool [get]
func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	entry, hit, err := h.tracker.SnapshotJSON(r.Context())
	if err != nil {
		h.writeTrackerError(w, err)
		return
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), entry.ETag) {
		respond.WriteNotModified(w, entry.ETag)
		return
	}
	respond.WriteJSON(w, entry.Data, entry.ETag, h.cfg.PoolCacheTTL, hit)
}

// GetLeaderboard returns only the leaderboard.
// @Summary Get leaderboard
// @Description Returns participants ordered by correct picks, ties in participant order.
// @Tags pool
// @Produce json
// @Success 200 {object} LeaderboardResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /pool/leaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.tracker.Result(r.Context())
	if err != nil {
		h.writeTrackerError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, LeaderboardResponse{
		UpdatedAt:   res.UpdatedAt,
		Leaderboard: res.Leaderboard,
	})
}

// GetTeams returns team results.
// @Summary Get teams
// @Description Returns every team's projection. sort=close orders by distance between projected wins and the line.
// @Tags pool
// @Produce json
// @Param sort query string false "Ordering" Enums(input, close)
// @Success 200 {object} TeamsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /pool/teams [get]
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	order := r.URL.Query().Get("sort")
	if order != "" && order != "input" && order != "close" {
		respond.WriteError(w, respond.CodeInvalidSort, "sort must be 'input' or 'close'")
		return
	}

	res, err := h.tracker.Result(r.Context())
	if err != nil {
		h.writeTrackerError(w, err)
		return
	}
	teams := res.Teams
	if order == "close" {
		teams = pool.SortByCloseness(teams)
	}
	respond.WriteJSONObject(w, http.StatusOK, TeamsResponse{UpdatedAt: res.UpdatedAt, Teams: teams})
}

// GetTeam returns one team's result.
// @Summary Get team
// @Description Looks a team up by name or abbreviation, ignoring case, periods and spacing.
// @Tags pool
// @Produce json
// @Param team path string true "Team name or abbreviation"
// @Success 200 {object} pool.TeamResult
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /pool/teams/{team} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "team")

	res, err := h.tracker.Result(r.Context())
	if err != nil {
		h.writeTrackerError(w, err)
		return
	}
	team, ok := res.FindTeam(name)
	if !ok {
		respond.WriteError(w, respond.CodeNotFound, "No pool entry for "+name)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, team)
}

// GetStandings returns the normalized provider standings.
// @Summary Get standings
// @Description Returns the current standings as normalized from the provider, deduplicated by team name.
// @Tags standings
// @Produce json
// @Success 200 {object} StandingsResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /standings [get]
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	entry, hit, err := h.cache.GetOrLoad("standings", ttlStandings, func() ([]byte, error) {
		// Shared by every waiting request; one client hanging up must not
		// fail the others.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), standingsLoadTimeout)
		defer cancel()
		standings, err := h.tracker.Standings(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(StandingsResponse{Count: len(standings), Standings: standings})
	})
	if err != nil {
		h.writeTrackerError(w, err)
		return
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), entry.ETag) {
		respond.WriteNotModified(w, entry.ETag)
		return
	}
	respond.WriteJSON(w, entry.Data, entry.ETag, ttlStandings, hit)
}

// GetPicks returns the current picks sheet.
// @Summary Get picks
// @Description Returns the participants and every team's line and picks.
// @Tags picks
// @Produce json
// @Success 200 {object} picks.Book
// @Failure 500 {object} respond.ErrorResponse
// @Router /picks [get]
func (h *Handler) GetPicks(w http.ResponseWriter, r *http.Request) {
	book, err := h.tracker.Book(r.Context())
	if err != nil {
		h.writeTrackerError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, book)
}
