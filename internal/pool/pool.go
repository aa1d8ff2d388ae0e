// Package pool scores an Over/Under win-total prediction pool against
// partial-season standings.
//
// Everything here is pure: Compute reads its two inputs, never mutates them
// and shares no state between calls, so concurrent callers need no locking.
// Fetching, caching and refreshing belong to the caller.
package pool

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultSeasonGames is the length of an NBA regular season.
	DefaultSeasonGames = 82

	// CloseMargin is the projected-wins distance from the line at which a
	// team is flagged as close.
	CloseMargin = 3.0
)

// Pick is a participant's choice for one team.
type Pick string

const (
	Over  Pick = "Over"
	Under Pick = "Under"
)

// ParsePick accepts "over"/"under" in any case.
func ParsePick(s string) (Pick, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "over":
		return Over, nil
	case "under":
		return Under, nil
	}
	return "", fmt.Errorf("invalid pick %q: must be Over or Under", s)
}

// Valid reports whether p is Over or Under.
func (p Pick) Valid() bool {
	return p == Over || p == Under
}

// Outcome is the projected result for a team.
type Outcome string

const (
	OutcomeOver  Outcome = "OVER"
	OutcomeUnder Outcome = "UNDER"
)

// Matches reports whether the pick agrees with the outcome.
func (p Pick) Matches(o Outcome) bool {
	return (p == Over && o == OutcomeOver) || (p == Under && o == OutcomeUnder)
}

// Prediction is one configured row: a team, its season win line and every
// participant's pick.
type Prediction struct {
	Team  string          `json:"team" yaml:"team"`
	Line  float64         `json:"line" yaml:"line"`
	Picks map[string]Pick `json:"picks" yaml:"picks"`
}

// TeamResult is a prediction joined with the team's record and projection.
type TeamResult struct {
	Team              string          `json:"team"`
	Abbreviation      string          `json:"abbr"`
	Line              float64         `json:"line"`
	Wins              int             `json:"wins"`
	Losses            int             `json:"losses"`
	Matched           bool            `json:"matched"`
	GamesPlayed       int             `json:"gamesPlayed"`
	GamesRemaining    int             `json:"gamesRemaining"`
	WinPace           float64         `json:"winPace"`
	ProjectedWins     float64         `json:"projectedWins"`
	ProjectedOutcome  Outcome         `json:"projectedOutcome"`
	Close             bool            `json:"close"`
	MinWinsForOver    int             `json:"minWinsForOver"`
	WinsNeededForOver int             `json:"winsNeededForOver"`
	Picks             map[string]Pick `json:"picks"`
	Correctness       map[string]bool `json:"correctness"`
}

// LeaderboardRow is one participant's score.
type LeaderboardRow struct {
	Player    string  `json:"player"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Pct       float64 `json:"pct"`
}

// Result is the scored pool.
type Result struct {
	UpdatedAt   time.Time        `json:"updatedAt"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
	Teams       []TeamResult     `json:"teams"`
}
