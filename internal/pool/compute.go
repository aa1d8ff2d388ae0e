package pool

import (
	"math"
	"sort"
	"time"

	"github.com/albapepper/overs-pool/internal/provider"
)

// Calculator scores predictions for a fixed set of participants.
type Calculator struct {
	// Participants in display order; leaderboard ties keep this order.
	Participants []string
	Aliases      AliasTable
	// SeasonGames defaults to DefaultSeasonGames when zero.
	SeasonGames int
	// Now stamps UpdatedAt; time.Now when nil.
	Now func() time.Time
}

// NewCalculator returns a Calculator with the default alias table.
func NewCalculator(participants []string) *Calculator {
	return &Calculator{
		Participants: append([]string(nil), participants...),
		Aliases:      DefaultAliases(),
		SeasonGames:  DefaultSeasonGames,
	}
}

// Compute joins predictions with standings and scores every participant.
// Teams keep prediction order; a team missing from standings scores with a
// 0-0 record rather than failing.
func (c *Calculator) Compute(predictions []Prediction, standings []provider.Standing) Result {
	idx := NewIndex(standings, c.Aliases)
	games := c.SeasonGames
	if games <= 0 {
		games = DefaultSeasonGames
	}

	teams := make([]TeamResult, 0, len(predictions))
	for _, p := range predictions {
		s, matched := idx.Lookup(p.Team)
		proj := Project(s.Wins, s.Losses, p.Line, games)

		correctness := make(map[string]bool, len(c.Participants))
		for _, player := range c.Participants {
			correctness[player] = p.Picks[player].Matches(proj.Outcome)
		}

		teams = append(teams, TeamResult{
			Team:              p.Team,
			Abbreviation:      s.Abbreviation,
			Line:              p.Line,
			Wins:              s.Wins,
			Losses:            s.Losses,
			Matched:           matched,
			GamesPlayed:       proj.GamesPlayed,
			GamesRemaining:    proj.GamesRemaining,
			WinPace:           proj.WinPace,
			ProjectedWins:     proj.ProjectedWins,
			ProjectedOutcome:  proj.Outcome,
			Close:             proj.Close,
			MinWinsForOver:    proj.MinWinsForOver,
			WinsNeededForOver: proj.WinsNeededForOver,
			Picks:             copyPicks(p.Picks),
			Correctness:       correctness,
		})
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Result{
		UpdatedAt:   now().UTC(),
		Leaderboard: c.leaderboard(teams),
		Teams:       teams,
	}
}

func (c *Calculator) leaderboard(teams []TeamResult) []LeaderboardRow {
	total := len(teams)
	rows := make([]LeaderboardRow, 0, len(c.Participants))
	for _, player := range c.Participants {
		correct := 0
		for _, t := range teams {
			if t.Correctness[player] {
				correct++
			}
		}
		pct := 0.0
		if total > 0 {
			pct = float64(correct) / float64(total)
		}
		rows = append(rows, LeaderboardRow{
			Player:    player,
			Correct:   correct,
			Incorrect: total - correct,
			Pct:       pct,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Correct > rows[j].Correct
	})
	return rows
}

func copyPicks(in map[string]Pick) map[string]Pick {
	out := make(map[string]Pick, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Unmatched returns the prediction team names that found no standing.
func (r Result) Unmatched() []string {
	var out []string
	for _, t := range r.Teams {
		if !t.Matched {
			out = append(out, t.Team)
		}
	}
	return out
}

// FindTeam returns the team result whose name or abbreviation matches
// under NormalizeName.
func (r Result) FindTeam(name string) (TeamResult, bool) {
	key := NormalizeName(name)
	if key == "" {
		return TeamResult{}, false
	}
	for _, t := range r.Teams {
		if NormalizeName(t.Team) == key || NormalizeName(t.Abbreviation) == key {
			return t, true
		}
	}
	return TeamResult{}, false
}

// SortByCloseness returns a copy of teams ordered by distance between
// projected wins and the line, nearest first. Equal distances keep input
// order.
func SortByCloseness(teams []TeamResult) []TeamResult {
	out := append([]TeamResult(nil), teams...)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].ProjectedWins-out[i].Line) < math.Abs(out[j].ProjectedWins-out[j].Line)
	})
	return out
}
