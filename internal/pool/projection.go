package pool

import "math"

// Projection is the win-pace outlook for a record against a line.
type Projection struct {
	GamesPlayed       int
	GamesRemaining    int
	WinPace           float64
	ProjectedWins     float64
	Outcome           Outcome
	Close             bool
	MinWinsForOver    int
	WinsNeededForOver int
}

// Project extends the current win rate over a season of seasonGames.
// A team that has not played projects to zero wins. GamesRemaining goes
// negative if the provider reports more games than the season holds.
// A projection exactly on the line is UNDER.
func Project(wins, losses int, line float64, seasonGames int) Projection {
	played := wins + losses
	pace := 0.0
	if played > 0 {
		pace = float64(wins) / float64(played)
	}
	projected := pace * float64(seasonGames)

	outcome := OutcomeUnder
	if projected > line {
		outcome = OutcomeOver
	}

	minForOver := int(math.Floor(line)) + 1
	return Projection{
		GamesPlayed:       played,
		GamesRemaining:    seasonGames - played,
		WinPace:           pace,
		ProjectedWins:     projected,
		Outcome:           outcome,
		Close:             math.Abs(projected-line) <= CloseMargin,
		MinWinsForOver:    minForOver,
		WinsNeededForOver: max(0, minForOver-wins),
	}
}
