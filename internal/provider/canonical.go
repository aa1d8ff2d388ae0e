// Package provider defines the canonical standings shape that every
// standings source normalizes into. Providers output these; the pool
// calculator consumes them.
//
// Adding a new provider means implementing a function that returns
// []Standing. The calculator never changes.
package provider

// Standing is one team's current record as reported by a provider.
// Values are built fresh on every fetch and never mutated afterwards.
type Standing struct {
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// GamesPlayed returns wins + losses.
func (s Standing) GamesPlayed() int {
	return s.Wins + s.Losses
}
