// Package picks loads the pool's prediction sheet: the participants and,
// for every team, the season win line and each participant's Over/Under
// pick. Sheets come from a YAML/JSON file or from Postgres.
package picks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/albapepper/overs-pool/internal/pool"
)

// Book is a season's prediction sheet.
type Book struct {
	Season       int               `json:"season"`
	Participants []string          `json:"participants"`
	Predictions  []pool.Prediction `json:"predictions"`
}

// Source yields the current Book.
type Source interface {
	Load(ctx context.Context) (Book, error)
}

// Validate reports every problem in the book at once.
func (b Book) Validate() error {
	var errs []error

	if len(b.Participants) == 0 {
		errs = append(errs, errors.New("no participants"))
	}
	known := make(map[string]struct{}, len(b.Participants))
	for _, p := range b.Participants {
		if p == "" {
			errs = append(errs, errors.New("empty participant name"))
			continue
		}
		if _, dup := known[p]; dup {
			errs = append(errs, fmt.Errorf("duplicate participant %q", p))
		}
		known[p] = struct{}{}
	}

	teams := make(map[string]int, len(b.Predictions))
	for i, pred := range b.Predictions {
		row := i + 1
		key := pool.NormalizeName(pred.Team)
		if key == "" {
			errs = append(errs, fmt.Errorf("row %d: team is required", row))
		} else if prev, dup := teams[key]; dup {
			errs = append(errs, fmt.Errorf("row %d: team %q already listed in row %d", row, pred.Team, prev))
		} else {
			teams[key] = row
		}

		if math.IsNaN(pred.Line) || math.IsInf(pred.Line, 0) || pred.Line < 0 {
			errs = append(errs, fmt.Errorf("row %d (%s): invalid line %v", row, pred.Team, pred.Line))
		}

		for _, p := range b.Participants {
			pick, ok := pred.Picks[p]
			if !ok {
				errs = append(errs, fmt.Errorf("row %d (%s): no pick for %s", row, pred.Team, p))
			} else if !pick.Valid() {
				errs = append(errs, fmt.Errorf("row %d (%s): invalid pick %q for %s", row, pred.Team, pick, p))
			}
		}
		for name := range pred.Picks {
			if _, ok := known[name]; !ok {
				errs = append(errs, fmt.Errorf("row %d (%s): pick for unknown participant %q", row, pred.Team, name))
			}
		}
	}

	return errors.Join(errs...)
}

// participantsFromPicks derives a participant list from pick keys when a
// sheet does not name them. Map keys carry no order, so names are sorted.
func participantsFromPicks(preds []pool.Prediction) []string {
	seen := make(map[string]struct{})
	for _, p := range preds {
		for name := range p.Picks {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// WithParticipants returns a copy of the book using the given participant
// order. An empty list leaves the book unchanged.
func (b Book) WithParticipants(participants []string) Book {
	if len(participants) == 0 {
		return b
	}
	b.Participants = append([]string(nil), participants...)
	return b
}

// Edit applies a change to one team's row and returns the edited row with
// its sheet position. line replaces the row's line when non-nil; changes
// overwrite individual picks. A team not yet on the sheet is appended and
// needs a line. The sheet as a whole must still validate afterwards.
func (b Book) Edit(team string, line *float64, changes map[string]pool.Pick) (pool.Prediction, int, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return pool.Prediction{}, 0, errors.New("team is required")
	}

	pos := len(b.Predictions)
	row := pool.Prediction{Team: team}
	for i, p := range b.Predictions {
		if pool.NormalizeName(p.Team) == pool.NormalizeName(team) {
			pos, row = i, p
			break
		}
	}
	if line != nil {
		row.Line = *line
	} else if pos == len(b.Predictions) {
		return pool.Prediction{}, 0, fmt.Errorf("%s is not on the sheet; a line is required", team)
	}

	merged := make(map[string]pool.Pick, len(row.Picks)+len(changes))
	for name, pick := range row.Picks {
		merged[name] = pick
	}
	for name, pick := range changes {
		merged[name] = pick
	}
	row.Picks = merged

	edited := b
	edited.Predictions = append([]pool.Prediction(nil), b.Predictions...)
	if pos == len(edited.Predictions) {
		edited.Predictions = append(edited.Predictions, row)
	} else {
		edited.Predictions[pos] = row
	}
	if err := edited.Validate(); err != nil {
		return pool.Prediction{}, 0, err
	}
	return row, pos, nil
}
