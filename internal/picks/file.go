package picks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/albapepper/overs-pool/internal/pool"
)

// rawRow mirrors one sheet row before picks are parsed.
type rawRow struct {
	Team  string            `json:"team" yaml:"team"`
	Line  *float64          `json:"line" yaml:"line"`
	Picks map[string]string `json:"picks" yaml:"picks"`
}

type rawBook struct {
	Season       int      `json:"season" yaml:"season"`
	Participants []string `json:"participants" yaml:"participants"`
	Predictions  []rawRow `json:"predictions" yaml:"predictions"`
}

// LoadFile reads a sheet from a .json, .yaml or .yml file and validates it.
//
// Two layouts are accepted: an object with season, participants and
// predictions, or a bare list of prediction rows. A bare list takes its
// participants from the pick keys.
func LoadFile(path string) (Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Book{}, fmt.Errorf("read picks file: %w", err)
	}
	book, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Book{}, fmt.Errorf("%s: %w", path, err)
	}
	return book, nil
}

// Parse decodes sheet bytes; ext selects the format (".json" or YAML).
func Parse(data []byte, ext string) (Book, error) {
	var raw rawBook
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		raw, err = decodeJSON(data)
	default:
		raw, err = decodeYAML(data)
	}
	if err != nil {
		return Book{}, err
	}

	book, err := raw.book()
	if err != nil {
		return Book{}, err
	}
	if err := book.Validate(); err != nil {
		return Book{}, fmt.Errorf("invalid picks: %w", err)
	}
	return book, nil
}

func decodeJSON(data []byte) (rawBook, error) {
	var raw rawBook
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw.Predictions); err != nil {
			return raw, fmt.Errorf("decode picks json: %w", err)
		}
		return raw, nil
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return raw, fmt.Errorf("decode picks json: %w", err)
	}
	return raw, nil
}

func decodeYAML(data []byte) (rawBook, error) {
	var raw rawBook
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return raw, fmt.Errorf("decode picks yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return raw, fmt.Errorf("decode picks yaml: empty document")
	}
	root := doc.Content[0]
	var err error
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&raw.Predictions)
	} else {
		err = root.Decode(&raw)
	}
	if err != nil {
		return raw, fmt.Errorf("decode picks yaml: %w", err)
	}
	return raw, nil
}

func (r rawBook) book() (Book, error) {
	preds := make([]pool.Prediction, 0, len(r.Predictions))
	for i, row := range r.Predictions {
		if row.Line == nil {
			return Book{}, fmt.Errorf("row %d (%s): line is required", i+1, row.Team)
		}
		picks := make(map[string]pool.Pick, len(row.Picks))
		for name, v := range row.Picks {
			pick, err := pool.ParsePick(v)
			if err != nil {
				return Book{}, fmt.Errorf("row %d (%s), %s: %w", i+1, row.Team, name, err)
			}
			picks[name] = pick
		}
		preds = append(preds, pool.Prediction{
			Team:  strings.TrimSpace(row.Team),
			Line:  *row.Line,
			Picks: picks,
		})
	}

	participants := r.Participants
	if len(participants) == 0 {
		participants = participantsFromPicks(preds)
	}
	return Book{Season: r.Season, Participants: participants, Predictions: preds}, nil
}

// FileSource reloads the sheet from disk on every Load so edits are picked
// up on the next refresh.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(_ context.Context) (Book, error) {
	return LoadFile(s.Path)
}
