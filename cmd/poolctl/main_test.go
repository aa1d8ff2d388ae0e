package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/albapepper/overs-pool/internal/picks"
	"github.com/albapepper/overs-pool/internal/pool"
	"github.com/albapepper/overs-pool/internal/provider"
)

const savedStandings = `{
  "children": [
    {"name": "Eastern Conference", "standings": {"entries": [
      {"team": {"displayName": "Boston Celtics", "abbreviation": "BOS"},
       "stats": [{"name": "wins", "value": 50}, {"name": "losses", "value": 20}]}
    ]}},
    {"name": "Western Conference", "standings": {"entries": [
      {"team": {"displayName": "Los Angeles Clippers", "abbreviation": "LAC"},
       "stats": [{"name": "wins", "value": 35}, {"name": "losses", "value": 35}]}
    ]}}
  ]
}`

func TestFileStandings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standings.json")
	if err := os.WriteFile(path, []byte(savedStandings), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := fileStandings{path: path}.FetchStandings(context.Background())
	if err != nil {
		t.Fatalf("FetchStandings: %v", err)
	}
	want := []provider.Standing{
		{FullName: "Boston Celtics", Abbreviation: "BOS", Wins: 50, Losses: 20},
		{FullName: "Los Angeles Clippers", Abbreviation: "LAC", Wins: 35, Losses: 35},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d standings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("standing %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := (fileStandings{path: filepath.Join(t.TempDir(), "missing.json")}).FetchStandings(context.Background()); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestPrintResult(t *testing.T) {
	calc := pool.NewCalculator([]string{"Kevin", "Dave"})
	calc.Now = func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }
	res := calc.Compute([]pool.Prediction{
		{Team: "Boston Celtics", Line: 45.5, Picks: map[string]pool.Pick{"Kevin": pool.Over, "Dave": pool.Under}},
		{Team: "Seattle SuperSonics", Line: 30, Picks: map[string]pool.Pick{"Kevin": pool.Under, "Dave": pool.Under}},
	}, []provider.Standing{
		{FullName: "Boston Celtics", Abbreviation: "BOS", Wins: 50, Losses: 20},
	})

	var buf bytes.Buffer
	if err := printResult(&buf, res); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"2026-01-15T00:00:00Z", "Kevin", "100.0%", "50-20", "58.6", "OVER", "n/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintBook(t *testing.T) {
	book := picks.Book{
		Participants: []string{"Kevin", "Dave"},
		Predictions: []pool.Prediction{
			{Team: "Boston Celtics", Line: 45.5, Picks: map[string]pool.Pick{"Kevin": pool.Over, "Dave": pool.Under}},
		},
	}
	var buf bytes.Buffer
	if err := printBook(&buf, book); err != nil {
		t.Fatalf("printBook: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if f := strings.Fields(lines[0]); strings.Join(f, " ") != "TEAM LINE KEVIN DAVE" {
		t.Errorf("header = %q", lines[0])
	}
	if f := strings.Fields(lines[1]); strings.Join(f, " ") != "Boston Celtics 45.5 Over Under" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"Kevin=over", " Dave = UNDER"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]pool.Pick{"Kevin": pool.Over, "Dave": pool.Under}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"Kevin", "=Over", "Kevin=Push"} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestPrintStandings(t *testing.T) {
	var buf bytes.Buffer
	err := printStandings(&buf, []provider.Standing{{FullName: "Boston Celtics", Abbreviation: "BOS", Wins: 50, Losses: 20}})
	if err != nil {
		t.Fatalf("printStandings: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if got := strings.Join(strings.Fields(lines[1]), " "); got != "Boston Celtics BOS 50 20 70" {
		t.Errorf("row = %q", got)
	}
}
