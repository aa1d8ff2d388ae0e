package pool

import (
	"testing"

	"github.com/albapepper/overs-pool/internal/provider"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Boston Celtics", "boston celtics"},
		{"  L.A.   Clippers ", "la clippers"},
		{"Nets & Co", "nets and co"},
		{"PHX", "phx"},
		{"\tGolden\nState  Warriors", "golden state warriors"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndexLookup(t *testing.T) {
	idx := NewIndex([]provider.Standing{
		{FullName: "Boston Celtics", Abbreviation: "BOS", Wins: 50, Losses: 20},
		{FullName: "Utah Jazz", Abbreviation: "", Wins: 10, Losses: 30},
	}, DefaultAliases())

	for _, name := range []string{"Boston Celtics", "boston  celtics", "BOS", "b.o.s", "  bos "} {
		s, ok := idx.Lookup(name)
		if !ok || s.FullName != "Boston Celtics" {
			t.Errorf("Lookup(%q): want Boston Celtics, got %+v (ok=%v)", name, s, ok)
		}
	}
	if _, ok := idx.Lookup(""); ok {
		t.Error("empty name must not match a team without an abbreviation")
	}
	if _, ok := idx.Lookup("Seattle SuperSonics"); ok {
		t.Error("unknown team must not match")
	}
}

func TestIndexClippersAlias(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		query    string
	}{
		{"provider long, sheet short", "Los Angeles Clippers", "LA Clippers"},
		{"provider short, sheet long", "LA Clippers", "Los Angeles Clippers"},
		{"same form", "LA Clippers", "la clippers"},
		{"dotted", "LA Clippers", "L.A. Clippers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewIndex([]provider.Standing{{FullName: tt.provider, Abbreviation: "LAC", Wins: 30}}, DefaultAliases())
			s, ok := idx.Lookup(tt.query)
			if !ok || s.Wins != 30 {
				t.Errorf("Lookup(%q) against %q: got %+v (ok=%v)", tt.query, tt.provider, s, ok)
			}
		})
	}
}

func TestIndexNoAliasesWithoutTable(t *testing.T) {
	idx := NewIndex([]provider.Standing{{FullName: "Los Angeles Clippers"}}, AliasTable{})
	if _, ok := idx.Lookup("LA Clippers"); ok {
		t.Error("empty alias table must not resolve LA Clippers")
	}
}

func TestAliasTableCustomPair(t *testing.T) {
	aliases := DefaultAliases()
	aliases.Add("Seattle SuperSonics", "Oklahoma City Thunder")
	if aliases.Len() != 4 {
		t.Errorf("want 4 aliased names, got %d", aliases.Len())
	}
	idx := NewIndex([]provider.Standing{{FullName: "Oklahoma City Thunder", Abbreviation: "OKC", Wins: 5}}, aliases)
	if s, ok := idx.Lookup("seattle supersonics"); !ok || s.Wins != 5 {
		t.Errorf("custom alias did not resolve: %+v (ok=%v)", s, ok)
	}

	aliases.Add("Same", "same")
	if aliases.Len() != 4 {
		t.Error("self-alias must be ignored")
	}
}

func TestAliasDoesNotShadowRealName(t *testing.T) {
	aliases := NewAliasTable([2]string{"Team A", "Team B"})
	idx := NewIndex([]provider.Standing{
		{FullName: "Team A", Wins: 1},
		{FullName: "Team B", Wins: 2},
	}, aliases)
	if s, _ := idx.Lookup("Team B"); s.Wins != 2 {
		t.Errorf("alias shadowed a real team: got %+v", s)
	}
}
