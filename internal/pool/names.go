package pool

import (
	"strings"

	"github.com/albapepper/overs-pool/internal/provider"
)

// NormalizeName folds a team identifier for matching: lowercase, periods
// removed, "&" spelled "and", whitespace collapsed and trimmed.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), " ")
}

// AliasTable holds groups of names that refer to the same team. Names are
// stored normalized; every member of a group resolves to the others.
type AliasTable struct {
	alternates map[string][]string
}

// NewAliasTable builds a table from name pairs.
func NewAliasTable(pairs ...[2]string) AliasTable {
	t := AliasTable{alternates: make(map[string][]string)}
	for _, p := range pairs {
		t.Add(p[0], p[1])
	}
	return t
}

// DefaultAliases covers the one naming split seen between ESPN and pool
// sheets. Relocated or renamed franchises are not handled.
func DefaultAliases() AliasTable {
	return NewAliasTable([2]string{"Los Angeles Clippers", "LA Clippers"})
}

// Add records that a and b name the same team.
func (t *AliasTable) Add(a, b string) {
	if t.alternates == nil {
		t.alternates = make(map[string][]string)
	}
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" || na == nb {
		return
	}
	t.alternates[na] = append(t.alternates[na], nb)
	t.alternates[nb] = append(t.alternates[nb], na)
}

// Alternates returns the other names for an already-normalized key.
func (t AliasTable) Alternates(key string) []string {
	return t.alternates[key]
}

// Len returns the number of names with at least one alias.
func (t AliasTable) Len() int {
	return len(t.alternates)
}

// Index resolves team identifiers to standings.
type Index struct {
	byKey map[string]provider.Standing
}

// NewIndex registers each standing under its normalized full name and
// abbreviation, then adds alias keys that do not collide with a real name.
func NewIndex(standings []provider.Standing, aliases AliasTable) Index {
	idx := Index{byKey: make(map[string]provider.Standing, len(standings)*2)}
	for _, s := range standings {
		idx.register(NormalizeName(s.FullName), s)
		idx.register(NormalizeName(s.Abbreviation), s)
	}
	for _, s := range standings {
		for _, alt := range aliases.Alternates(NormalizeName(s.FullName)) {
			if _, exists := idx.byKey[alt]; !exists {
				idx.byKey[alt] = s
			}
		}
	}
	return idx
}

func (idx Index) register(key string, s provider.Standing) {
	if key == "" {
		return
	}
	idx.byKey[key] = s
}

// Lookup finds the standing for a team name or abbreviation.
func (idx Index) Lookup(team string) (provider.Standing, bool) {
	s, ok := idx.byKey[NormalizeName(team)]
	return s, ok
}
