package espn

import (
	"strings"

	"github.com/albapepper/overs-pool/internal/provider"
)

const (
	statWins   = "wins"
	statLosses = "losses"
)

// Normalize flattens an ESPN standings document into one Standing per team.
//
// The document is walked without assuming a depth: any object carrying
// standings.entries contributes its entries, and any object carrying a
// children array is descended into. Entries without a display name are
// dropped, missing stats read as 0, and duplicates (the same team listed
// under several grouping layers) keep their first occurrence.
//
// Normalize never fails. A root that is not an object yields no standings.
func Normalize(root interface{}) []provider.Standing {
	var entries []map[string]interface{}
	collectEntries(root, &entries)

	out := make([]provider.Standing, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		s, ok := standingFromEntry(e)
		if !ok {
			continue
		}
		if _, dup := seen[s.FullName]; dup {
			continue
		}
		seen[s.FullName] = struct{}{}
		out = append(out, s)
	}
	return out
}

// collectEntries appends every entry reachable from node in document order:
// a node's own entries first, then each child subtree.
func collectEntries(node interface{}, out *[]map[string]interface{}) {
	obj, ok := node.(map[string]interface{})
	if !ok {
		return
	}

	if standings, ok := obj["standings"].(map[string]interface{}); ok {
		if entries, ok := standings["entries"].([]interface{}); ok {
			for _, e := range entries {
				if entry, ok := e.(map[string]interface{}); ok {
					*out = append(*out, entry)
				}
			}
		}
	}

	if children, ok := obj["children"].([]interface{}); ok {
		for _, c := range children {
			collectEntries(c, out)
		}
	}
}

func standingFromEntry(entry map[string]interface{}) (provider.Standing, bool) {
	team, _ := entry["team"].(map[string]interface{})
	name, _ := team["displayName"].(string)
	if strings.TrimSpace(name) == "" {
		return provider.Standing{}, false
	}
	abbr, _ := team["abbreviation"].(string)

	stats := NewStatSet(entry["stats"])
	return provider.Standing{
		FullName:     name,
		Abbreviation: abbr,
		Wins:         stats.Count(statWins),
		Losses:       stats.Count(statLosses),
	}, true
}
