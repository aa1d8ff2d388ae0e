package espn

import "github.com/albapepper/overs-pool/internal/provider"

// StatSet maps a stat name to its numeric value for one standings entry.
// It is built once per entry so lookups do not rescan the provider's list.
type StatSet map[string]float64

// NewStatSet indexes a provider stats list of {"name": ..., "value": ...}
// objects. The first numeric value seen for a name is kept; items without a
// string name or a numeric value are skipped.
func NewStatSet(raw interface{}) StatSet {
	items, ok := raw.([]interface{})
	if !ok {
		return StatSet{}
	}
	set := make(StatSet, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := obj["name"].(string)
		if name == "" {
			continue
		}
		if _, seen := set[name]; seen {
			continue
		}
		if v, ok := provider.ExtractNumber(obj["value"]); ok {
			set[name] = v
		}
	}
	return set
}

// Count returns the stat as a non-negative whole number, or 0 when absent.
func (s StatSet) Count(name string) int {
	v, ok := s[name]
	if !ok {
		return 0
	}
	n, ok := provider.ExtractCount(v)
	if !ok {
		return 0
	}
	return n
}
