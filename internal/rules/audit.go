package rules

import (
	"sort"
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
)

// Shadow describes a keyword that can never match because an earlier
// keyword is a substring of it
type Shadow struct {
	Keyword     model.KeywordRule
	Index       int
	ShadowedBy  model.KeywordRule
	ShadowIndex int
	SameFamily  bool // Harmless: both keywords yield the same family
}

// AuditReport lists rule store inconsistencies that do not stop a run
type AuditReport struct {
	Shadowed        []Shadow
	MissingRules    map[MachineType][]string // Classifier families with no rule set
	UnreachableKeys map[MachineType][]string // Rule keys no keyword can produce
}

// Clean reports whether the audit found anything worth acting on.
// Shadowed keywords that map to the same family are ignored.
func (r *AuditReport) Clean() bool {
	for _, s := range r.Shadowed {
		if !s.SameFamily {
			return false
		}
	}
	for _, v := range r.MissingRules {
		if len(v) > 0 {
			return false
		}
	}
	for _, v := range r.UnreachableKeys {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// Audit inspects a store for shadowed keywords and gaps between the
// keyword table and the rule tables
func Audit(store *model.RuleStore) *AuditReport {
	report := &AuditReport{
		MissingRules:    make(map[MachineType][]string),
		UnreachableKeys: make(map[MachineType][]string),
	}

	for j, later := range store.Keywords {
		lj := strings.ToLower(later.Keyword)
		for i := 0; i < j; i++ {
			earlier := store.Keywords[i]
			li := strings.ToLower(earlier.Keyword)
			if li != "" && strings.Contains(lj, li) {
				report.Shadowed = append(report.Shadowed, Shadow{
					Keyword:     later,
					Index:       j,
					ShadowedBy:  earlier,
					ShadowIndex: i,
					SameFamily:  earlier.Family == later.Family,
				})
				break
			}
		}
	}

	families := make(map[string]bool)
	for _, kw := range store.Keywords {
		families[kw.Family] = true
	}

	merges := newMergeIndex(MachineType1Merges)
	machines := []struct {
		kind  MachineType
		rules model.RuleTable
		key   func(string) string
	}{
		{MachineType1, store.MachineType1.Rules, merges.key},
		{MachineType2, store.MachineType2.Rules, func(f string) string { return f }},
	}

	for _, m := range machines {
		reachable := make(map[string]bool)
		for family := range families {
			key := m.key(family)
			reachable[key] = true
			if _, ok := m.rules[key]; !ok {
				report.MissingRules[m.kind] = append(report.MissingRules[m.kind], family)
			}
		}
		for key := range m.rules {
			if !reachable[key] {
				report.UnreachableKeys[m.kind] = append(report.UnreachableKeys[m.kind], key)
			}
		}
		sort.Strings(report.MissingRules[m.kind])
		sort.Strings(report.UnreachableKeys[m.kind])
	}

	return report
}
