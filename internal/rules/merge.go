package rules

// FamilyMerge collapses several classifier families into one rule table key
type FamilyMerge struct {
	Families []string
	Key      string
}

// MachineType1Merges are the combined families of the P1 rule table.
// They only affect rule lookup; records keep their own family.
var MachineType1Merges = []FamilyMerge{
	{
		Families: []string{"Handle", "Interlock", "Top Bottom"},
		Key:      "Handle / Interlock / Top Bottom",
	},
	{
		Families: []string{"Single Track Top", "Single Track Bottom"},
		Key:      "Single Track Top / Single Track Bottom",
	},
	{
		Families: []string{"Two Track Top", "Two Track Bottom"},
		Key:      "Two Track Top / Two Track Bottom",
	},
}

// mergeIndex maps a family to its merged key
type mergeIndex map[string]string

func newMergeIndex(merges []FamilyMerge) mergeIndex {
	idx := make(mergeIndex)
	for _, m := range merges {
		for _, f := range m.Families {
			if _, exists := idx[f]; !exists {
				idx[f] = m.Key
			}
		}
	}
	return idx
}

// key returns the rule table key for family
func (m mergeIndex) key(family string) string {
	if merged, ok := m[family]; ok {
		return merged
	}
	return family
}
