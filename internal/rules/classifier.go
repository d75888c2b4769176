package rules

import (
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
)

// Classifier maps die names to canonical families
type Classifier struct {
	keywords []model.KeywordRule // Folded keywords, table order preserved
}

// NewClassifier creates a classifier over the given keyword table
func NewClassifier(table model.KeywordTable) *Classifier {
	keywords := make([]model.KeywordRule, 0, len(table))
	for _, kw := range table {
		folded := strings.ToLower(kw.Keyword)
		if folded == "" {
			continue
		}
		keywords = append(keywords, model.KeywordRule{Keyword: folded, Family: kw.Family})
	}
	return &Classifier{keywords: keywords}
}

// Classify returns the family of the first keyword contained in name.
// Matching is plain substring matching on the lower-cased name, so table
// order alone decides between overlapping keywords.
func (c *Classifier) Classify(name string) (string, bool) {
	kw, ok := c.Match(name)
	return kw.Family, ok
}

// Match is like Classify but also returns the keyword that matched
func (c *Classifier) Match(name string) (model.KeywordRule, bool) {
	lower := strings.ToLower(name)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw.Keyword) {
			return kw, true
		}
	}
	return model.KeywordRule{}, false
}
