package persona

import (
	"sort"
	"strings"
)

// scoreTaxonomy runs the shared keyword-frequency pass used by both the
// interest and personality analyzers. For each category the score is
// the sum of non-overlapping occurrence counts of its keywords in the
// combined corpus. A citation is recorded for every (keyword, item)
// pair whose item text contains the keyword; citations are deliberately
// not deduplicated by item, so one item matching two keywords of the
// same category is cited twice.
//
// The result contains every category, sorted by score descending.
// Equal scores keep the taxonomy's declaration order.
func scoreTaxonomy(c corpus, items []ContentItem, tax Taxonomy, excerptLen int) []CategoryScore {
	scores := make([]CategoryScore, 0, len(tax))
	for _, cat := range tax {
		cs := CategoryScore{Name: cat.Name}
		for _, kw := range cat.Keywords {
			cs.Score += strings.Count(c.combined, kw)
			for i, text := range c.texts {
				if strings.Contains(text, kw) {
					cs.Citations = append(cs.Citations, newCitation(items[i], excerptLen))
				}
			}
		}
		scores = append(scores, cs)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// topCategories truncates a ranked score list to at most max entries.
func topCategories(scores []CategoryScore, max int) []CategoryScore {
	if len(scores) > max {
		return scores[:max]
	}
	return scores
}
