package persona

import "strings"

// Category is a named trigger-keyword group.
type Category struct {
	Name     string
	Keywords []string
}

// Taxonomy is an ordered set of categories. Declaration order matters:
// it decides tie-breaking when two categories score equally.
type Taxonomy []Category

// NewTaxonomy normalizes a category list into a taxonomy: keywords are
// lowercased (matching is case-insensitive) and empty entries dropped.
func NewTaxonomy(categories []Category) Taxonomy {
	var tax Taxonomy
	for _, c := range categories {
		if c.Name == "" {
			continue
		}
		var keywords []string
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			tax = append(tax, Category{Name: c.Name, Keywords: keywords})
		}
	}
	return tax
}

// DefaultInterests returns the standard interest taxonomy.
func DefaultInterests() Taxonomy {
	return NewTaxonomy([]Category{
		{Name: "technology", Keywords: []string{"tech", "programming", "code", "software", "developer", "computer", "ai", "machine learning"}},
		{Name: "gaming", Keywords: []string{"game", "gaming", "xbox", "playstation", "nintendo", "steam", "esports"}},
		{Name: "fitness", Keywords: []string{"gym", "workout", "exercise", "fitness", "health", "running", "lifting"}},
		{Name: "food", Keywords: []string{"cooking", "recipe", "food", "restaurant", "meal", "diet", "nutrition"}},
		{Name: "travel", Keywords: []string{"travel", "trip", "vacation", "country", "city", "flight", "hotel"}},
		{Name: "music", Keywords: []string{"music", "song", "album", "artist", "concert", "band", "listen"}},
		{Name: "movies", Keywords: []string{"movie", "film", "cinema", "actor", "director", "netflix", "series"}},
		{Name: "books", Keywords: []string{"book", "read", "author", "novel", "literature", "story", "chapter"}},
		{Name: "sports", Keywords: []string{"sport", "football", "basketball", "soccer", "baseball", "hockey", "tennis"}},
		{Name: "politics", Keywords: []string{"politics", "political", "government", "election", "vote", "policy", "democracy"}},
	})
}

// DefaultTraits returns the standard personality taxonomy.
func DefaultTraits() Taxonomy {
	return NewTaxonomy([]Category{
		{Name: "extrovert", Keywords: []string{"social", "party", "meeting", "friends", "crowd", "public", "group"}},
		{Name: "introvert", Keywords: []string{"alone", "quiet", "home", "solitude", "private", "solo", "myself"}},
		{Name: "analytical", Keywords: []string{"analyze", "data", "logic", "reason", "think", "research", "study"}},
		{Name: "creative", Keywords: []string{"creative", "art", "design", "music", "write", "create", "imagine"}},
		{Name: "practical", Keywords: []string{"practical", "useful", "efficient", "work", "solution", "fix", "build"}},
	})
}

// DefaultGoalKeywords returns the trigger words for goal extraction.
func DefaultGoalKeywords() []string {
	return []string{"want", "need", "goal", "hope", "wish", "trying", "learning", "improve"}
}

// DefaultFrustrationKeywords returns the trigger words for frustration
// extraction.
func DefaultFrustrationKeywords() []string {
	return []string{"frustrated", "annoying", "hate", "problem", "issue", "difficult", "hard", "struggle"}
}
