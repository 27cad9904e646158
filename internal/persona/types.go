package persona

import "time"

// Kind distinguishes posts from comments.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// ContentItem is one post or comment normalized for analysis.
// For a post, Text is the title and selftext concatenated; for a
// comment it is the body.
type ContentItem struct {
	Kind      Kind   `json:"kind"`
	Text      string `json:"text"`
	Subreddit string `json:"subreddit,omitempty"`
	Permalink string `json:"permalink,omitempty"`
	Score     int    `json:"score"`
}

// AccountInfo holds basic profile data. A nil *AccountInfo is valid:
// karma defaults to 0 and account age renders as "Unknown".
type AccountInfo struct {
	CreatedUTC   *time.Time `json:"created_utc,omitempty"`
	TotalKarma   int        `json:"total_karma"`
	CommentKarma int        `json:"comment_karma"`
	LinkKarma    int        `json:"link_karma"`
	Verified     bool       `json:"verified"`
}

// Citation points an inferred interest, trait, goal or frustration back
// to the item that evidenced it. It keeps a truncated excerpt rather
// than the full item text.
type Citation struct {
	Kind      Kind
	Subreddit string
	Permalink string
	Excerpt   string
	Score     int
}

// CategoryScore is one scored taxonomy category with its supporting
// citations. Score is the total substring occurrence count of the
// category's keywords across the whole corpus.
type CategoryScore struct {
	Name      string
	Score     int
	Citations []Citation
}

// Statement is one extracted goal or frustration sentence with the item
// it came from.
type Statement struct {
	Text     string
	Citation Citation
}

// SubredditCount is a subreddit with its interaction count.
type SubredditCount struct {
	Name  string
	Count int
}

// Persona is the composed result of a full analysis run. It is built
// once per request and not mutated afterwards.
type Persona struct {
	Username      string
	AccountAge    string // "N days" or "Unknown"
	TotalKarma    int
	CommentKarma  int
	LinkKarma     int
	PostCount     int
	CommentCount  int
	TopSubreddits []SubredditCount
	Interests     []CategoryScore
	Traits        []CategoryScore
	Behaviors     []string
	Goals         []Statement
	Frustrations  []Statement
	GeneratedAt   time.Time
}

// Limits holds the truncation caps and behavior thresholds. Zero values
// are replaced with the defaults below.
type Limits struct {
	MaxInterests          int
	MaxTraits             int
	MaxGoals              int
	MaxFrustrations       int
	MaxSubreddits         int
	InterestCitations     int
	TraitCitations        int
	ExcerptLength         int
	PostScoreThreshold    int
	CommentScoreThreshold int
}

// DefaultLimits returns the standard truncation caps.
func DefaultLimits() Limits {
	return Limits{
		MaxInterests:          5,
		MaxTraits:             3,
		MaxGoals:              5,
		MaxFrustrations:       5,
		MaxSubreddits:         5,
		InterestCitations:     3,
		TraitCitations:        2,
		ExcerptLength:         100,
		PostScoreThreshold:    10,
		CommentScoreThreshold: 5,
	}
}

// withDefaults fills unset fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxInterests <= 0 {
		l.MaxInterests = d.MaxInterests
	}
	if l.MaxTraits <= 0 {
		l.MaxTraits = d.MaxTraits
	}
	if l.MaxGoals <= 0 {
		l.MaxGoals = d.MaxGoals
	}
	if l.MaxFrustrations <= 0 {
		l.MaxFrustrations = d.MaxFrustrations
	}
	if l.MaxSubreddits <= 0 {
		l.MaxSubreddits = d.MaxSubreddits
	}
	if l.InterestCitations <= 0 {
		l.InterestCitations = d.InterestCitations
	}
	if l.TraitCitations <= 0 {
		l.TraitCitations = d.TraitCitations
	}
	if l.ExcerptLength <= 0 {
		l.ExcerptLength = d.ExcerptLength
	}
	if l.PostScoreThreshold <= 0 {
		l.PostScoreThreshold = d.PostScoreThreshold
	}
	if l.CommentScoreThreshold <= 0 {
		l.CommentScoreThreshold = d.CommentScoreThreshold
	}
	return l
}

// newCitation builds a citation for an item, truncating the excerpt.
// Truncation counts characters, not bytes, so multibyte text stays
// valid UTF-8.
func newCitation(item ContentItem, excerptLen int) Citation {
	excerpt := item.Text
	if runes := []rune(excerpt); len(runes) > excerptLen {
		excerpt = string(runes[:excerptLen]) + "..."
	}
	return Citation{
		Kind:      item.Kind,
		Subreddit: item.Subreddit,
		Permalink: item.Permalink,
		Excerpt:   excerpt,
		Score:     item.Score,
	}
}
