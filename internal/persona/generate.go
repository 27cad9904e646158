package persona

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoItems is returned when the items collection itself is absent.
// An empty-but-present slice is valid input and produces a persona with
// empty analyzer sections.
var ErrNoItems = errors.New("persona: no items collection provided")

// Options parameterizes a persona generation run. The zero value uses
// the default taxonomies, keyword sets and limits.
type Options struct {
	Interests           Taxonomy
	Traits              Taxonomy
	GoalKeywords        []string
	FrustrationKeywords []string
	Limits              Limits

	// Now overrides the generation timestamp clock in tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if len(o.Interests) == 0 {
		o.Interests = DefaultInterests()
	}
	if len(o.Traits) == 0 {
		o.Traits = DefaultTraits()
	}
	if len(o.GoalKeywords) == 0 {
		o.GoalKeywords = DefaultGoalKeywords()
	}
	if len(o.FrustrationKeywords) == 0 {
		o.FrustrationKeywords = DefaultFrustrationKeywords()
	}
	o.Limits = o.Limits.withDefaults()
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Generate runs the full analysis pipeline over the normalized items
// and composes a persona. info may be nil. The call is pure apart from
// the generation timestamp: identical input yields an identical persona
// modulo GeneratedAt.
func Generate(username string, info *AccountInfo, items []ContentItem, opts Options) (*Persona, error) {
	if items == nil {
		return nil, ErrNoItems
	}
	opts = opts.withDefaults()
	lim := opts.Limits

	c := buildCorpus(items)

	interests := scoreTaxonomy(c, items, opts.Interests, lim.ExcerptLength)
	traits := scoreTaxonomy(c, items, opts.Traits, lim.ExcerptLength)
	behaviors := analyzeBehavior(items, lim)
	goals := extractStatements(items, opts.GoalKeywords, lim.MaxGoals, lim.ExcerptLength)
	frustrations := extractStatements(items, opts.FrustrationKeywords, lim.MaxFrustrations, lim.ExcerptLength)

	return compose(username, info, items, analyzerOutputs{
		interests:    interests,
		traits:       traits,
		behaviors:    behaviors,
		goals:        goals,
		frustrations: frustrations,
	}, lim, opts.Now()), nil
}

// analyzerOutputs bundles the four analyzer results for composition.
type analyzerOutputs struct {
	interests    []CategoryScore
	traits       []CategoryScore
	behaviors    []string
	goals        []Statement
	frustrations []Statement
}

// compose assembles the analyzer outputs and basic account statistics
// into the final persona. Pure data assembly, no further scoring.
func compose(username string, info *AccountInfo, items []ContentItem, out analyzerOutputs, lim Limits, now time.Time) *Persona {
	p := &Persona{
		Username:     username,
		AccountAge:   "Unknown",
		Interests:    topCategories(out.interests, lim.MaxInterests),
		Traits:       topCategories(out.traits, lim.MaxTraits),
		Behaviors:    out.behaviors,
		Goals:        out.goals,
		Frustrations: out.frustrations,
		GeneratedAt:  now,
	}

	if info != nil {
		p.TotalKarma = info.TotalKarma
		p.CommentKarma = info.CommentKarma
		p.LinkKarma = info.LinkKarma
		if info.CreatedUTC != nil {
			days := int(now.Sub(*info.CreatedUTC).Hours() / 24)
			p.AccountAge = fmt.Sprintf("%d days", days)
		}
	}

	for _, item := range items {
		if item.Kind == KindPost {
			p.PostCount++
		} else {
			p.CommentCount++
		}
	}

	subreddits := countSubreddits(items)
	if len(subreddits) > lim.MaxSubreddits {
		subreddits = subreddits[:lim.MaxSubreddits]
	}
	p.TopSubreddits = subreddits

	return p
}
