// Package pipeline wires the fetch, analyze and store stages into one
// run per username.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/AnasShams/reddit-persona-generator/internal/config"
	"github.com/AnasShams/reddit-persona-generator/internal/database"
	"github.com/AnasShams/reddit-persona-generator/internal/persona"
	"github.com/AnasShams/reddit-persona-generator/internal/reddit"
)

// snapshotsPerUser bounds how many raw fetches we keep around for
// offline reruns.
const snapshotsPerUser = 3

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Username string
	Report   string
	Steps    []StepResult
}

// Failed reports whether any step errored.
func (r *Result) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Pipeline orchestrates the fetch -> analyze -> store run.
type Pipeline struct {
	cfg    *config.Config
	db     *database.DB
	source reddit.Source
}

// New creates a pipeline backed by the Reddit JSON API.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		db:     db,
		source: reddit.NewClient(cfg.Reddit),
	}
}

// SetSource swaps the data source, e.g. for the RSS fallback.
func (p *Pipeline) SetSource(s reddit.Source) {
	p.source = s
}

// Run executes the full pipeline for one username. With offline set it
// reuses the latest stored snapshot instead of hitting the network.
func (p *Pipeline) Run(ctx context.Context, username string, offline bool) *Result {
	r := &Result{Username: username}

	content, fetched, step := p.runFetch(ctx, username, offline)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	report, pers, step := p.runAnalyze(username, content)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}
	r.Report = report

	r.Steps = append(r.Steps, p.runStore(username, content, report, pers, fetched))
	return r
}

func (p *Pipeline) runFetch(ctx context.Context, username string, offline bool) (*reddit.UserContent, bool, StepResult) {
	if offline {
		log.Printf("Step 1/3: Loading stored snapshot for u/%s...", username)
		snapshot, err := p.db.GetLatestSnapshot(username)
		if err != nil {
			return nil, false, StepResult{Name: "Fetch", Err: err}
		}
		if snapshot == nil {
			return nil, false, StepResult{Name: "Fetch", Err: fmt.Errorf("no stored snapshot for u/%s", username)}
		}

		var content reddit.UserContent
		if err := json.Unmarshal([]byte(snapshot.RawJSON), &content); err != nil {
			return nil, false, StepResult{Name: "Fetch", Err: fmt.Errorf("decoding snapshot: %w", err)}
		}
		return &content, false, StepResult{
			Name:    "Fetch",
			Summary: fmt.Sprintf("Loaded snapshot from %s (%d items)", deref(snapshot.FetchedAt), len(content.Items)),
		}
	}

	log.Printf("Step 1/3: Fetching data for u/%s...", username)
	content, err := p.source.FetchUser(ctx, username)
	if err != nil {
		return nil, false, StepResult{Name: "Fetch", Err: err}
	}

	posts, comments := countKinds(content.Items)
	return content, true, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("Fetched %d posts and %d comments", posts, comments),
	}
}

func (p *Pipeline) runAnalyze(username string, content *reddit.UserContent) (string, *persona.Persona, StepResult) {
	log.Println("Step 2/3: Analyzing content...")

	opts := personaOptions(p.cfg.Analysis)
	pers, err := persona.Generate(username, content.Info, content.Items, opts)
	if err != nil {
		return "", nil, StepResult{Name: "Analyze", Err: err}
	}

	report := persona.RenderMarkdown(pers, opts.Limits)
	return report, pers, StepResult{
		Name: "Analyze",
		Summary: fmt.Sprintf("Derived %d interests, %d traits, %d goals, %d frustrations",
			nonZero(pers.Interests), nonZero(pers.Traits), len(pers.Goals), len(pers.Frustrations)),
	}
}

func (p *Pipeline) runStore(username string, content *reddit.UserContent, report string, pers *persona.Persona, fetched bool) StepResult {
	log.Println("Step 3/3: Storing report...")

	if _, err := p.db.InsertReport(username, report, pers.PostCount, pers.CommentCount); err != nil {
		return StepResult{Name: "Store", Err: err}
	}

	if fetched {
		raw, err := json.Marshal(content)
		if err != nil {
			return StepResult{Name: "Store", Err: fmt.Errorf("encoding snapshot: %w", err)}
		}
		if _, err := p.db.InsertSnapshot(username, string(raw)); err != nil {
			return StepResult{Name: "Store", Err: err}
		}
		// Pruning is housekeeping; a failure should not fail the run.
		if err := p.db.PruneSnapshots(username, snapshotsPerUser); err != nil {
			log.Printf("Could not prune snapshots for u/%s: %v", username, err)
		}
	}

	return StepResult{
		Name:    "Store",
		Summary: fmt.Sprintf("Stored report for u/%s", username),
	}
}

// personaOptions maps the analysis config onto engine options. Empty
// taxonomy lists fall through to the engine defaults.
func personaOptions(a config.Analysis) persona.Options {
	opts := persona.Options{
		GoalKeywords:        a.GoalKeywords,
		FrustrationKeywords: a.FrustrationKeywords,
		Limits: persona.Limits{
			MaxInterests:          a.MaxInterests,
			MaxTraits:             a.MaxPersonalityTraits,
			MaxGoals:              a.MaxGoals,
			MaxFrustrations:       a.MaxFrustrations,
			MaxSubreddits:         a.MaxSubreddits,
			InterestCitations:     a.InterestCitations,
			TraitCitations:        a.TraitCitations,
			ExcerptLength:         a.ExcerptLength,
			PostScoreThreshold:    a.PostScoreThreshold,
			CommentScoreThreshold: a.CommentScoreThreshold,
		},
	}
	opts.Interests = persona.NewTaxonomy(toCategories(a.Interests))
	opts.Traits = persona.NewTaxonomy(toCategories(a.Personality))
	return opts
}

func toCategories(categories []config.Category) []persona.Category {
	out := make([]persona.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, persona.Category{Name: c.Name, Keywords: c.Keywords})
	}
	return out
}

func countKinds(items []persona.ContentItem) (posts, comments int) {
	for _, item := range items {
		if item.Kind == persona.KindPost {
			posts++
		} else {
			comments++
		}
	}
	return posts, comments
}

func nonZero(scores []persona.CategoryScore) int {
	n := 0
	for _, cs := range scores {
		if cs.Score > 0 {
			n++
		}
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return "unknown time"
	}
	return *s
}
