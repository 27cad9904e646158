package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnasShams/reddit-persona-generator/internal/config"
	"github.com/AnasShams/reddit-persona-generator/internal/database"
	"github.com/AnasShams/reddit-persona-generator/internal/persona"
	"github.com/AnasShams/reddit-persona-generator/internal/reddit"
)

// fakeSource implements reddit.Source for testing.
type fakeSource struct {
	content *reddit.UserContent
	err     error
	calls   int
}

func (f *fakeSource) FetchUser(_ context.Context, _ string) (*reddit.UserContent, error) {
	f.calls++
	return f.content, f.err
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testPipeline(t *testing.T, source reddit.Source) (*Pipeline, *database.DB) {
	t.Helper()
	db := openTestDB(t)
	p := New(config.Default(), db)
	p.SetSource(source)
	return p, db
}

func sampleContent() *reddit.UserContent {
	return &reddit.UserContent{
		Items: []persona.ContentItem{
			{Kind: persona.KindPost, Text: "I want to improve my gym routine", Subreddit: "fitness", Score: 12},
			{Kind: persona.KindComment, Text: "this code is hard to read", Subreddit: "golang", Score: 4},
		},
	}
}

func TestRunStoresReportAndSnapshot(t *testing.T) {
	p, db := testPipeline(t, &fakeSource{content: sampleContent()})

	result := p.Run(context.Background(), "kojied", false)
	if result.Failed() {
		t.Fatalf("unexpected failure: %+v", result.Steps)
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(result.Steps))
	}
	if !strings.Contains(result.Report, "# User Persona: kojied") {
		t.Error("expected rendered report in result")
	}

	report, err := db.GetReport("kojied")
	if err != nil || report == nil {
		t.Fatalf("expected stored report, got %v, %v", report, err)
	}
	if report.PostCount != 1 || report.CommentCount != 1 {
		t.Errorf("unexpected counts: %+v", report)
	}

	snapshot, err := db.GetLatestSnapshot("kojied")
	if err != nil || snapshot == nil {
		t.Fatalf("expected stored snapshot, got %v, %v", snapshot, err)
	}
}

func TestRunPrunesOldSnapshots(t *testing.T) {
	p, db := testPipeline(t, &fakeSource{content: sampleContent()})

	for i := 0; i < snapshotsPerUser+2; i++ {
		if result := p.Run(context.Background(), "kojied", false); result.Failed() {
			t.Fatalf("run %d failed: %+v", i, result.Steps)
		}
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Snapshots != snapshotsPerUser {
		t.Errorf("expected %d snapshots after pruning, got %d", snapshotsPerUser, stats.Snapshots)
	}
}

func TestRunOfflineUsesSnapshot(t *testing.T) {
	source := &fakeSource{content: sampleContent()}
	p, db := testPipeline(t, source)

	// First run populates the snapshot.
	if result := p.Run(context.Background(), "kojied", false); result.Failed() {
		t.Fatalf("seed run failed: %+v", result.Steps)
	}
	db.DeleteReport("kojied")

	result := p.Run(context.Background(), "kojied", true)
	if result.Failed() {
		t.Fatalf("offline run failed: %+v", result.Steps)
	}
	if source.calls != 1 {
		t.Errorf("offline run must not hit the network, got %d calls", source.calls)
	}

	report, _ := db.GetReport("kojied")
	if report == nil {
		t.Error("expected report regenerated from snapshot")
	}
}

func TestRunOfflineWithoutSnapshotFails(t *testing.T) {
	p, _ := testPipeline(t, &fakeSource{content: sampleContent()})

	result := p.Run(context.Background(), "ghost", true)
	if !result.Failed() {
		t.Error("expected failure without a snapshot")
	}
	if len(result.Steps) != 1 {
		t.Errorf("expected pipeline to stop after fetch step, got %d steps", len(result.Steps))
	}
}

func TestRunFetchErrorStopsPipeline(t *testing.T) {
	p, db := testPipeline(t, &fakeSource{err: reddit.ErrNotFound})

	result := p.Run(context.Background(), "ghost", false)
	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if !errors.Is(result.Steps[0].Err, reddit.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", result.Steps[0].Err)
	}

	if report, _ := db.GetReport("ghost"); report != nil {
		t.Error("no report should be stored on fetch failure")
	}
}

func TestPersonaOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.MaxGoals = 2
	cfg.Analysis.Interests = []config.Category{{Name: "coffee", Keywords: []string{"espresso"}}}

	opts := personaOptions(cfg.Analysis)
	if opts.Limits.MaxGoals != 2 {
		t.Errorf("expected MaxGoals 2, got %d", opts.Limits.MaxGoals)
	}
	if len(opts.Interests) != 1 || opts.Interests[0].Name != "coffee" {
		t.Errorf("expected custom interest taxonomy, got %+v", opts.Interests)
	}
}
