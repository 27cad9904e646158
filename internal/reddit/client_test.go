package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnasShams/reddit-persona-generator/internal/config"
	"github.com/AnasShams/reddit-persona-generator/internal/persona"
)

func testClient(baseURL string) *Client {
	c := NewClient(config.Reddit{
		BaseURL:   baseURL,
		UserAgent: "test-agent",
		MaxPages:  3,
		PageSize:  100,
	})
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.retryDelay = 10 * time.Millisecond
	return c
}

func listingPage(after string, children ...map[string]any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"after":    after,
			"children": children,
		},
	}
}

func postChild(title, selftext, subreddit string, score int) map[string]any {
	return map[string]any{
		"kind": "t3",
		"data": map[string]any{
			"title":     title,
			"selftext":  selftext,
			"subreddit": subreddit,
			"permalink": "/r/" + subreddit + "/comments/abc/slug/",
			"score":     score,
		},
	}
}

func commentChild(body, subreddit string, score int) map[string]any {
	return map[string]any{
		"kind": "t1",
		"data": map[string]any{
			"body":      body,
			"subreddit": subreddit,
			"permalink": "/r/" + subreddit + "/comments/abc/slug/def/",
			"score":     score,
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestFetchUserNormalizesItems(t *testing.T) {
	created := float64(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/kojied/about.json":
			writeJSON(w, map[string]any{"data": map[string]any{
				"created_utc":   created,
				"total_karma":   1200,
				"comment_karma": 700,
				"link_karma":    500,
				"verified":      true,
			}})
		case "/user/kojied.json":
			writeJSON(w, listingPage("",
				postChild("My title", "my body", "golang", 15),
				commentChild("a comment", "rust", 3),
			))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	content, err := client.FetchUser(context.Background(), "kojied")
	if err != nil {
		t.Fatalf("FetchUser: %v", err)
	}

	if content.Info == nil || content.Info.TotalKarma != 1200 || !content.Info.Verified {
		t.Errorf("unexpected account info: %+v", content.Info)
	}
	if content.Info.CreatedUTC == nil {
		t.Fatal("expected created timestamp")
	}

	if len(content.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(content.Items))
	}
	p := content.Items[0]
	if p.Kind != persona.KindPost || p.Text != "My title my body" || p.Subreddit != "golang" || p.Score != 15 {
		t.Errorf("unexpected post item: %+v", p)
	}
	if p.Permalink != server.URL+"/r/golang/comments/abc/slug/" {
		t.Errorf("expected absolute permalink, got %q", p.Permalink)
	}
	c := content.Items[1]
	if c.Kind != persona.KindComment || c.Text != "a comment" {
		t.Errorf("unexpected comment item: %+v", c)
	}
}

func TestFetchUserPaginates(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/busy/about.json" {
			writeJSON(w, map[string]any{"data": map[string]any{}})
			return
		}
		after := r.URL.Query().Get("after")
		pages = append(pages, after)
		switch after {
		case "":
			writeJSON(w, listingPage("t3_p2", commentChild("one", "a", 1)))
		case "t3_p2":
			writeJSON(w, listingPage("t3_p3", commentChild("two", "a", 1)))
		default:
			writeJSON(w, listingPage("t3_p4", commentChild("three", "a", 1)))
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	content, err := client.FetchUser(context.Background(), "busy")
	if err != nil {
		t.Fatalf("FetchUser: %v", err)
	}

	if len(content.Items) != 3 {
		t.Errorf("expected 3 items across pages, got %d", len(content.Items))
	}
	// maxPages=3 stops pagination even though a cursor remains.
	if len(pages) != 3 {
		t.Errorf("expected 3 listing requests, got %d (%v)", len(pages), pages)
	}
}

func TestFetchUserRetriesOnceOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/limited/about.json" {
			writeJSON(w, map[string]any{"data": map[string]any{}})
			return
		}
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, listingPage("", commentChild("finally", "a", 1)))
	}))
	defer server.Close()

	client := testClient(server.URL)
	content, err := client.FetchUser(context.Background(), "limited")
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected exactly one retry, got %d attempts", attempts)
	}
	if len(content.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(content.Items))
	}
}

func TestFetchUserPersistent429Fails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.FetchUser(context.Background(), "limited"); err == nil {
		t.Error("expected error after exhausted retry")
	}
}

func TestFetchUserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.FetchUser(context.Background(), "ghost"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchUserEmptyListingIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/empty/about.json" {
			writeJSON(w, map[string]any{"data": map[string]any{}})
			return
		}
		writeJSON(w, listingPage(""))
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.FetchUser(context.Background(), "empty"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for empty profile, got %v", err)
	}
}

func TestFetchUserToleratesMissingAbout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/shy/about.json" {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
			return
		}
		writeJSON(w, listingPage("", commentChild("hi", "a", 1)))
	}))
	defer server.Close()

	client := testClient(server.URL)
	content, err := client.FetchUser(context.Background(), "shy")
	if err != nil {
		t.Fatalf("about failure must not fail the fetch: %v", err)
	}
	if content.Info != nil {
		t.Error("expected nil account info when about.json fails")
	}
}

func TestFetchUserSendsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		writeJSON(w, listingPage("", commentChild("hi", "a", 1)))
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.FetchUser(context.Background(), "anyone")

	if agent != "test-agent" {
		t.Errorf("expected configured user agent, got %q", agent)
	}
}
