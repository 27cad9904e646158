// Package reddit fetches public profile data and normalizes it into
// content items for the persona engine. It is the only place that
// talks to the network; the engine itself never does.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnasShams/reddit-persona-generator/internal/config"
	"github.com/AnasShams/reddit-persona-generator/internal/persona"
)

// ErrNotFound means the user does not exist or has no public content.
var ErrNotFound = errors.New("reddit: user not found or has no public content")

// UserContent is the normalized fetch result handed to the engine.
type UserContent struct {
	Info  *persona.AccountInfo  `json:"info,omitempty"`
	Items []persona.ContentItem `json:"items"`
}

// Source produces normalized user content. Implemented by Client and
// FeedSource.
type Source interface {
	FetchUser(ctx context.Context, username string) (*UserContent, error)
}

// Client fetches user data through Reddit's public JSON API.
type Client struct {
	baseURL    string
	userAgent  string
	client     *http.Client
	limiter    *rate.Limiter
	maxPages   int
	pageSize   int
	retryDelay time.Duration
}

// NewClient creates a client from the reddit config section.
func NewClient(cfg config.Reddit) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxPages:   maxPages,
		pageSize:   pageSize,
		retryDelay: 10 * time.Second,
	}
}

// FetchUser fetches account info and up to maxPages of the user's
// overview listing (posts and comments). Account info is best-effort:
// a failed about.json lookup degrades to nil, which the engine
// tolerates.
func (c *Client) FetchUser(ctx context.Context, username string) (*UserContent, error) {
	info := c.fetchAbout(ctx, username)

	items, err := c.fetchOverview(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	log.Printf("Fetched %d items for u/%s", len(items), username)
	return &UserContent{Info: info, Items: items}, nil
}

func (c *Client) fetchAbout(ctx context.Context, username string) *persona.AccountInfo {
	var about struct {
		Data struct {
			CreatedUTC   float64 `json:"created_utc"`
			TotalKarma   int     `json:"total_karma"`
			CommentKarma int     `json:"comment_karma"`
			LinkKarma    int     `json:"link_karma"`
			Verified     bool    `json:"verified"`
		} `json:"data"`
	}

	aboutURL := fmt.Sprintf("%s/user/%s/about.json", c.baseURL, url.PathEscape(username))
	if err := c.getJSON(ctx, aboutURL, &about); err != nil {
		log.Printf("Could not fetch account info for u/%s: %v", username, err)
		return nil
	}

	info := &persona.AccountInfo{
		TotalKarma:   about.Data.TotalKarma,
		CommentKarma: about.Data.CommentKarma,
		LinkKarma:    about.Data.LinkKarma,
		Verified:     about.Data.Verified,
	}
	if about.Data.CreatedUTC > 0 {
		created := time.Unix(int64(about.Data.CreatedUTC), 0).UTC()
		info.CreatedUTC = &created
	}
	return info
}

// listing is the wire shape of a Reddit listing page. Kind t3 entries
// are posts, t1 entries are comments.
type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string `json:"kind"`
			Data struct {
				Title     string `json:"title"`
				Selftext  string `json:"selftext"`
				Body      string `json:"body"`
				Subreddit string `json:"subreddit"`
				Permalink string `json:"permalink"`
				Score     int    `json:"score"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Client) fetchOverview(ctx context.Context, username string) ([]persona.ContentItem, error) {
	var items []persona.ContentItem
	after := ""

	for page := 0; page < c.maxPages; page++ {
		params := url.Values{"limit": {fmt.Sprintf("%d", c.pageSize)}}
		if after != "" {
			params.Set("after", after)
		}
		pageURL := fmt.Sprintf("%s/user/%s.json?%s", c.baseURL, url.PathEscape(username), params.Encode())

		var lst listing
		if err := c.getJSON(ctx, pageURL, &lst); err != nil {
			return nil, err
		}

		if len(lst.Data.Children) == 0 {
			break
		}

		for _, child := range lst.Data.Children {
			item, ok := normalizeChild(child.Kind, child.Data.Title, child.Data.Selftext,
				child.Data.Body, child.Data.Subreddit, child.Data.Permalink, child.Data.Score)
			if ok {
				item.Permalink = c.absoluteURL(item.Permalink)
				items = append(items, item)
			}
		}

		after = lst.Data.After
		if after == "" {
			break
		}
	}

	return items, nil
}

// getJSON performs one rate-limited GET and decodes the response. On
// HTTP 429 it waits and retries the request exactly once.
func (c *Client) getJSON(ctx context.Context, rawURL string, dest any) error {
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", rawURL, err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(dest)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return ErrNotFound

		case resp.StatusCode == http.StatusTooManyRequests && attempt == 0:
			resp.Body.Close()
			log.Printf("Rate limited by Reddit, retrying in %s", c.retryDelay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}

		default:
			resp.Body.Close()
			return fmt.Errorf("reddit API error: HTTP %d for %s", resp.StatusCode, rawURL)
		}
	}
	return fmt.Errorf("reddit API error: still rate limited after retry")
}

func (c *Client) absoluteURL(permalink string) string {
	if permalink == "" {
		return ""
	}
	return c.baseURL + permalink
}

// normalizeChild converts one listing child into a content item.
// Posts concatenate title and selftext; comments use the body.
func normalizeChild(kind, title, selftext, body, subreddit, permalink string, score int) (persona.ContentItem, bool) {
	switch kind {
	case "t3":
		return persona.ContentItem{
			Kind:      persona.KindPost,
			Text:      title + " " + selftext,
			Subreddit: subreddit,
			Permalink: permalink,
			Score:     score,
		}, true
	case "t1":
		return persona.ContentItem{
			Kind:      persona.KindComment,
			Text:      body,
			Subreddit: subreddit,
			Permalink: permalink,
			Score:     score,
		}, true
	}
	return persona.ContentItem{}, false
}
