package reddit

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/AnasShams/reddit-persona-generator/internal/persona"
)

// FeedSource reads a user's public Atom feed instead of the JSON API.
// Feeds carry no vote scores and no account info, so personas built
// from them have score 0 everywhere and an "Unknown" account age, but
// the text analysis works the same. Useful when the JSON endpoints are
// blocked.
type FeedSource struct {
	baseURL string
	parser  *gofeed.Parser
}

// NewFeedSource creates a feed-backed source.
func NewFeedSource(baseURL string) *FeedSource {
	return &FeedSource{baseURL: baseURL, parser: gofeed.NewParser()}
}

// FetchUser parses /user/{name}/.rss into content items.
func (f *FeedSource) FetchUser(ctx context.Context, username string) (*UserContent, error) {
	feedURL := fmt.Sprintf("%s/user/%s/.rss", f.baseURL, username)

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing user feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, ErrNotFound
	}

	var items []persona.ContentItem
	for _, entry := range feed.Items {
		if item := normalizeFeedEntry(entry); item != nil {
			items = append(items, *item)
		}
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	log.Printf("Parsed %d feed entries for u/%s", len(items), username)
	return &UserContent{Items: items}, nil
}

func normalizeFeedEntry(entry *gofeed.Item) *persona.ContentItem {
	if entry.Link == "" {
		return nil
	}

	text := entry.Title
	if entry.Content != "" {
		text += " " + stripHTML(entry.Content)
	} else if entry.Description != "" {
		text += " " + stripHTML(entry.Description)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var subreddit string
	if len(entry.Categories) > 0 {
		subreddit = strings.TrimPrefix(entry.Categories[0], "r/")
	}

	return &persona.ContentItem{
		Kind:      classifyPermalink(entry.Link),
		Text:      text,
		Subreddit: subreddit,
		Permalink: entry.Link,
		Score:     0,
	}
}

// classifyPermalink tells posts from comments by link shape: a post
// link ends at /r/sub/comments/id/slug/, a comment link has one more
// path segment for the comment id.
func classifyPermalink(link string) persona.Kind {
	trimmed := strings.Trim(link, "/")
	if i := strings.Index(trimmed, "/comments/"); i >= 0 {
		rest := trimmed[i+len("/comments/"):]
		if strings.Count(rest, "/") >= 2 {
			return persona.KindComment
		}
	}
	return persona.KindPost
}

// stripHTML removes tags and decodes the common entities found in feed
// entry bodies.
func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
