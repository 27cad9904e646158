package persona

import (
	"fmt"
	"sort"
)

// analyzeBehavior derives 0-4 rule-based statements about posting
// habits. Unlike the keyword analyzers it attaches no citations.
func analyzeBehavior(items []ContentItem, lim Limits) []string {
	var posts, comments []ContentItem
	for _, item := range items {
		if item.Kind == KindPost {
			posts = append(posts, item)
		} else {
			comments = append(comments, item)
		}
	}

	var behaviors []string

	if len(posts) > len(comments) {
		behaviors = append(behaviors, "More likely to create original posts than comment")
	} else if len(comments) > len(posts) {
		behaviors = append(behaviors, "More active in commenting than posting")
	}

	if len(posts) > 0 && meanScore(posts) > float64(lim.PostScoreThreshold) {
		behaviors = append(behaviors, "Creates engaging content with good community response")
	}
	if len(comments) > 0 && meanScore(comments) > float64(lim.CommentScoreThreshold) {
		behaviors = append(behaviors, "Provides valuable comments that receive positive feedback")
	}

	if top := countSubreddits(items); len(top) > 0 {
		behaviors = append(behaviors, fmt.Sprintf("Most active in r/%s with %d interactions", top[0].Name, top[0].Count))
	}

	return behaviors
}

func meanScore(items []ContentItem) float64 {
	total := 0
	for _, item := range items {
		total += item.Score
	}
	return float64(total) / float64(len(items))
}

// countSubreddits tallies how often each known subreddit appears,
// ordered by count descending. Ties keep first-encountered order.
func countSubreddits(items []ContentItem) []SubredditCount {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if item.Subreddit == "" {
			continue
		}
		if _, seen := counts[item.Subreddit]; !seen {
			order = append(order, item.Subreddit)
		}
		counts[item.Subreddit]++
	}

	result := make([]SubredditCount, 0, len(order))
	for _, name := range order {
		result = append(result, SubredditCount{Name: name, Count: counts[name]})
	}
	// Stable sort preserves first-encounter order among equal counts.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}
