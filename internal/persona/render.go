package persona

import (
	"fmt"
	"strings"
)

// RenderMarkdown serializes a composed persona into the final report.
// Sections appear in fixed order and every heading is printed even when
// its body is empty, so two reports are always structurally comparable.
func RenderMarkdown(p *Persona, lim Limits) string {
	lim = lim.withDefaults()
	var b strings.Builder

	fmt.Fprintf(&b, "# User Persona: %s\n\n", p.Username)

	b.WriteString("## Basic Information\n\n")
	fmt.Fprintf(&b, "- Username: u/%s\n", p.Username)
	fmt.Fprintf(&b, "- Account Age: %s\n", p.AccountAge)
	fmt.Fprintf(&b, "- Total Karma: %d\n", p.TotalKarma)
	fmt.Fprintf(&b, "- Comment Karma: %d\n", p.CommentKarma)
	fmt.Fprintf(&b, "- Link Karma: %d\n", p.LinkKarma)
	fmt.Fprintf(&b, "- Posts Created: %d\n", p.PostCount)
	fmt.Fprintf(&b, "- Comments Made: %d\n", p.CommentCount)

	b.WriteString("\n## Top Subreddits\n\n")
	for _, s := range p.TopSubreddits {
		fmt.Fprintf(&b, "- r/%s (%d interactions)\n", s.Name, s.Count)
	}

	b.WriteString("\n## Interests & Hobbies\n\n")
	renderCategories(&b, p.Interests, "mentions", lim.InterestCitations)

	b.WriteString("\n## Personality Traits\n\n")
	renderCategories(&b, p.Traits, "indicators", lim.TraitCitations)

	b.WriteString("\n## Behavior Patterns\n\n")
	for _, statement := range p.Behaviors {
		fmt.Fprintf(&b, "- %s\n", statement)
	}

	b.WriteString("\n## Goals & Motivations\n\n")
	renderStatements(&b, p.Goals)

	b.WriteString("\n## Frustrations & Pain Points\n\n")
	renderStatements(&b, p.Frustrations)

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "Generated on %s\n", p.GeneratedAt.Format("2006-01-02 15:04:05"))

	return b.String()
}

// renderCategories writes scored categories with their citations.
// Zero-score categories are held in the persona for callers but not
// rendered.
func renderCategories(b *strings.Builder, scores []CategoryScore, unit string, maxCitations int) {
	for _, cs := range scores {
		if cs.Score <= 0 {
			continue
		}
		fmt.Fprintf(b, "- **%s**: %d %s\n", titleCase(cs.Name), cs.Score, unit)
		citations := cs.Citations
		if len(citations) > maxCitations {
			citations = citations[:maxCitations]
		}
		for _, c := range citations {
			fmt.Fprintf(b, "  - %s\n", citationLine(c, true))
		}
	}
}

func renderStatements(b *strings.Builder, statements []Statement) {
	for _, s := range statements {
		if s.Text == "" {
			continue
		}
		fmt.Fprintf(b, "- %s\n", s.Text)
		fmt.Fprintf(b, "  - %s\n", citationLine(s.Citation, false))
	}
}

// citationLine formats a single citation reference. withExcerpt adds
// the truncated item text in front of the permalink.
func citationLine(c Citation, withExcerpt bool) string {
	subreddit := c.Subreddit
	if subreddit == "" {
		subreddit = "unknown"
	}

	link := "N/A"
	if c.Permalink != "" {
		link = fmt.Sprintf("[link](%s)", c.Permalink)
	}

	if withExcerpt {
		return fmt.Sprintf("r/%s: %s (%s)", subreddit, c.Excerpt, link)
	}
	return fmt.Sprintf("r/%s (%s)", subreddit, link)
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
