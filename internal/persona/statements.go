package persona

import "strings"

// extractStatements pulls sentence-level statements out of the items
// for a trigger-keyword set. It powers both the goal and the
// frustration analyzer.
//
// Traversal order is items first, then keywords in declared order. For
// each (item, keyword) pair the item's lowercased text is split on "."
// and the first sentence containing the keyword becomes a statement
// citing that item; later sentences for the same pair are skipped. The
// accumulated list is cut to the first max statements overall.
func extractStatements(items []ContentItem, keywords []string, max, excerptLen int) []Statement {
	var out []Statement
	for _, item := range items {
		text := strings.ToLower(item.Text)
		for _, kw := range keywords {
			if !strings.Contains(text, kw) {
				continue
			}
			for _, sentence := range strings.Split(text, ".") {
				if strings.Contains(sentence, kw) {
					out = append(out, Statement{
						Text:     strings.TrimSpace(sentence),
						Citation: newCitation(item, excerptLen),
					})
					break
				}
			}
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}
