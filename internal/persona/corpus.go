package persona

import "strings"

// corpus holds the lowercased view of the input items: one combined
// string for aggregate keyword counting and the per-item texts for
// citation lookup. Item order is preserved and empty texts are kept so
// indexes line up with the input slice.
type corpus struct {
	combined string
	texts    []string
}

func buildCorpus(items []ContentItem) corpus {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = strings.ToLower(item.Text)
	}
	return corpus{
		combined: strings.Join(texts, " "),
		texts:    texts,
	}
}
