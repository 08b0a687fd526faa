package library

import (
	"strings"

	"prompt-library/internal/db"
)

// AllCategories is the selector value that bypasses the category gate.
const AllCategories = "All"

// CategoryGroup is one display bucket of filtered prompts.
type CategoryGroup struct {
	Category string      `json:"category"`
	Prompts  []db.Prompt `json:"prompts"`
}

// Filter returns the prompts passing both gates: the category matches (or
// the selector is "All") and the query is a case-insensitive substring of
// the title or content. An empty query matches everything.
func Filter(prompts []db.Prompt, query, category string) []db.Prompt {
	needle := strings.ToLower(query)
	out := make([]db.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if category != AllCategories && category != "" && p.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Content), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GroupByCategory buckets prompts by category. Buckets appear in
// first-seen-category order and each bucket preserves the input order.
func GroupByCategory(prompts []db.Prompt) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, p := range prompts {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CategoryGroup{Category: p.Category})
		}
		groups[i].Prompts = append(groups[i].Prompts, p)
	}
	return groups
}
