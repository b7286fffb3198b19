package articles

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Relevance weights. A title hit outranks an excerpt hit, which
// outranks a content hit.
const (
	titleWeight   = 5
	excerptWeight = 3
	contentWeight = 1
)

var searchFolder = cases.Fold()

// SearchResult pairs an article with its relevance score and the
// display label of its category.
type SearchResult struct {
	Article       Article `json:"article"`
	Score         int     `json:"score"`
	CategoryLabel string  `json:"categoryLabel,omitempty"`
}

func fold(s string) string {
	return searchFolder.String(s)
}

// countMatches counts non-overlapping occurrences of each query term.
func countMatches(haystack string, terms []string) int {
	total := 0
	for _, term := range terms {
		total += strings.Count(haystack, term)
	}
	return total
}

// Rank scores articles against the query with case folding and returns
// matches ordered by descending score. Ties break on recency. Articles
// matching no term are omitted.
func Rank(items []Article, query string) []SearchResult {
	terms := strings.Fields(fold(query))
	if len(terms) == 0 {
		return nil
	}

	var results []SearchResult
	for _, a := range items {
		score := titleWeight*countMatches(fold(a.Title), terms) +
			excerptWeight*countMatches(fold(a.Excerpt), terms) +
			contentWeight*countMatches(fold(a.Content), terms)
		if score > 0 {
			results = append(results, SearchResult{
				Article:       a,
				Score:         score,
				CategoryLabel: DisplayCategory(a.Category),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Article.UpdatedAt.After(results[j].Article.UpdatedAt)
	})
	return results
}

// titleCaser renders category labels for display.
var titleCaser = cases.Title(language.English)

// DisplayCategory formats a stored category slug for UI labels.
func DisplayCategory(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}
