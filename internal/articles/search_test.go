package articles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleArticles() []Article {
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []Article{
		{ID: 1, Title: "Paying your monthly fee", Excerpt: "How payments work",
			Content: "Monthly fees are due on the first of each month.", UpdatedAt: base},
		{ID: 2, Title: "Booking the common room", Excerpt: "Reservations",
			Content: "Contact the syndic to reserve. No payment needed.", UpdatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Waste collection schedule", Excerpt: "Bins",
			Content: "Bins are collected Mondays and Thursdays.", UpdatedAt: base.Add(2 * time.Hour)},
	}
}

func TestRankOrdersByScore(t *testing.T) {
	results := Rank(sampleArticles(), "payment")
	require.Len(t, results, 2)
	// Article 1 matches in its excerpt, article 2 only in content.
	require.Equal(t, int64(1), results[0].Article.ID)
	require.Equal(t, int64(2), results[1].Article.ID)
	require.Greater(t, results[0].Score, results[1].Score)
}

func TestRankTitleOutranksContent(t *testing.T) {
	items := []Article{
		{ID: 1, Title: "Elevator rules", Content: "General house rules."},
		{ID: 2, Title: "House rules", Content: "Covers the elevator too."},
	}
	results := Rank(items, "elevator")
	require.Len(t, results, 2)
	require.Equal(t, int64(1), results[0].Article.ID)
}

func TestRankCaseFolded(t *testing.T) {
	results := Rank(sampleArticles(), "PAYMENT")
	require.Len(t, results, 2)

	results = Rank(sampleArticles(), "monthly")
	require.NotEmpty(t, results)
	require.Equal(t, int64(1), results[0].Article.ID)
}

func TestRankNoMatches(t *testing.T) {
	require.Empty(t, Rank(sampleArticles(), "swimming pool heater"))
}

func TestRankEmptyQuery(t *testing.T) {
	require.Nil(t, Rank(sampleArticles(), "   "))
}

func TestRankMultiTermAccumulates(t *testing.T) {
	results := Rank(sampleArticles(), "monthly fee")
	require.NotEmpty(t, results)
	require.Equal(t, int64(1), results[0].Article.ID)

	single := Rank(sampleArticles(), "monthly")
	require.Greater(t, results[0].Score, single[0].Score)
}

func TestRankTieBreaksOnRecency(t *testing.T) {
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	items := []Article{
		{ID: 1, Title: "Parking", UpdatedAt: base},
		{ID: 2, Title: "Parking", UpdatedAt: base.Add(time.Hour)},
	}
	results := Rank(items, "parking")
	require.Len(t, results, 2)
	require.Equal(t, int64(2), results[0].Article.ID)
}

func TestDisplayCategory(t *testing.T) {
	require.Equal(t, "House Rules", DisplayCategory("house_rules"))
}

func TestRankCarriesCategoryLabel(t *testing.T) {
	items := []Article{
		{ID: 1, Title: "Fee payments", Category: "house_rules"},
		{ID: 2, Title: "Fee schedule"},
	}
	results := Rank(items, "fee")
	require.Len(t, results, 2)
	for _, res := range results {
		if res.Article.ID == 1 {
			require.Equal(t, "House Rules", res.CategoryLabel)
		} else {
			require.Empty(t, res.CategoryLabel)
		}
	}
}
