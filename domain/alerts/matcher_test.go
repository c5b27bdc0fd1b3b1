package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches_CaseInsensitiveSubstring(t *testing.T) {
	search := SavedSearch{ID: "s1", Keywords: "backend", Location: "jakarta"}

	assert.True(t, search.Matches(Posting{Title: "Senior Backend Engineer", Location: "Jakarta, Indonesia"}))
	assert.True(t, search.Matches(Posting{Title: "BACKEND developer", Location: "jakarta"}))
	assert.False(t, search.Matches(Posting{Title: "Frontend Engineer", Location: "Jakarta"}))
	assert.False(t, search.Matches(Posting{Title: "Backend Engineer", Location: "Bandung"}))
}

func TestMatches_LocationOptional(t *testing.T) {
	search := SavedSearch{ID: "s1", Keywords: "data"}

	assert.True(t, search.Matches(Posting{Title: "Data Analyst", Location: "anywhere"}))
	assert.True(t, search.Matches(Posting{Title: "Data Analyst"}))
}

func TestMatches_EmptyKeywordsMatchNothing(t *testing.T) {
	search := SavedSearch{ID: "s1", Keywords: "", Location: "Jakarta"}

	assert.False(t, search.Matches(Posting{Title: "Backend Engineer", Location: "Jakarta"}))
}

func TestMatchAll_OneMatchPerPair(t *testing.T) {
	postings := []Posting{
		{ID: "p1", Title: "Backend Engineer", Location: "Jakarta"},
		{ID: "p2", Title: "Mobile Engineer", Location: "Surabaya"},
	}
	searches := []SavedSearch{
		{ID: "s1", Keywords: "engineer"},
		{ID: "s2", Keywords: "backend", Location: "jakarta"},
	}

	matches := MatchAll(postings, searches)

	// p1 satisfies both criteria, p2 only the first.
	require.Len(t, matches, 3)
	assert.Equal(t, "p1", matches[0].Posting.ID)
	assert.Equal(t, "s1", matches[0].Search.ID)
	assert.Equal(t, "p1", matches[1].Posting.ID)
	assert.Equal(t, "s2", matches[1].Search.ID)
	assert.Equal(t, "p2", matches[2].Posting.ID)
	assert.Equal(t, "s1", matches[2].Search.ID)
}

func TestMatchAll_EmptyInputs(t *testing.T) {
	assert.Empty(t, MatchAll(nil, []SavedSearch{{ID: "s1", Keywords: "go"}}))
	assert.Empty(t, MatchAll([]Posting{{ID: "p1", Title: "Go Developer"}}, nil))
}
