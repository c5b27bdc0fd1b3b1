// Package alerts derives new-posting notifications from saved searches.
// It is read-only over its inputs and keeps no state; callers recompute on
// every change to either set.
package alerts

import "strings"

// Frequency is how often the owner wants alert digests.
type Frequency string

const (
	FrequencyInstant Frequency = "instant"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
)

// SavedSearch is one subscribed criterion. Its lifecycle is independent of
// application records.
type SavedSearch struct {
	ID        string    `json:"id"`
	Keywords  string    `json:"keywords"`
	Location  string    `json:"location,omitempty"`
	Frequency Frequency `json:"frequency"`
}

// Posting is an externally sourced job posting fed to the matcher. The
// engine never fetches or caches these itself.
type Posting struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
}

// Match pairs a posting with the criterion that matched it.
type Match struct {
	Posting Posting     `json:"posting"`
	Search  SavedSearch `json:"search"`
}

// Matches reports whether the posting satisfies the criterion: the title
// must contain the keywords as a case-insensitive substring, and when the
// criterion names a location the posting location must contain it the same
// way. A criterion with empty keywords matches nothing.
func (s SavedSearch) Matches(p Posting) bool {
	if s.Keywords == "" {
		return false
	}
	if !containsFold(p.Title, s.Keywords) {
		return false
	}
	if s.Location != "" && !containsFold(p.Location, s.Location) {
		return false
	}
	return true
}

// MatchAll returns one Match per (posting, matching criterion) pair, in
// posting order then criterion order. A posting that satisfies several
// criteria appears once per criterion; callers wanting set semantics
// deduplicate by posting ID.
func MatchAll(postings []Posting, searches []SavedSearch) []Match {
	var out []Match
	for _, p := range postings {
		for _, s := range searches {
			if s.Matches(p) {
				out = append(out, Match{Posting: p, Search: s})
			}
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
