// Package score implements the heuristic relevance formulas applied to
// items at fetch time.
package score

import (
	"math"
	"time"
)

const (
	// FeedBase is the starting score of every feed post.
	FeedBase = 30.0
	// RepositoryBase is the starting score of every search result.
	RepositoryBase = 40.0
	// RecencyPerDay is the bonus per day of age below the window length.
	RecencyPerDay = 2.0
	// PopularityScale multiplies log10(1 + stars).
	PopularityScale = 10.0
)

const day = 24 * time.Hour

// Cutoff returns the oldest instant still inside the lookback window.
func Cutoff(now time.Time, windowDays int) time.Time {
	return now.Add(-time.Duration(windowDays) * day)
}

// Expired reports whether ts lies strictly before cutoff.
// A nil timestamp is never expired.
func Expired(ts *time.Time, cutoff time.Time) bool {
	return ts != nil && ts.Before(cutoff)
}

// AgeDays returns the fractional age of published relative to now.
// Unknown timestamps count as windowDays old; future ones as zero.
func AgeDays(published *time.Time, now time.Time, windowDays int) float64 {
	if published == nil {
		return float64(windowDays)
	}
	return math.Max(0, now.Sub(*published).Hours()/24)
}

// Recency is the linear bonus max(0, windowDays - ageDays) * RecencyPerDay.
func Recency(ageDays float64, windowDays int) float64 {
	return math.Max(0, float64(windowDays)-ageDays) * RecencyPerDay
}

// Popularity is log10(1 + stars) * PopularityScale. Negative counts are
// treated as zero.
func Popularity(stars int) float64 {
	if stars < 0 {
		stars = 0
	}
	return math.Log10(1+float64(stars)) * PopularityScale
}

// Feed scores a feed post.
func Feed(ageDays float64, windowDays int) float64 {
	return FeedBase + Recency(ageDays, windowDays)
}

// Repository scores a repository search result.
func Repository(stars int, ageDays float64, windowDays int) float64 {
	return RepositoryBase + Popularity(stars) + Recency(ageDays, windowDays)
}
