package fetcher

import (
	"context"
	"strings"
	"time"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

// Fetcher produces scored items from one class of source. Failures of a
// single source are absorbed by the implementation; an error is returned
// only when the whole fetch had to stop, e.g. on context cancellation.
type Fetcher interface {
	Fetch(ctx context.Context) ([]radar.Item, error)
}

// Sourcer lists the static sources a fetcher polls, for the report header.
type Sourcer interface {
	Sources() []radar.Source
}

const (
	feedSummaryLen = 280
	repoSummaryLen = 220
	maxRepoTags    = 8
)

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// utc returns a copy of t in UTC, or nil.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
