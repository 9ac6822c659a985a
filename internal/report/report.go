// Package report assembles the single output document of a run.
package report

import (
	"time"

	"github.com/ryosukesatoh/narrative-radar/internal/narrative"
	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

// MaxItems bounds the item list of the output document.
const MaxItems = 200

// TimeFormat renders generatedAt as UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Assemble builds the report. Items are copied, stable-sorted by score and
// truncated to MaxItems; narratives are taken as given, since they are
// built from the untruncated item list.
func Assemble(now time.Time, windowDays int, sources []radar.Source, items []radar.Item, narratives []radar.Narrative) *radar.Report {
	sorted := append([]radar.Item(nil), items...)
	narrative.SortByScore(sorted)
	if len(sorted) > MaxItems {
		sorted = sorted[:MaxItems]
	}
	if sorted == nil {
		sorted = []radar.Item{}
	}
	if sources == nil {
		sources = []radar.Source{}
	}
	if narratives == nil {
		narratives = []radar.Narrative{}
	}
	return &radar.Report{
		GeneratedAt: now.UTC().Format(TimeFormat),
		Window:      radar.Window{Days: windowDays},
		Sources:     sources,
		Narratives:  narratives,
		Items:       sorted,
	}
}
