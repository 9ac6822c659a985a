// Package radar holds the data shapes shared by every stage of the
// fetch -> score -> cluster -> emit pipeline.
package radar

import "time"

// Kind identifies where an item came from.
type Kind string

const (
	KindFeedPost   Kind = "feed_post"
	KindRepository Kind = "repository"
)

// SourceKind identifies the type of a configured source.
type SourceKind string

const (
	SourceKindRSS    SourceKind = "rss"
	SourceKindGitHub SourceKind = "github"
)

// Item is a single scored signal.
type Item struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	SourceID    string     `json:"sourceId"`
	SourceLabel string     `json:"sourceLabel"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Score       float64    `json:"score"`
	Tags        []string   `json:"tags"`
	Summary     string     `json:"summary,omitempty"`
}

// Evidence is the reduced form of an item attached to a narrative.
type Evidence struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	SourceLabel string `json:"sourceLabel"`
}

// Idea is a templated build suggestion.
type Idea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Narrative groups the best items sharing a primary tag.
type Narrative struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Score    float64    `json:"score"`
	Why      []string   `json:"why"`
	Evidence []Evidence `json:"evidence"`
	Ideas    []Idea     `json:"ideas"`
	Tags     []string   `json:"tags"`
}

// Source describes a configured feed or search query in the report.
type Source struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	URL   string     `json:"url"`
	Kind  SourceKind `json:"kind"`
}

// Window is the lookback window of a run.
type Window struct {
	Days int `json:"days"`
}

// Report is the document written at the end of every run.
type Report struct {
	GeneratedAt string      `json:"generatedAt"`
	Window      Window      `json:"window"`
	Sources     []Source    `json:"sources"`
	Narratives  []Narrative `json:"narratives"`
	Items       []Item      `json:"items"`
}
