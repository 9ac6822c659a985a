package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/arbor"

	"github.com/ryosukesatoh/narrative-radar/internal/config"
	"github.com/ryosukesatoh/narrative-radar/internal/radar"
	"github.com/ryosukesatoh/narrative-radar/internal/score"
	"github.com/ryosukesatoh/narrative-radar/internal/tagger"
)

// FeedFetcher reads RSS/Atom feeds one source at a time.
type FeedFetcher struct {
	parser     *gofeed.Parser
	sources    []config.FeedSource
	windowDays int
	now        func() time.Time
	log        arbor.ILogger
}

func NewFeedFetcher(sources []config.FeedSource, windowDays int, client *http.Client, log arbor.ILogger) *FeedFetcher {
	p := gofeed.NewParser()
	p.Client = client
	return &FeedFetcher{
		parser:     p,
		sources:    sources,
		windowDays: windowDays,
		now:        time.Now,
		log:        log,
	}
}

func (f *FeedFetcher) Sources() []radar.Source {
	out := make([]radar.Source, 0, len(f.sources))
	for _, s := range f.sources {
		out = append(out, radar.Source{ID: s.ID, Label: s.Label, URL: s.URL, Kind: radar.SourceKindRSS})
	}
	return out
}

func (f *FeedFetcher) Fetch(ctx context.Context) ([]radar.Item, error) {
	now := f.now()
	cutoff := score.Cutoff(now, f.windowDays)
	seen := make(map[string]bool)
	var items []radar.Item

	for _, src := range f.sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("feed: %w", err)
		}

		feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			f.log.Warn().Err(err).Str("source", src.ID).Msg("Feed fetch failed, skipping source")
			continue
		}

		n := 0
		for _, entry := range feed.Items {
			it, ok := f.itemFrom(src, entry, now, cutoff)
			if !ok || seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			items = append(items, it)
			n++
		}
		f.log.Debug().Str("source", src.ID).Msgf("Fetched %d feed posts", n)
	}

	return items, nil
}

func (f *FeedFetcher) itemFrom(src config.FeedSource, entry *gofeed.Item, now, cutoff time.Time) (radar.Item, bool) {
	published := entry.PublishedParsed
	if published == nil {
		published = entry.UpdatedParsed
	}
	if score.Expired(published, cutoff) {
		return radar.Item{}, false
	}

	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if link == "" && len(entry.Links) > 0 {
		link = strings.TrimSpace(entry.Links[0])
	}
	if title == "" || link == "" {
		return radar.Item{}, false
	}

	text := entry.Description
	if text == "" {
		text = entry.Content
	}
	text = stripHTML(text)

	age := score.AgeDays(published, now, f.windowDays)
	return radar.Item{
		ID:          fmt.Sprintf("rss:%s:%s", src.ID, link),
		Kind:        radar.KindFeedPost,
		SourceID:    src.ID,
		SourceLabel: src.Label,
		Title:       title,
		URL:         link,
		PublishedAt: utc(published),
		Score:       score.Feed(age, f.windowDays),
		Tags:        tagger.Tag(title+" "+text, tagger.FeedRules),
		Summary:     truncate(text, feedSummaryLen),
	}, true
}
