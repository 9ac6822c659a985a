package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ryosukesatoh/narrative-radar/internal/fetcher"
	"github.com/ryosukesatoh/narrative-radar/internal/narrative"
	"github.com/ryosukesatoh/narrative-radar/internal/publisher"
	"github.com/ryosukesatoh/narrative-radar/internal/radar"
	"github.com/ryosukesatoh/narrative-radar/internal/report"
)

// Runner orchestrates the fetch -> cluster -> emit pipeline.
type Runner struct {
	windowDays int
	feeds      fetcher.Fetcher
	search     fetcher.Fetcher
	sources    []radar.Source
	output     publisher.Publisher
	publishers []publisher.Publisher
	log        arbor.ILogger
	now        func() time.Time
}

// New wires a runner. output receives every report and its failure fails
// the run; publishers are best-effort.
func New(windowDays int, feeds, search fetcher.Fetcher, sources []radar.Source, output publisher.Publisher, pubs []publisher.Publisher, log arbor.ILogger) *Runner {
	return &Runner{
		windowDays: windowDays,
		feeds:      feeds,
		search:     search,
		sources:    sources,
		output:     output,
		publishers: pubs,
		log:        log,
		now:        time.Now,
	}
}

type fetchResult struct {
	items []radar.Item
	err   error
}

// Run executes the full pipeline once.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	start := r.now()
	r.log.Info().Str("run_id", runID).Msgf("Starting run (window=%d days)", r.windowDays)

	// Step 1: fetch feeds and search results concurrently
	var feedRes, searchRes fetchResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		feedRes.items, feedRes.err = r.feeds.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		searchRes.items, searchRes.err = r.search.Fetch(ctx)
	}()
	wg.Wait()

	if feedRes.err != nil {
		return fmt.Errorf("runner: feed fetch failed: %w", feedRes.err)
	}
	if searchRes.err != nil {
		return fmt.Errorf("runner: search fetch failed: %w", searchRes.err)
	}
	r.log.Info().Str("run_id", runID).Msgf("Fetched %d feed posts and %d repositories", len(feedRes.items), len(searchRes.items))

	items := make([]radar.Item, 0, len(feedRes.items)+len(searchRes.items))
	items = append(items, feedRes.items...)
	items = append(items, searchRes.items...)

	// Step 2: cluster into narratives
	narratives := narrative.Builder{WindowDays: r.windowDays}.Build(items)
	r.log.Info().Str("run_id", runID).Msgf("Built %d narratives", len(narratives))

	// Step 3: assemble and emit
	doc := report.Assemble(r.now(), r.windowDays, r.sources, items, narratives)
	if err := r.output.Publish(ctx, doc); err != nil {
		return fmt.Errorf("runner: write report failed: %w", err)
	}

	// Continue with other publishers even if one fails
	failed := 0
	for _, pub := range r.publishers {
		if err := pub.Publish(ctx, doc); err != nil {
			failed++
			r.log.Warn().Err(err).Str("run_id", runID).Msgf("Publish via %T failed", pub)
			continue
		}
		r.log.Debug().Str("run_id", runID).Msgf("Published via %T", pub)
	}
	if failed > 0 {
		r.log.Warn().Str("run_id", runID).Msgf("Run completed with %d publisher failures out of %d publishers", failed, len(r.publishers))
	}

	r.log.Info().Str("run_id", runID).Msgf("Run completed in %s", r.now().Sub(start).Round(time.Millisecond))
	return nil
}
