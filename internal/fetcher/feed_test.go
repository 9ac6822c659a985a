package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ryosukesatoh/narrative-radar/internal/config"
	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

var fixedNow = time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://blog.example.com</link>
    <item>
      <title>Anchor ships new IDL tooling</title>
      <link>https://blog.example.com/anchor-idl</link>
      <pubDate>Tue, 03 Feb 2026 12:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Old news from last month</title>
      <link>https://blog.example.com/old</link>
      <pubDate>Wed, 14 Jan 2026 12:00:00 +0000</pubDate>
    </item>
    <item>
      <link>https://blog.example.com/untitled</link>
      <pubDate>Tue, 03 Feb 2026 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Weekly roundup</title>
      <link>https://blog.example.com/roundup</link>
    </item>
    <item>
      <title>Market update</title>
      <link>https://blog.example.com/market</link>
      <description><![CDATA[<p>New <b>lending</b> markets   opened.</p>]]></description>
      <pubDate>Tue, 20 Jan 2026 12:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Anchor ships new IDL tooling (repost)</title>
      <link>https://blog.example.com/anchor-idl</link>
      <pubDate>Tue, 03 Feb 2026 12:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func newTestFeedFetcher(t *testing.T, sources []config.FeedSource, client *http.Client) *FeedFetcher {
	t.Helper()
	f := NewFeedFetcher(sources, 14, client, arbor.NewLogger())
	f.now = func() time.Time { return fixedNow }
	return f
}

func TestFeedFetchParsesAndScores(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer ts.Close()

	f := newTestFeedFetcher(t, []config.FeedSource{{ID: "blog", Label: "Example Blog", URL: ts.URL}}, ts.Client())

	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	fresh := items[0]
	assert.Equal(t, "rss:blog:https://blog.example.com/anchor-idl", fresh.ID)
	assert.Equal(t, radar.KindFeedPost, fresh.Kind)
	assert.Equal(t, "blog", fresh.SourceID)
	assert.Equal(t, "Example Blog", fresh.SourceLabel)
	assert.Equal(t, 58.0, fresh.Score)
	assert.Equal(t, []string{"anchor"}, fresh.Tags)
	require.NotNil(t, fresh.PublishedAt)
	assert.True(t, fresh.PublishedAt.Equal(fixedNow))

	undated := items[1]
	assert.Equal(t, "Weekly roundup", undated.Title)
	assert.Nil(t, undated.PublishedAt)
	assert.Equal(t, 30.0, undated.Score)
	assert.NotNil(t, undated.Tags)
	assert.Empty(t, undated.Tags)

	atCutoff := items[2]
	assert.Equal(t, "Market update", atCutoff.Title)
	assert.Equal(t, 30.0, atCutoff.Score)
	assert.Equal(t, []string{"defi"}, atCutoff.Tags)
	assert.Equal(t, "New lending markets opened.", atCutoff.Summary)
}

func TestFeedFetchSkipsFailingSources(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer good.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer garbage.Close()

	f := newTestFeedFetcher(t, []config.FeedSource{
		{ID: "broken", Label: "Broken", URL: broken.URL},
		{ID: "garbage", Label: "Garbage", URL: garbage.URL},
		{ID: "good", Label: "Good", URL: good.URL},
	}, http.DefaultClient)

	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, "good", it.SourceID)
	}
}

func TestFeedFetchCancelled(t *testing.T) {
	f := newTestFeedFetcher(t, []config.FeedSource{{ID: "blog", Label: "Blog", URL: "http://127.0.0.1:1"}}, http.DefaultClient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeedSources(t *testing.T) {
	f := newTestFeedFetcher(t, config.DefaultFeeds, http.DefaultClient)
	sources := f.Sources()
	require.Len(t, sources, len(config.DefaultFeeds))
	assert.Equal(t, radar.Source{ID: "solana-blog", Label: "Solana Blog", URL: "https://solana.com/rss", Kind: radar.SourceKindRSS}, sources[0])
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 7, "this is"},
		{"", 5, ""},
		{"こんにちは世界", 5, "こんにちは"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.input, tt.n), "truncate(%q, %d)", tt.input, tt.n)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"<p>one</p><p>two</p>", "one two"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripHTML(tt.input), "stripHTML(%q)", tt.input)
	}
}
