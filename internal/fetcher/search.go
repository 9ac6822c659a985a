package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ryosukesatoh/narrative-radar/internal/config"
	"github.com/ryosukesatoh/narrative-radar/internal/radar"
	"github.com/ryosukesatoh/narrative-radar/internal/score"
	"github.com/ryosukesatoh/narrative-radar/internal/tagger"
)

// GitHub search API response structures

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []githubRepo `json:"items"`
}

type githubRepo struct {
	ID              int64    `json:"id"`
	FullName        string   `json:"full_name"`
	HTMLURL         string   `json:"html_url"`
	Description     *string  `json:"description"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
	Topics          []string `json:"topics"`
}

// SearchFetcher runs repository searches against the GitHub search API.
type SearchFetcher struct {
	client     *http.Client
	baseURL    string
	token      string
	perPage    int
	queries    []config.SearchQuery
	windowDays int
	now        func() time.Time
	log        arbor.ILogger
}

func NewSearchFetcher(cfg config.SearchConfig, windowDays int, client *http.Client, log arbor.ILogger) *SearchFetcher {
	return &SearchFetcher{
		client:     client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		perPage:    cfg.PerPage,
		queries:    cfg.Queries,
		windowDays: windowDays,
		now:        time.Now,
		log:        log,
	}
}

func (f *SearchFetcher) Sources() []radar.Source {
	cutoff := score.Cutoff(f.now(), f.windowDays)
	out := make([]radar.Source, 0, len(f.queries))
	for _, q := range f.queries {
		out = append(out, radar.Source{ID: q.ID, Label: q.Label, URL: f.searchURL(q, cutoff), Kind: radar.SourceKindGitHub})
	}
	return out
}

func (f *SearchFetcher) Fetch(ctx context.Context) ([]radar.Item, error) {
	now := f.now()
	cutoff := score.Cutoff(now, f.windowDays)
	seen := make(map[string]bool)
	var items []radar.Item

	for _, q := range f.queries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}

		repos, err := f.search(ctx, q, cutoff)
		if err != nil {
			f.log.Warn().Err(err).Str("query", q.ID).Msg("Search failed, skipping query")
			continue
		}

		n := 0
		for _, repo := range repos {
			it, ok := f.itemFrom(q, repo, now, cutoff)
			if !ok || seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			items = append(items, it)
			n++
		}
		f.log.Debug().Str("query", q.ID).Msgf("Fetched %d repositories", n)
	}

	return items, nil
}

func (f *SearchFetcher) searchURL(q config.SearchQuery, cutoff time.Time) string {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("%s pushed:>%s", q.Query, cutoff.UTC().Format("2006-01-02")))
	query.Set("sort", "updated")
	query.Set("order", "desc")
	query.Set("per_page", strconv.Itoa(f.perPage))
	return fmt.Sprintf("%s/search/repositories?%s", f.baseURL, query.Encode())
}

func (f *SearchFetcher) search(ctx context.Context, q config.SearchQuery, cutoff time.Time) ([]githubRepo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchURL(q, cutoff), nil)
	if err != nil {
		return nil, fmt.Errorf("search: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("search: failed to parse JSON: %w", err)
	}
	return data.Items, nil
}

func (f *SearchFetcher) itemFrom(q config.SearchQuery, repo githubRepo, now, cutoff time.Time) (radar.Item, bool) {
	var pushed *time.Time
	if ts, err := time.Parse(time.RFC3339, repo.PushedAt); err == nil {
		pushed = &ts
	}
	if score.Expired(pushed, cutoff) {
		return radar.Item{}, false
	}
	if repo.FullName == "" || repo.HTMLURL == "" {
		return radar.Item{}, false
	}

	var desc string
	if repo.Description != nil {
		desc = strings.TrimSpace(*repo.Description)
	}

	tags := tagger.Match(repo.FullName+" "+desc, tagger.RepoRules)
	for _, topic := range repo.Topics {
		tags.Add(topic)
	}
	tags.Cap(maxRepoTags)

	age := score.AgeDays(pushed, now, f.windowDays)
	return radar.Item{
		ID:          "gh:" + repo.FullName,
		Kind:        radar.KindRepository,
		SourceID:    q.ID,
		SourceLabel: "GitHub: " + q.Label,
		Title:       repo.FullName,
		URL:         repo.HTMLURL,
		PublishedAt: utc(pushed),
		Score:       score.Repository(repo.StargazersCount, age, f.windowDays),
		Tags:        tags.Slice(),
		Summary:     truncate(desc, repoSummaryLen),
	}, true
}
