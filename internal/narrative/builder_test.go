package narrative

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

func feedItem(id string, score float64, tags ...string) radar.Item {
	return radar.Item{
		ID:          id,
		Kind:        radar.KindFeedPost,
		SourceID:    "blog",
		SourceLabel: "Blog",
		Title:       "Title " + id,
		URL:         "https://example.com/" + id,
		Score:       score,
		Tags:        tags,
	}
}

func repoItem(id string, score float64, tags ...string) radar.Item {
	it := feedItem(id, score, tags...)
	it.Kind = radar.KindRepository
	it.SourceLabel = "GitHub: Repos"
	return it
}

func TestBuildSingleAnchorPost(t *testing.T) {
	item := radar.Item{
		ID:          "rss:blog:https://example.com/idl",
		Kind:        radar.KindFeedPost,
		SourceID:    "blog",
		SourceLabel: "Example Blog",
		Title:       "Anchor ships new IDL tooling",
		URL:         "https://example.com/idl",
		Score:       58,
		Tags:        []string{"anchor"},
	}

	got := Builder{WindowDays: 14}.Build([]radar.Item{item})
	require.Len(t, got, 1)

	n := got[0]
	assert.Equal(t, "narrative:anchor", n.ID)
	assert.Equal(t, "Anchor + Developer UX Iteration", n.Title)
	assert.Equal(t, 58.0, n.Score)
	assert.Equal(t, []string{"anchor"}, n.Tags)
	assert.Equal(t, []radar.Evidence{{Title: item.Title, URL: item.URL, SourceLabel: "Example Blog"}}, n.Evidence)
	assert.Equal(t, []string{
		"Recent ecosystem write-ups / announcements in the last 14 days.",
		whyFormula,
	}, n.Why)
	assert.Len(t, n.Ideas, 5)
}

func TestBuildWhyOrder(t *testing.T) {
	got := Builder{WindowDays: 7}.Build([]radar.Item{
		feedItem("p", 50, "defi"),
		repoItem("r", 40, "defi"),
	})
	require.Len(t, got, 1)
	assert.Equal(t, []string{
		whyRepository,
		"Recent ecosystem write-ups / announcements in the last 7 days.",
		whyFormula,
	}, got[0].Why)

	repoOnly := Builder{WindowDays: 7}.Build([]radar.Item{repoItem("r", 40, "defi")})
	assert.Equal(t, []string{whyRepository, whyFormula}, repoOnly[0].Why)
}

func TestBuildWorkingSetAndEvidence(t *testing.T) {
	var items []radar.Item
	for i := 1; i <= 8; i++ {
		items = append(items, feedItem(fmt.Sprintf("i%d", i), float64(i), "token"))
	}
	// A repository beyond the working set must not add the repository rationale.
	items = append(items, repoItem("low", 0.5, "token"))

	got := Builder{WindowDays: 14}.Build(items)
	require.Len(t, got, 1)
	n := got[0]

	assert.Equal(t, 8.0+7+6+5+4+3, n.Score)
	require.Len(t, n.Evidence, 5)
	assert.Equal(t, "Title i8", n.Evidence[0].Title)
	assert.Equal(t, "Title i4", n.Evidence[4].Title)
	assert.NotContains(t, n.Why, whyRepository)
}

func TestBuildCapsAtTenNarratives(t *testing.T) {
	var items []radar.Item
	for i := 0; i < 12; i++ {
		items = append(items, repoItem(fmt.Sprintf("r%d", i), float64(100-i), fmt.Sprintf("topic%02d", i)))
	}

	got := Builder{WindowDays: 14}.Build(items)
	require.Len(t, got, 10)
	assert.Equal(t, "narrative:topic00", got[0].ID)
	assert.Equal(t, "narrative:topic09", got[9].ID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	// Unknown tags: title is the tag, ideas fall back to misc.
	assert.Equal(t, "topic00", got[0].Title)
	assert.Equal(t, Ideas(DefaultTag), got[0].Ideas)
}

func TestBuildUntaggedGoesToMisc(t *testing.T) {
	got := Builder{WindowDays: 14}.Build([]radar.Item{feedItem("x", 30)})
	require.Len(t, got, 1)
	assert.Equal(t, "narrative:misc", got[0].ID)
	assert.Equal(t, "Other Emerging Signals", got[0].Title)
	assert.Equal(t, []string{"misc"}, got[0].Tags)
}

func TestBuildDeterministic(t *testing.T) {
	items := []radar.Item{
		feedItem("a", 40, "ai"),
		repoItem("b", 40, "defi", "swap"),
		feedItem("c", 40, "nft"),
		repoItem("d", 12, "solana", "rust"),
		feedItem("e", 40),
		repoItem("f", 70, "anchor", "token"),
	}
	snapshot := append([]radar.Item(nil), items...)

	first, err := json.Marshal(Builder{WindowDays: 14}.Build(items))
	require.NoError(t, err)
	second, err := json.Marshal(Builder{WindowDays: 14}.Build(items))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, snapshot, items, "input must not be reordered")
}

func TestEveryNarrativeIsSingletonAndDisjoint(t *testing.T) {
	items := []radar.Item{
		feedItem("a", 10, "ai", "token"),
		feedItem("b", 20, "token"),
		repoItem("c", 30, "defi"),
		repoItem("d", 40, "mobile", "nft"),
		feedItem("e", 50),
	}
	got := Builder{WindowDays: 14}.Build(items)

	seenTags := make(map[string]bool)
	evidenceCount := 0
	for _, n := range got {
		require.Len(t, n.Tags, 1)
		assert.False(t, seenTags[n.Tags[0]])
		seenTags[n.Tags[0]] = true
		assert.LessOrEqual(t, len(n.Evidence), 5)
		evidenceCount += len(n.Evidence)
	}
	assert.Equal(t, len(items), evidenceCount)
}

func TestIdeasAlwaysFive(t *testing.T) {
	for tag := range titles {
		assert.Len(t, Ideas(tag), 5, tag)
	}
	assert.Len(t, Ideas("unheard-of"), 5)
}

func TestIdeasReturnsCopy(t *testing.T) {
	list := Ideas("ai")
	list[0].Title = "changed"
	assert.NotEqual(t, "changed", Ideas("ai")[0].Title)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "DePIN + Real-world Integrations", Title("depin"))
	assert.Equal(t, "solana", Title("solana"))
}
