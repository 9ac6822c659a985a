package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagFeedRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"anchor only", "Anchor ships new IDL tooling", []string{"anchor"}},
		{"case insensitive", "DEFI lending markets", []string{"defi"}},
		{"multiple rules fire", "Token-2022 swap router with an agent", []string{"token", "ai", "defi"}},
		{"payments via pay", "Solana Pay checkout", []string{"payments"}},
		{"depin", "DePIN networks grow", []string{"depin"}},
		{"nothing matches", "Weekly roundup", []string{}},
		{"empty text", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tag(tt.text, FeedRules))
		})
	}
}

func TestTagRepoRulesSkipFeedOnlyTags(t *testing.T) {
	got := Tag("depin payments mobile nft", RepoRules)
	assert.Equal(t, []string{"nft", "mobile"}, got)
}

func TestTagNoDuplicates(t *testing.T) {
	got := Tag("token token-2022 token", FeedRules)
	assert.Equal(t, []string{"token"}, got)
}

func TestSet(t *testing.T) {
	s := NewSet("b", "A", " a ", "")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("A"))
	assert.Equal(t, []string{"b", "a"}, s.Slice())

	for _, tag := range []string{"c", "d", "e"} {
		s.Add(tag)
	}
	s.Cap(3)
	assert.Equal(t, []string{"b", "a", "c"}, s.Slice())
	assert.False(t, s.Has("d"))

	s.Add("d")
	assert.Equal(t, []string{"b", "a", "c", "d"}, s.Slice())
}

func TestSetSliceNeverNil(t *testing.T) {
	assert.NotNil(t, NewSet().Slice())
}
