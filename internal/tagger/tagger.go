// Package tagger derives topical labels from free text by substring match.
package tagger

import "strings"

// Rule adds Tag when any of the Any substrings occurs in the text.
type Rule struct {
	Tag string
	Any []string
}

// FeedRules is applied to feed post titles and summaries.
var FeedRules = []Rule{
	{Tag: "token", Any: []string{"token", "token-2022"}},
	{Tag: "anchor", Any: []string{"anchor"}},
	{Tag: "ai", Any: []string{"ai", "agent"}},
	{Tag: "depin", Any: []string{"depin"}},
	{Tag: "defi", Any: []string{"defi", "swap", "lending", "perp"}},
	{Tag: "nft", Any: []string{"nft"}},
	{Tag: "mobile", Any: []string{"mobile"}},
	{Tag: "payments", Any: []string{"payments", "pay"}},
}

// RepoRules is applied to repository names and descriptions.
var RepoRules = []Rule{
	{Tag: "anchor", Any: []string{"anchor"}},
	{Tag: "token", Any: []string{"token-2022", "token"}},
	{Tag: "ai", Any: []string{"agent", "ai"}},
	{Tag: "defi", Any: []string{"defi", "swap", "lending", "perp"}},
	{Tag: "nft", Any: []string{"nft"}},
	{Tag: "mobile", Any: []string{"mobile"}},
}

// Tag returns the tags of every rule matching text, in rule order.
func Tag(text string, rules []Rule) []string {
	return Match(text, rules).Slice()
}

// Match is like Tag but returns the set so callers can extend it.
func Match(text string, rules []Rule) *Set {
	lower := strings.ToLower(text)
	s := NewSet()
	for _, r := range rules {
		for _, sub := range r.Any {
			if strings.Contains(lower, sub) {
				s.Add(r.Tag)
				break
			}
		}
	}
	return s
}

// Set is an insertion-ordered set of lowercase tags.
type Set struct {
	order []string
	seen  map[string]struct{}
}

func NewSet(tags ...string) *Set {
	s := &Set{seen: make(map[string]struct{})}
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add inserts tag after lowercasing and trimming it. Empty tags are ignored.
func (s *Set) Add(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return
	}
	if _, ok := s.seen[tag]; ok {
		return
	}
	s.seen[tag] = struct{}{}
	s.order = append(s.order, tag)
}

func (s *Set) Has(tag string) bool {
	_, ok := s.seen[tag]
	return ok
}

func (s *Set) Len() int { return len(s.order) }

// Cap drops everything after the first n tags.
func (s *Set) Cap(n int) {
	if n < 0 || len(s.order) <= n {
		return
	}
	for _, t := range s.order[n:] {
		delete(s.seen, t)
	}
	s.order = s.order[:n]
}

// Slice returns the tags in insertion order. It never returns nil.
func (s *Set) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
