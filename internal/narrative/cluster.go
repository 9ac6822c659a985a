// Package narrative clusters scored items by primary tag and turns each
// cluster into a ranked narrative with rationale and build ideas.
package narrative

import (
	"sort"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

// DefaultTag is the primary tag of items that carry no tags.
const DefaultTag = "misc"

// Priority decides the primary tag of items carrying several tags.
var Priority = []string{"ai", "token", "defi", "anchor", "payments", "mobile", "depin", "nft", DefaultTag}

// PrimaryTag picks the single tag an item is clustered under: the first
// Priority entry present, else the lexicographically smallest tag, else
// DefaultTag.
func PrimaryTag(tags []string) string {
	if len(tags) == 0 {
		return DefaultTag
	}
	for _, p := range Priority {
		for _, t := range tags {
			if t == p {
				return p
			}
		}
	}
	smallest := tags[0]
	for _, t := range tags[1:] {
		if t < smallest {
			smallest = t
		}
	}
	return smallest
}

// Group is the set of items sharing a primary tag, best first.
type Group struct {
	Tag   string
	Items []radar.Item
}

// Cluster partitions items by primary tag. Groups appear in order of their
// first member in items; members are stable-sorted by score descending.
func Cluster(items []radar.Item) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, it := range items {
		tag := PrimaryTag(it.Tags)
		i, ok := index[tag]
		if !ok {
			i = len(groups)
			index[tag] = i
			groups = append(groups, Group{Tag: tag})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	for _, g := range groups {
		SortByScore(g.Items)
	}
	return groups
}

// SortByScore stable-sorts items by score, highest first.
func SortByScore(items []radar.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}
