package narrative

import (
	"fmt"
	"sort"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

const (
	workingSetSize = 6
	maxEvidence    = 5
	maxIdeas       = 5
	maxNarratives  = 10
)

const (
	whyRepository = "Increased developer activity (recent pushes + star-weighted scoring)."
	whyFeedFormat = "Recent ecosystem write-ups / announcements in the last %d days."
	whyFormula    = "Ranked by a heuristic velocity score (recency + lightweight popularity)."
)

// Builder turns clustered items into ranked narratives.
type Builder struct {
	WindowDays int
}

// Build clusters items and returns at most ten narratives, highest score first.
// The input slice is not modified.
func (b Builder) Build(items []radar.Item) []radar.Narrative {
	groups := Cluster(append([]radar.Item(nil), items...))

	narratives := make([]radar.Narrative, 0, len(groups))
	for _, g := range groups {
		narratives = append(narratives, b.narrative(g))
	}

	sort.SliceStable(narratives, func(i, j int) bool {
		return narratives[i].Score > narratives[j].Score
	})
	if len(narratives) > maxNarratives {
		narratives = narratives[:maxNarratives]
	}
	return narratives
}

func (b Builder) narrative(g Group) radar.Narrative {
	top := g.Items
	if len(top) > workingSetSize {
		top = top[:workingSetSize]
	}

	var total float64
	hasRepo, hasPost := false, false
	for _, it := range top {
		total += it.Score
		switch it.Kind {
		case radar.KindRepository:
			hasRepo = true
		case radar.KindFeedPost:
			hasPost = true
		}
	}

	evidence := make([]radar.Evidence, 0, maxEvidence)
	for i, it := range top {
		if i == maxEvidence {
			break
		}
		evidence = append(evidence, radar.Evidence{Title: it.Title, URL: it.URL, SourceLabel: it.SourceLabel})
	}

	why := make([]string, 0, 3)
	if hasRepo {
		why = append(why, whyRepository)
	}
	if hasPost {
		why = append(why, fmt.Sprintf(whyFeedFormat, b.WindowDays))
	}
	why = append(why, whyFormula)

	return radar.Narrative{
		ID:       "narrative:" + g.Tag,
		Title:    Title(g.Tag),
		Score:    total,
		Why:      why,
		Evidence: evidence,
		Ideas:    Ideas(g.Tag),
		Tags:     []string{g.Tag},
	}
}
