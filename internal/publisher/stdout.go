package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

// StdoutPublisher prints a ranked narrative summary.
type StdoutPublisher struct {
	w io.Writer
}

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{w: os.Stdout}
}

func (p *StdoutPublisher) Publish(_ context.Context, report *radar.Report) error {
	w := p.w
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "Narrative Radar (last %d days)\n", report.Window.Days)
	fmt.Fprintf(w, "Generated: %s\n", report.GeneratedAt)
	fmt.Fprintf(w, "Items: %d  Narratives: %d\n", len(report.Items), len(report.Narratives))
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)

	for i, n := range report.Narratives {
		fmt.Fprintln(w, strings.Repeat("-", 72))
		fmt.Fprintf(w, "%d. %s  [score %.1f]\n", i+1, n.Title, n.Score)
		for _, why := range n.Why {
			fmt.Fprintf(w, "   - %s\n", why)
		}
		if len(n.Evidence) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "   Evidence:")
			for _, e := range n.Evidence {
				fmt.Fprintf(w, "   * %s (%s)\n     %s\n", e.Title, e.SourceLabel, e.URL)
			}
		}
		if len(n.Ideas) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "   Build ideas:")
			for _, idea := range n.Ideas {
				fmt.Fprintf(w, "   > %s: %s\n", idea.Title, idea.Description)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", 72))
	return nil
}
