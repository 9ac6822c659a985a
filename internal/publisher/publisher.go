package publisher

import (
	"context"

	"github.com/ryosukesatoh/narrative-radar/internal/radar"
)

// Publisher publishes a report to some output destination.
type Publisher interface {
	Publish(ctx context.Context, report *radar.Report) error
}

// encodeIndent is the indentation used for every JSON rendering of a report.
const encodeIndent = "  "
