package summary

import (
	"context"
)

// Summarizer produces a short executive summary of a rendered report
type Summarizer interface {
	Summarize(ctx context.Context, report string) (string, error)
}
