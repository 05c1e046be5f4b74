package collector

import (
	"context"

	"CopperAnalytics/internal/model"
)

// Fetcher performs one retrieval attempt. Transport failures must be
// returned as model network errors so the Retriever knows to retry them.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.RawDocument, error)
	Name() string
}
