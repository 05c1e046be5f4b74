package recorder

import (
	"context"
	"time"
)

// Run statuses stored in the ledger.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// RunRecord is one ledger row. It describes how a run went and carries no
// price data or report body.
type RunRecord struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Status         string
	FailedStage    string // empty on success
	ErrorKind      string
	Message        string
	RecordCount    int
	DateStart      string
	DateEnd        string
	TrendDirection string
}

// Recorder keeps the run ledger.
type Recorder interface {
	Record(ctx context.Context, rec *RunRecord) error
	Close() error
}
