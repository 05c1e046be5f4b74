package recorder

import "context"

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ context.Context, _ *RunRecord) error { return nil }
func (n *NoopRecorder) Close() error                                { return nil }
