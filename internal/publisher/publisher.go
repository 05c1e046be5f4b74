package publisher

import "context"

// Publisher mirrors the persisted documents to remote storage.
type Publisher interface {
	Publish(ctx context.Context, report, companion []byte) error
	Name() string
}

// NoopPublisher is used when no mirror is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (n *NoopPublisher) Publish(_ context.Context, _, _ []byte) error { return nil }
func (n *NoopPublisher) Name() string                               { return "noop" }
