package collector

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"CopperAnalytics/internal/logger"
	"CopperAnalytics/internal/model"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retriever fetches the raw document with bounded retry. A content type
// outside ExpectedContentTypes counts as a failed attempt.
type Retriever struct {
	Fetcher              Fetcher
	MaxAttempts          int
	Backoff              []time.Duration
	ExpectedContentTypes []string
	Sleep                SleepFunc

	log *logger.Entry
}

// NewRetriever creates a Retriever that sleeps on the wall clock between attempts.
func NewRetriever(fetcher Fetcher, maxAttempts int, backoff []time.Duration, contentTypes []string) *Retriever {
	return &Retriever{
		Fetcher:              fetcher,
		MaxAttempts:          maxAttempts,
		Backoff:              backoff,
		ExpectedContentTypes: contentTypes,
		Sleep:                sleepContext,
		log:                  logger.GetLogger().WithComponent("retriever"),
	}
}

// WithLogger returns a copy of r logging through entry.
func (r *Retriever) WithLogger(entry *logger.Entry) *Retriever {
	cp := *r
	cp.log = entry.WithComponent("retriever")
	return &cp
}

// Fetch returns the first document that passes transport and content-type
// checks. It fails with a network error only after every attempt failed;
// a non-retryable error aborts immediately.
func (r *Retriever) Fetch(ctx context.Context) (*model.RawDocument, error) {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	log := r.log
	if log == nil {
		log = logger.GetLogger().WithComponent("retriever")
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := r.delay(i - 1)
			log.WithFields(logger.Fields{
				"attempt": i + 1,
				"delay":   delay.String(),
			}).Info("waiting before retry")
			if err := sleep(ctx, delay); err != nil {
				return nil, model.NewNetworkError(fmt.Errorf("retry wait interrupted: %w", err))
			}
		}

		doc, err := r.attempt(ctx)
		if err == nil {
			log.WithFields(logger.Fields{
				"attempt":      i + 1,
				"bytes":        len(doc.Body),
				"content_type": doc.ContentType,
				"fetcher":      r.Fetcher.Name(),
			}).Info("document retrieved")
			return doc, nil
		}
		if !model.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		log.WithError(err).WithFields(logger.Fields{
			"attempt":      i + 1,
			"max_attempts": attempts,
		}).Warn("retrieval attempt failed")
	}

	var tagged *model.Error
	if errors.As(lastErr, &tagged) {
		lastErr = tagged.Err
	}
	return nil, model.NewNetworkError(fmt.Errorf("all %d attempts failed: %w", attempts, lastErr))
}

func (r *Retriever) attempt(ctx context.Context) (*model.RawDocument, error) {
	doc, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !r.contentTypeAllowed(doc.ContentType) {
		return nil, model.NewNetworkError(fmt.Errorf("unexpected content type %q, want one of %v", doc.ContentType, r.ExpectedContentTypes))
	}
	return doc, nil
}

// delay returns the wait after the n-th failed attempt; the last entry repeats.
func (r *Retriever) delay(n int) time.Duration {
	if len(r.Backoff) == 0 {
		return 0
	}
	if n >= len(r.Backoff) {
		return r.Backoff[len(r.Backoff)-1]
	}
	return r.Backoff[n]
}

func (r *Retriever) contentTypeAllowed(header string) bool {
	if len(r.ExpectedContentTypes) == 0 {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	for _, want := range r.ExpectedContentTypes {
		if strings.EqualFold(mediaType, want) {
			return true
		}
	}
	return false
}

// ScriptedFetcher replays a fixed sequence of outcomes, one per call.
// The last outcome repeats once the script is exhausted.
type ScriptedFetcher struct {
	Steps []ScriptedStep
	Calls int
}

// ScriptedStep is one canned Fetch outcome.
type ScriptedStep struct {
	Doc *model.RawDocument
	Err error
}

func (m *ScriptedFetcher) Name() string { return "scripted" }

func (m *ScriptedFetcher) Fetch(_ context.Context) (*model.RawDocument, error) {
	if len(m.Steps) == 0 {
		return nil, model.NewNetworkError(errors.New("no scripted steps"))
	}
	idx := m.Calls
	if idx >= len(m.Steps) {
		idx = len(m.Steps) - 1
	}
	m.Calls++
	step := m.Steps[idx]
	return step.Doc, step.Err
}
