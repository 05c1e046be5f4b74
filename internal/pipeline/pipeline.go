package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"CopperAnalytics/internal/calculator"
	"CopperAnalytics/internal/cleaner"
	"CopperAnalytics/internal/collector"
	"CopperAnalytics/internal/logger"
	"CopperAnalytics/internal/model"
	"CopperAnalytics/internal/report"
)

// Pipeline runs retrieve, clean, analyze and persist strictly in sequence.
// Each stage receives the previous stage's output and nothing else.
type Pipeline struct {
	Retriever *collector.Retriever
	Cleaner   *cleaner.Cleaner
	Writer    *report.Writer
	Source    string
	Version   string

	Now      func() time.Time
	NewRunID func() string
}

// Result describes one run, successful or not.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Stage      string // stage that failed, or the last stage on success
	Report     *model.AnalysisReport
	Artifacts  *report.Artifacts
	Err        error
}

func (r *Result) Elapsed() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

func (r *Result) OK() bool { return r.Err == nil }

// Run executes one pipeline invocation. The returned Result is never nil;
// its Err matches the returned error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	newID := p.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}

	res := &Result{RunID: newID(), StartedAt: now()}
	log := logger.GetLogger().WithComponent("pipeline").WithField("run_id", res.RunID)
	log.WithField("source", p.Source).Info("run started")

	fail := func(stage string, err error) (*Result, error) {
		if model.StageOf(err) == "" {
			err = fmt.Errorf("%s stage: %w", stage, err)
		}
		res.Stage = stage
		res.Err = err
		res.FinishedAt = now()
		log.WithError(err).WithFields(logger.Fields{
			"stage": stage,
			"kind":  string(model.KindOf(err)),
		}).Error("run failed")
		return res, err
	}

	res.Stage = model.StageRetrieve
	start := time.Now()
	doc, err := p.Retriever.WithLogger(log).Fetch(ctx)
	if err != nil {
		return fail(model.StageRetrieve, err)
	}
	logger.LogPerformanceEntry(log, model.StageRetrieve, time.Since(start), logger.Fields{"bytes": len(doc.Body)})

	res.Stage = model.StageClean
	start = time.Now()
	series, err := p.Cleaner.WithLogger(log).Clean(doc)
	if err != nil {
		return fail(model.StageClean, err)
	}
	logger.LogPerformanceEntry(log, model.StageClean, time.Since(start), logger.Fields{"rows": series.Len()})

	res.Stage = model.StageAnalyze
	start = time.Now()
	sets, err := calculator.Compute(ctx, series)
	if err != nil {
		return fail(model.StageAnalyze, err)
	}
	logger.LogPerformanceEntry(log, model.StageAnalyze, time.Since(start), logger.Fields{"trend": string(sets.Trend.TrendDirection)})

	res.Stage = model.StagePersist
	start = time.Now()
	rep := report.Assemble(sets, series, report.Options{
		Source:  p.Source,
		Version: p.Version,
		RunID:   res.RunID,
		Now:     now(),
	})
	arts, err := p.Writer.WithLogger(log).Persist(rep)
	if err != nil {
		return fail(model.StagePersist, err)
	}
	logger.LogPerformanceEntry(log, model.StagePersist, time.Since(start), logger.Fields{"bytes": len(arts.Report)})

	res.Report = rep
	res.Artifacts = arts
	res.FinishedAt = now()
	log.WithFields(logger.Fields{
		"records":     series.Len(),
		"trend":       string(sets.Trend.TrendDirection),
		"best_month":  sets.Seasonality.BestMonth,
		"best_day":    sets.Seasonality.BestDay,
		"duration_ms": float64(res.Elapsed().Nanoseconds()) / 1e6,
	}).Info("run completed")
	return res, nil
}
