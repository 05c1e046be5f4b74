package pipeline

import (
	"context"
	"errors"

	"CopperAnalytics/internal/logger"
	"CopperAnalytics/internal/model"
	"CopperAnalytics/internal/notifier"
	"CopperAnalytics/internal/publisher"
	"CopperAnalytics/internal/recorder"
)

// Runner wraps a Pipeline with the post-run collaborators. They only run
// after the pipeline has finished and their failures never change the
// run's outcome.
type Runner struct {
	Pipeline  *Pipeline
	Recorder  recorder.Recorder
	Publisher publisher.Publisher
	Notifier  notifier.Notifier
}

// Run executes the pipeline and then publishes, records and notifies.
// The returned error is the pipeline's.
func (r *Runner) Run(ctx context.Context) error {
	res, err := r.Pipeline.Run(ctx)
	log := logger.GetLogger().WithComponent("pipeline").WithField("run_id", res.RunID)

	if res.OK() && r.Publisher != nil {
		if perr := r.Publisher.Publish(ctx, res.Artifacts.Report, res.Artifacts.Companion); perr != nil {
			log.WithError(perr).WithField("publisher", r.Publisher.Name()).Warn("publish failed")
		}
	}
	if r.Recorder != nil {
		if rerr := r.Recorder.Record(ctx, RunRecordFor(res)); rerr != nil {
			log.WithError(rerr).Warn("record run failed")
		}
	}
	if r.Notifier != nil {
		if nerr := r.Notifier.Notify(ctx, Summary(res)); nerr != nil {
			log.WithError(nerr).Warn("notify failed")
		}
	}
	return err
}

// RunRecordFor converts a result into a ledger row.
func RunRecordFor(res *Result) *recorder.RunRecord {
	rec := &recorder.RunRecord{
		RunID:      res.RunID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	if !res.OK() {
		rec.Status = recorder.StatusFailed
		rec.FailedStage = res.Stage
		rec.ErrorKind = string(model.KindOf(res.Err))
		rec.Message = res.Err.Error()
		return rec
	}
	rec.Status = recorder.StatusSuccess
	rec.Message = res.Report.Message
	rec.RecordCount = res.Report.Metadata.TotalRecords
	rec.DateStart = res.Report.Metadata.DateRange.Start
	rec.DateEnd = res.Report.Metadata.DateRange.End
	rec.TrendDirection = string(res.Report.Results.Trend.TrendDirection)
	return rec
}

// Summary renders the notification text for a result.
func Summary(res *Result) string {
	if res.OK() {
		return notifier.FormatSuccess(res.Report, res.Elapsed())
	}
	return notifier.FormatFailure(res.RunID, res.Err)
}

// Diagnostic is the single line printed when a run fails.
func Diagnostic(err error) string {
	var tagged *model.Error
	if errors.As(err, &tagged) {
		return "run failed at " + tagged.Stage + " (" + string(tagged.Kind) + "): " + tagged.Err.Error()
	}
	return "run failed: " + err.Error()
}
