package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"CopperAnalytics/internal/model"
)

// FormatSuccess summarises a successful run.
func FormatSuccess(r *model.AnalysisReport, elapsed time.Duration) string {
	var b strings.Builder
	km := r.Results.KeyMetrics

	b.WriteString(fmt.Sprintf("📊 <b>LME Copper analysis</b> | %s\n\n", r.Metadata.DateRange.End))
	b.WriteString(fmt.Sprintf("Records: %d (%s → %s)\n", r.Metadata.TotalRecords, r.Metadata.DateRange.Start, r.Metadata.DateRange.End))
	b.WriteString(fmt.Sprintf("Average: %.2f | Min: %.2f | Max: %.2f\n", km.AveragePrice, km.MinPrice, km.MaxPrice))
	b.WriteString(fmt.Sprintf("Volatility: %.2f%%\n\n", km.Volatility))

	t := r.Results.Trend
	b.WriteString(fmt.Sprintf("📈 <b>Trend:</b> %s (slope %.6f, R² %.4f, p %.4f)\n", t.TrendDirection, t.Slope, t.RSquared, t.PValue))
	b.WriteString(fmt.Sprintf("Best month: %s | Best day: %s\n", km.BestMonth, km.BestDay))

	if n := len(r.Results.MonthlyFluctuations.MoMChanges); n > 0 {
		mf := r.Results.MonthlyFluctuations
		b.WriteString(fmt.Sprintf("Last MoM: %+.2f%% (%s)\n", mf.MoMChanges[n-1], mf.MoMDates[n-1]))
	}

	b.WriteString(fmt.Sprintf("\n<i>run %s in %s</i>", r.Metadata.RunID, elapsed.Round(time.Millisecond)))
	return b.String()
}

// FormatFailure summarises a failed run with its stage and cause.
func FormatFailure(runID string, err error) string {
	var b strings.Builder
	b.WriteString("❌ <b>LME Copper analysis failed</b>\n\n")
	if stage := model.StageOf(err); stage != "" {
		b.WriteString(fmt.Sprintf("Stage: %s\n", stage))
		b.WriteString(fmt.Sprintf("Kind: %s\n", model.KindOf(err)))
	}
	b.WriteString(fmt.Sprintf("Cause: %s\n", html.EscapeString(err.Error())))
	b.WriteString(fmt.Sprintf("\n<i>run %s</i>", runID))
	return b.String()
}
