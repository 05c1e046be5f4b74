package report

import (
	"time"

	"CopperAnalytics/internal/calculator"
	"CopperAnalytics/internal/model"
)

const (
	StatusSuccess  = "success"
	SuccessMessage = "Analysis completed successfully"
	dateLayout     = "2006-01-02"
)

// Options carries run metadata stamped onto the report.
type Options struct {
	Source  string
	Version string
	RunID   string
	Now     time.Time
}

// Assemble merges the metric sets and the cleaned series into a report.
// Results depend only on its inputs; Now and RunID only touch timestamp and metadata fields.
func Assemble(sets *model.MetricSets, series *model.PriceSeries, opts Options) *model.AnalysisReport {
	dates := make([]string, series.Len())
	prices := make([]float64, series.Len())
	series.Each(func(i int, o model.Observation) {
		dates[i] = o.Date.Format(dateLayout)
		prices[i] = calculator.Round(o.Price, calculator.PricePlaces)
	})

	source := opts.Source
	if source == "" {
		source = series.Source()
	}

	return &model.AnalysisReport{
		Status:     StatusSuccess,
		Message:    SuccessMessage,
		Timestamp:  opts.Now.UTC().Format(time.RFC3339),
		DataSource: source,
		Results: model.Results{
			KeyMetrics: model.KeyMetrics{
				BasicStats:     sets.Basic,
				TrendDirection: sets.Trend.TrendDirection,
				BestMonth:      sets.Seasonality.BestMonth,
				BestDay:        sets.Seasonality.BestDay,
			},
			BasicStats:          sets.Basic,
			Seasonality:         sets.Seasonality,
			Trend:               sets.Trend,
			MonthlyFluctuations: sets.Monthly,
			WeeklyPatterns:      sets.Weekly,
		},
		RawData: model.RawData{Dates: dates, Prices: prices},
		Metadata: model.Metadata{
			TotalRecords: series.Len(),
			DateRange: model.DateRange{
				Start: series.First().Date.Format(dateLayout),
				End:   series.Last().Date.Format(dateLayout),
			},
			AnalysisVersion: opts.Version,
			RunID:           opts.RunID,
		},
	}
}
