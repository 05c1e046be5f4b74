package calculator

import (
	"gonum.org/v1/gonum/stat"

	"CopperAnalytics/internal/model"
)

// WeekdayPattern compares each weekday's mean price with the overall mean.
func WeekdayPattern(series *model.PriceSeries) (model.WeeklyPattern, error) {
	if series.Len() == 0 {
		return model.WeeklyPattern{}, undefined("weekly pattern needs at least 1 observation")
	}
	baseline := stat.Mean(series.Prices(), nil)
	if baseline == 0 {
		return model.WeeklyPattern{}, undefined("weekday deviation undefined for zero baseline")
	}

	days := groupBy(series, func(o model.Observation) string { return o.WeekdayName })
	perf := make(map[string]model.WeekdayPerformance, len(days))
	for _, g := range days {
		m := g.mean()
		perf[g.key] = model.WeekdayPerformance{
			AveragePrice:        Round(m, PricePlaces),
			Observations:        g.count,
			VsMonthlyAvg:        Round((m-baseline)/baseline*100, PricePlaces),
			IsBetterThanMonthly: m > baseline,
		}
	}

	return model.WeeklyPattern{
		BestDay:           best(days),
		WeeklyPerformance: perf,
		MonthlyBaseline:   Round(baseline, PricePlaces),
	}, nil
}
