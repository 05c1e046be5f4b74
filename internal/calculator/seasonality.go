package calculator

import (
	"CopperAnalytics/internal/model"
)

// SeasonalPattern averages prices by month name and by weekday name.
func SeasonalPattern(series *model.PriceSeries) (model.Seasonality, error) {
	if series.Len() == 0 {
		return model.Seasonality{}, undefined("seasonality needs at least 1 observation")
	}
	months := groupBy(series, func(o model.Observation) string { return o.MonthName })
	days := groupBy(series, func(o model.Observation) string { return o.WeekdayName })
	return model.Seasonality{
		Monthly:   model.GroupMeans{Mean: roundedMeans(months)},
		DayOfWeek: model.GroupMeans{Mean: roundedMeans(days)},
		BestMonth: best(months),
		BestDay:   best(days),
	}, nil
}
