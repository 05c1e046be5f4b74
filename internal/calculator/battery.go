package calculator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"CopperAnalytics/internal/model"
)

// Compute runs the five analyses concurrently over the read-only series.
// Each writes only its own field of the result. The first failure is returned.
func Compute(ctx context.Context, series *model.PriceSeries) (*model.MetricSets, error) {
	var sets model.MetricSets
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sets.Basic, err = BasicStatistics(series)
		return err
	})
	g.Go(func() (err error) {
		sets.Seasonality, err = SeasonalPattern(series)
		return err
	})
	g.Go(func() (err error) {
		sets.Trend, err = LinearTrend(series.Prices())
		return err
	})
	g.Go(func() (err error) {
		sets.Monthly, err = MonthOverMonth(series)
		return err
	})
	g.Go(func() (err error) {
		sets.Weekly, err = WeekdayPattern(series)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sets, nil
}
