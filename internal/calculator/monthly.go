package calculator

import (
	"gonum.org/v1/gonum/stat"

	"CopperAnalytics/internal/model"
)

// MonthOverMonth computes percentage changes between consecutive calendar
// month means. The first month has no change and is excluded.
func MonthOverMonth(series *model.PriceSeries) (model.MonthlyFluctuation, error) {
	months := groupBy(series, model.Observation.YearMonth)
	if len(months) < 3 {
		return model.MonthlyFluctuation{}, undefined("month-over-month volatility needs at least 3 calendar months, got %d", len(months))
	}

	means := make([]float64, len(months))
	for i, g := range months {
		means[i] = g.mean()
	}

	changes := make([]float64, 0, len(months)-1)
	labels := make([]string, 0, len(months)-1)
	for i := 1; i < len(means); i++ {
		changes = append(changes, (means[i]-means[i-1])/means[i-1]*100)
		labels = append(labels, months[i].key)
	}

	base := stat.Mean(means, nil)
	vol := stat.StdDev(changes, nil)
	if err := finite(map[string]float64{"base_price": base, "mom_volatility": vol}); err != nil {
		return model.MonthlyFluctuation{}, err
	}

	rounded := make([]float64, len(changes))
	for i, c := range changes {
		rounded[i] = Round(c, PricePlaces)
	}
	return model.MonthlyFluctuation{
		MoMChanges: rounded,
		MoMDates:   labels,
		BasePrice:  Round(base, PricePlaces),
		Volatility: Round(vol, PricePlaces),
	}, nil
}
