package calculator

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"CopperAnalytics/internal/model"
)

// BasicStatistics computes mean, min, max and the coefficient of variation.
func BasicStatistics(series *model.PriceSeries) (model.BasicStats, error) {
	prices := series.Prices()
	if len(prices) < 2 {
		return model.BasicStats{}, undefined("basic stats need at least 2 observations, got %d", len(prices))
	}
	mean := stat.Mean(prices, nil)
	if mean == 0 {
		return model.BasicStats{}, undefined("volatility undefined for zero mean price")
	}
	cv := stat.StdDev(prices, nil) / mean * 100
	if err := finite(map[string]float64{"mean": mean, "volatility": cv}); err != nil {
		return model.BasicStats{}, err
	}
	return model.BasicStats{
		AveragePrice: Round(mean, PricePlaces),
		MinPrice:     Round(floats.Min(prices), PricePlaces),
		MaxPrice:     Round(floats.Max(prices), PricePlaces),
		Volatility:   Round(cv, PricePlaces),
		TotalRecords: len(prices),
	}, nil
}
