package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"CopperAnalytics/internal/model"
)

// Output precisions.
const (
	PricePlaces = 2
	slopePlaces = 6
	fitPlaces   = 4
)

// Round rounds half away from zero. v must be finite.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// finite fails with a data-quality error when any named value is NaN or infinite.
func finite(values map[string]float64) error {
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.NewDataQualityError(model.StageAnalyze, fmt.Errorf("%s is undefined (%v)", name, v))
		}
	}
	return nil
}

func undefined(format string, args ...any) error {
	return model.NewDataQualityError(model.StageAnalyze, fmt.Errorf(format, args...))
}
