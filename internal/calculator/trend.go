package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"CopperAnalytics/internal/model"
)

// SignificanceLevel gates the trend direction.
const SignificanceLevel = 0.05

// ClassifyTrend applies the significance-gated rule:
//
//	p < 0.05 and slope > 0   Upward
//	p < 0.05 and slope <= 0  Downward
//	otherwise                Flat
//
// A significant zero slope counts as Downward.
func ClassifyTrend(slope, pValue float64) model.TrendDirection {
	if pValue >= SignificanceLevel {
		return model.TrendFlat
	}
	if slope > 0 {
		return model.TrendUpward
	}
	return model.TrendDownward
}

// LinearTrend fits price = a + b*i by ordinary least squares over the
// zero-based index i and tests b against zero with a two-sided t-test.
func LinearTrend(prices []float64) (model.Trend, error) {
	n := len(prices)
	if n < 3 {
		return model.Trend{}, undefined("trend needs at least 3 observations, got %d", n)
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(x, prices, nil, false)

	meanY := stat.Mean(prices, nil)
	meanX := stat.Mean(x, nil)
	var sst, sse, sxx float64
	for i, y := range prices {
		sst += (y - meanY) * (y - meanY)
		r := y - (alpha + beta*x[i])
		sse += r * r
		sxx += (x[i] - meanX) * (x[i] - meanX)
	}

	if sst == 0 {
		return model.Trend{Slope: 0, RSquared: 0, PValue: 1, TrendDirection: model.TrendFlat}, nil
	}

	r2 := stat.RSquared(x, prices, nil, alpha, beta)
	p := slopePValue(beta, sse, sxx, n)
	if err := finite(map[string]float64{"slope": beta, "r_squared": r2, "p_value": p}); err != nil {
		return model.Trend{}, err
	}

	return model.Trend{
		Slope:          Round(beta, slopePlaces),
		RSquared:       Round(r2, fitPlaces),
		PValue:         Round(p, fitPlaces),
		TrendDirection: ClassifyTrend(beta, p),
	}, nil
}

func slopePValue(beta, sse, sxx float64, n int) float64 {
	se := math.Sqrt(sse/float64(n-2)) / math.Sqrt(sxx)
	if se == 0 {
		if beta == 0 {
			return 1
		}
		return 0
	}
	t := math.Abs(beta / se)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * dist.Survival(t)
	return math.Min(1, math.Max(0, p))
}
