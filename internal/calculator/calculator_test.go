package calculator

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CopperAnalytics/internal/model"
)

type point struct {
	date  string
	price float64
}

func seriesOf(t *testing.T, points ...point) *model.PriceSeries {
	t.Helper()
	obs := make([]model.Observation, 0, len(points))
	for _, p := range points {
		d, err := time.Parse("2006-01-02", p.date)
		require.NoError(t, err)
		obs = append(obs, model.NewObservation(d, p.price))
	}
	return model.NewPriceSeries("test", obs)
}

// dailySeries starts on Monday 2024-01-01.
func dailySeries(t *testing.T, prices ...float64) *model.PriceSeries {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]point, len(prices))
	for i, p := range prices {
		points[i] = point{start.AddDate(0, 0, i).Format("2006-01-02"), p}
	}
	return seriesOf(t, points...)
}

func TestBasicStatistics(t *testing.T) {
	stats, err := BasicStatistics(dailySeries(t, 10, 20, 30, 40))
	require.NoError(t, err)

	assert.Equal(t, 25.0, stats.AveragePrice)
	assert.Equal(t, 10.0, stats.MinPrice)
	assert.Equal(t, 40.0, stats.MaxPrice)
	// sample sd = 12.9099..., cv = 51.6397...%
	assert.Equal(t, 51.64, stats.Volatility)
	assert.Equal(t, 4, stats.TotalRecords)
}

func TestBasicStatistics_SingleObservation(t *testing.T) {
	_, err := BasicStatistics(dailySeries(t, 100))
	require.Error(t, err)
	assert.Equal(t, model.KindDataQuality, model.KindOf(err))
	assert.Equal(t, model.StageAnalyze, model.StageOf(err))
}

func TestLinearTrend_PerfectLine(t *testing.T) {
	trend, err := LinearTrend([]float64{10, 20, 30, 40})
	require.NoError(t, err)
	assert.Equal(t, 10.0, trend.Slope)
	assert.Equal(t, 1.0, trend.RSquared)
	assert.Equal(t, 0.0, trend.PValue)
	assert.Equal(t, model.TrendUpward, trend.TrendDirection)
}

func TestLinearTrend_Falling(t *testing.T) {
	trend, err := LinearTrend([]float64{50, 41, 29, 21, 10})
	require.NoError(t, err)
	assert.Less(t, trend.Slope, 0.0)
	assert.Less(t, trend.PValue, SignificanceLevel)
	assert.Equal(t, model.TrendDownward, trend.TrendDirection)
}

func TestLinearTrend_NoisyIsFlat(t *testing.T) {
	// positive slope but nowhere near significant
	trend, err := LinearTrend([]float64{100, 80, 120, 90, 115, 85, 110})
	require.NoError(t, err)
	assert.Greater(t, trend.PValue, SignificanceLevel)
	assert.Equal(t, model.TrendFlat, trend.TrendDirection)
}

func TestLinearTrend_Constant(t *testing.T) {
	trend, err := LinearTrend([]float64{7, 7, 7, 7})
	require.NoError(t, err)
	assert.Equal(t, 0.0, trend.Slope)
	assert.Equal(t, 0.0, trend.RSquared)
	assert.Equal(t, 1.0, trend.PValue)
	assert.Equal(t, model.TrendFlat, trend.TrendDirection)
}

func TestLinearTrend_TooShort(t *testing.T) {
	_, err := LinearTrend([]float64{1, 2})
	require.Error(t, err)
	assert.Equal(t, model.KindDataQuality, model.KindOf(err))
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name  string
		slope float64
		p     float64
		want  model.TrendDirection
	}{
		{"significant rise", 1.5, 0.01, model.TrendUpward},
		{"significant fall", -1.5, 0.01, model.TrendDownward},
		{"significant zero slope", 0, 0.01, model.TrendDownward},
		{"insignificant rise", 1.5, 0.2, model.TrendFlat},
		{"insignificant fall", -1.5, 0.2, model.TrendFlat},
		{"boundary p", 1.5, 0.05, model.TrendFlat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrend(tt.slope, tt.p))
		})
	}
}

func TestMonthOverMonth(t *testing.T) {
	series := seriesOf(t,
		point{"2024-01-10", 100},
		point{"2024-01-20", 100},
		point{"2024-02-10", 105},
		point{"2024-02-20", 115},
		point{"2024-03-15", 99},
	)
	mom, err := MonthOverMonth(series)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, -10}, mom.MoMChanges)
	assert.Equal(t, []string{"2024-02", "2024-03"}, mom.MoMDates)
	assert.Equal(t, 103.0, mom.BasePrice)
	// sample sd of {10, -10}
	assert.Equal(t, 14.14, mom.Volatility)
}

func TestMonthOverMonth_TooFewMonths(t *testing.T) {
	series := seriesOf(t, point{"2024-01-10", 100}, point{"2024-02-10", 110})
	_, err := MonthOverMonth(series)
	require.Error(t, err)
	assert.Equal(t, model.KindDataQuality, model.KindOf(err))
}

func TestWeekdayPattern(t *testing.T) {
	// Monday, Tuesday, Wednesday
	wp, err := WeekdayPattern(dailySeries(t, 100, 90, 110))
	require.NoError(t, err)

	assert.Equal(t, "Wednesday", wp.BestDay)
	assert.Equal(t, 100.0, wp.MonthlyBaseline)
	require.Len(t, wp.WeeklyPerformance, 3)

	wed := wp.WeeklyPerformance["Wednesday"]
	assert.Equal(t, 10.0, wed.VsMonthlyAvg)
	assert.True(t, wed.IsBetterThanMonthly)
	assert.Equal(t, 1, wed.Observations)

	tue := wp.WeeklyPerformance["Tuesday"]
	assert.Equal(t, -10.0, tue.VsMonthlyAvg)
	assert.False(t, tue.IsBetterThanMonthly)

	mon := wp.WeeklyPerformance["Monday"]
	assert.Equal(t, 0.0, mon.VsMonthlyAvg)
	assert.False(t, mon.IsBetterThanMonthly)
}

func TestSeasonalPattern(t *testing.T) {
	series := seriesOf(t,
		point{"2024-01-01", 100}, // Monday
		point{"2024-01-02", 104}, // Tuesday
		point{"2024-02-05", 120}, // Monday
		point{"2024-02-06", 110}, // Tuesday
	)
	s, err := SeasonalPattern(series)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"January": 102, "February": 115}, s.Monthly.Mean)
	assert.Equal(t, map[string]float64{"Monday": 110, "Tuesday": 107}, s.DayOfWeek.Mean)
	assert.Equal(t, "February", s.BestMonth)
	assert.Equal(t, "Monday", s.BestDay)
}

func TestSeasonalPattern_TieBreaksLexically(t *testing.T) {
	// Tuesday and Monday tie; Monday sorts first.
	s, err := SeasonalPattern(dailySeries(t, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, "Monday", s.BestDay)

	// Wednesday (2024-01-03) and Thursday tie at 50, above Tuesday.
	s, err = SeasonalPattern(seriesOf(t,
		point{"2024-01-04", 50},
		point{"2024-01-03", 50},
		point{"2024-01-02", 10},
	))
	require.NoError(t, err)
	assert.Equal(t, "Thursday", s.BestDay)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.24, Round(1.235, 2))
	assert.Equal(t, -1.24, Round(-1.235, 2))
	assert.Equal(t, 0.123457, Round(0.1234567, 6))
	assert.Equal(t, 10.0, Round(9.999999999999998, 2))
}

func TestFinite(t *testing.T) {
	assert.NoError(t, finite(map[string]float64{"a": 1}))
	assert.Error(t, finite(map[string]float64{"a": math.NaN()}))
	assert.Error(t, finite(map[string]float64{"a": math.Inf(1)}))
}

// risingPrices spans 2024-01-01 through 2024-04-29 when fed to dailySeries.
func risingPrices() []float64 {
	var prices []float64
	for i := 0; i < 120; i++ {
		prices = append(prices, 8000+float64(i)*5+float64(i%7))
	}
	return prices
}

func TestCompute(t *testing.T) {
	sets, err := Compute(context.Background(), dailySeries(t, risingPrices()...))
	require.NoError(t, err)

	assert.Equal(t, 120, sets.Basic.TotalRecords)
	assert.Equal(t, model.TrendUpward, sets.Trend.TrendDirection)
	assert.Len(t, sets.Monthly.MoMChanges, 3)
	assert.Len(t, sets.Weekly.WeeklyPerformance, 7)
	assert.Equal(t, "April", sets.Seasonality.BestMonth)
}

func TestCompute_PropagatesFailure(t *testing.T) {
	_, err := Compute(context.Background(), dailySeries(t, 100, 110))
	require.Error(t, err)
	assert.Equal(t, model.KindDataQuality, model.KindOf(err))
}

func TestCompute_Deterministic(t *testing.T) {
	series := dailySeries(t, risingPrices()...)
	a, err := Compute(context.Background(), series)
	require.NoError(t, err)
	b, err := Compute(context.Background(), series)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
