package model

// TrendDirection classifies the fitted regression slope.
type TrendDirection string

const (
	TrendUpward   TrendDirection = "Upward"
	TrendDownward TrendDirection = "Downward"
	TrendFlat     TrendDirection = "Flat"
)

// BasicStats summarises the price distribution.
type BasicStats struct {
	AveragePrice float64 `json:"average_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Volatility   float64 `json:"volatility"` // coefficient of variation, percent
	TotalRecords int     `json:"total_records"`
}

// GroupMeans maps a group label (month or weekday name) to its mean price.
type GroupMeans struct {
	Mean map[string]float64 `json:"mean"`
}

// Seasonality holds mean prices by month name and by weekday name.
type Seasonality struct {
	Monthly   GroupMeans `json:"monthly"`
	DayOfWeek GroupMeans `json:"day_of_week"`
	BestMonth string     `json:"best_month"`
	BestDay   string     `json:"best_day"`
}

// Trend is the least-squares fit of price against a zero-based day index.
type Trend struct {
	Slope          float64        `json:"slope"`
	RSquared       float64        `json:"r_squared"`
	PValue         float64        `json:"p_value"`
	TrendDirection TrendDirection `json:"trend_direction"`
}

// MonthlyFluctuation holds month-over-month percentage changes of monthly means.
type MonthlyFluctuation struct {
	MoMChanges []float64 `json:"mom_changes"`
	MoMDates   []string  `json:"mom_dates"`
	BasePrice  float64   `json:"base_price"`
	Volatility float64   `json:"volatility"`
}

// WeekdayPerformance compares one weekday against the series baseline.
type WeekdayPerformance struct {
	AveragePrice        float64 `json:"average_price"`
	Observations        int     `json:"observations"`
	VsMonthlyAvg        float64 `json:"vs_monthly_avg"`
	IsBetterThanMonthly bool    `json:"is_better_than_monthly"`
}

// WeeklyPattern holds per-weekday performance.
type WeeklyPattern struct {
	BestDay           string                        `json:"best_day"`
	WeeklyPerformance map[string]WeekdayPerformance `json:"weekly_performance"`
	MonthlyBaseline   float64                       `json:"monthly_baseline"`
}

// MetricSets is the output of the analytics battery.
type MetricSets struct {
	Basic       BasicStats
	Seasonality Seasonality
	Trend       Trend
	Monthly     MonthlyFluctuation
	Weekly      WeeklyPattern
}

// KeyMetrics flattens the headline numbers for dashboards.
type KeyMetrics struct {
	BasicStats
	TrendDirection TrendDirection `json:"trend_direction"`
	BestMonth      string         `json:"best_month"`
	BestDay        string         `json:"best_day"`
}
