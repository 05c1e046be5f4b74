package model

// Results groups every metric set under its report key.
type Results struct {
	KeyMetrics          KeyMetrics         `json:"key_metrics"`
	BasicStats          BasicStats         `json:"basic_stats"`
	Seasonality         Seasonality        `json:"seasonality"`
	Trend               Trend              `json:"trend"`
	MonthlyFluctuations MonthlyFluctuation `json:"monthly_fluctuations"`
	WeeklyPatterns      WeeklyPattern      `json:"weekly_patterns"`
}

// RawData carries the cleaned series as parallel arrays for plotting.
type RawData struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Metadata struct {
	TotalRecords    int       `json:"total_records"`
	DateRange       DateRange `json:"date_range"`
	AnalysisVersion string    `json:"analysis_version"`
	RunID           string    `json:"run_id"`
}

// AnalysisReport is the document read by the dashboard.
type AnalysisReport struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Timestamp  string   `json:"timestamp"`
	DataSource string   `json:"data_source"`
	Results    Results  `json:"results"`
	RawData    RawData  `json:"raw_data"`
	Metadata   Metadata `json:"metadata"`
}

// LastUpdated is the companion document consumers poll to detect a new report.
type LastUpdated struct {
	Timestamp     string `json:"timestamp"`
	UnixTimestamp int64  `json:"unix_timestamp"`
}
