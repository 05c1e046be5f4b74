package cleaner

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CopperAnalytics/internal/model"
)

func doc(body string) *model.RawDocument {
	return &model.RawDocument{Body: []byte(body), ContentType: "text/csv", Source: "test://copper.csv"}
}

// dailyCSV builds n rows of weekday-agnostic daily prices starting 2024-01-01.
func dailyCSV(header string, n int) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s,%.2f\n", start.AddDate(0, 0, i).Format("2006-01-02"), 8000+float64(i))
	}
	return b.String()
}

func TestClean_ProducesSortedSeries(t *testing.T) {
	body := "Date,Price\n2024-01-03,110\n2024-01-01,100\n2024-01-02,90\n"
	series, err := NewCleaner(3, nil).Clean(doc(body))
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, []float64{100, 90, 110}, series.Prices())
	assert.Equal(t, "test://copper.csv", series.Source())

	first := series.First()
	assert.Equal(t, "Monday", first.WeekdayName)
	assert.Equal(t, "January", first.MonthName)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, "Wednesday", series.Last().WeekdayName)

	for i := 1; i < series.Len(); i++ {
		assert.False(t, series.At(i).Date.Before(series.At(i-1).Date))
	}
}

func TestClean_DetectsColumns(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []float64
	}{
		{
			name: "price token",
			body: "Date,Volume,LME Cash Settlement\n2024-01-01,5,8100\n2024-01-02,6,8200\n",
			want: []float64{8100, 8200},
		},
		{
			name: "date token not first",
			body: "Volume,Trade Date,Copper\n5,2024-01-01,8100\n6,2024-01-02,8200\n",
			want: []float64{8100, 8200},
		},
		{
			name: "price fallback to numeric column",
			body: "Date,Comment,Value\n2024-01-01,quiet,8100\n2024-01-02,busy,8200\n",
			want: []float64{8100, 8200},
		},
		{
			name: "date fallback to first column",
			body: "When,Value\n2024-01-01,8100\n2024-01-02,8200\n",
			want: []float64{8100, 8200},
		},
		{
			name: "named column with text is skipped",
			body: "Date,Price Note,Close\n2024-01-01,n/a,8100\n2024-01-02,n/a,8200\n",
			want: []float64{8100, 8200},
		},
		{
			name: "thousands separators and currency",
			body: "Date,Price\n2024-01-01,\"$8,100.50\"\n2024-01-02,\"8,200\"\n",
			want: []float64{8100.5, 8200},
		},
		{
			name: "byte order mark",
			body: "\xef\xbb\xbfDate,Price\n2024-01-01,8100\n2024-01-02,8200\n",
			want: []float64{8100, 8200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := NewCleaner(2, nil).Clean(doc(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, series.Prices())
		})
	}
}

func TestClean_AlternateDateFormats(t *testing.T) {
	body := "Date,Price\n01/02/2024,8100\n03-Jan-2024,8200\n\"Jan 4, 2024\",8300\n2024-01-05T00:00:00Z,8400\n"
	series, err := NewCleaner(4, nil).Clean(doc(body))
	require.NoError(t, err)
	assert.Equal(t, []float64{8100, 8200, 8300, 8400}, series.Prices())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), series.First().Date)
}

func TestClean_DropsInvalidRows(t *testing.T) {
	body := strings.Join([]string{
		"Date,Price",
		"2024-01-01,100",
		"not-a-date,100",
		"2024-01-03,0",
		"2024-01-04,-5",
		"2024-01-07,120",
		"2024-01-02,abc",
		"2024-01-05,NaN",
		"2024-01-06",
	}, "\n")
	series, err := NewCleaner(2, nil).Clean(doc(body))
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 120}, series.Prices())
	for i := 0; i < series.Len(); i++ {
		assert.Greater(t, series.At(i).Price, 0.0)
	}
}

func TestClean_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"single column", "Date\n2024-01-01\n"},
		{"no numeric column", "Date,Note\n2024-01-01,x\n2024-01-02,y\n"},
		{"malformed quoting", "Date,Price\n\"2024-01-01,100\n"},
		{"partly numeric columns only", "When,Note,Value\n2024-01-01,1,abc\n2024-01-02,x,2\n2024-01-03,2,3\n2024-01-04,3,4\n"},
		{"named price column with text in sample", "Date,Price\n2024-01-01,100\n2024-01-02,n/a\n2024-01-03,102\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCleaner(1, nil).Clean(doc(tt.body))
			require.Error(t, err)
			assert.Equal(t, model.KindSchema, model.KindOf(err))
			assert.Equal(t, model.StageClean, model.StageOf(err))
			assert.False(t, model.IsRetryable(err))
		})
	}
}

func TestClean_BelowMinimumRows(t *testing.T) {
	_, err := NewCleaner(2000, nil).Clean(doc(dailyCSV("Date,Price", 1999)))
	require.Error(t, err)
	assert.Equal(t, model.KindDataQuality, model.KindOf(err))
	assert.Contains(t, err.Error(), "1999")
}

func TestClean_AtMinimumRows(t *testing.T) {
	series, err := NewCleaner(2000, nil).Clean(doc(dailyCSV("Date,Price", 2000)))
	require.NoError(t, err)
	assert.Equal(t, 2000, series.Len())
}

func TestClean_NoSurvivingRows(t *testing.T) {
	_, err := NewCleaner(0, nil).Clean(doc("Date,Price\nx,1\n"))
	require.Error(t, err)
	assert.Equal(t, model.KindDataQuality, model.KindOf(err))
}

func TestClean_CustomLayouts(t *testing.T) {
	body := "Date,Price\n20240102,8100\n20240103,8200\n"
	series, err := NewCleaner(2, []string{"20060102"}).Clean(doc(body))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), series.Last().Date)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"8100", 8100, false},
		{" 8100.25 ", 8100.25, false},
		{"1,234.5", 1234.5, false},
		{"$99", 99, false},
		{"", 0, true},
		{"abc", 0, true},
		{"Inf", 0, true},
		{"NaN", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
