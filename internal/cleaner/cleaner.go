package cleaner

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"CopperAnalytics/internal/logger"
	"CopperAnalytics/internal/model"
)

// DropCounts tallies rows discarded during coercion, by reason.
type DropCounts struct {
	BadDate     int
	BadPrice    int
	NonPositive int
}

func (d DropCounts) Total() int { return d.BadDate + d.BadPrice + d.NonPositive }

// Cleaner turns a raw CSV document into a validated PriceSeries.
type Cleaner struct {
	MinRows int

	dates dateParser
	log   *logger.Entry
}

// NewCleaner creates a Cleaner. Empty layouts fall back to DefaultDateLayouts.
func NewCleaner(minRows int, layouts []string) *Cleaner {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return &Cleaner{
		MinRows: minRows,
		dates:   dateParser{layouts: layouts},
		log:     logger.GetLogger().WithComponent("cleaner"),
	}
}

// WithLogger returns a copy of c logging through entry.
func (c *Cleaner) WithLogger(entry *logger.Entry) *Cleaner {
	cp := *c
	cp.log = entry.WithComponent("cleaner")
	return &cp
}

// Clean parses doc, detects the date and price columns, coerces every row,
// sorts by date and enforces the row floor. It fails with a schema error when
// the table or its columns can't be identified and with a data-quality error
// when too few rows survive.
func (c *Cleaner) Clean(doc *model.RawDocument) (*model.PriceSeries, error) {
	t, err := readTable(doc.Body)
	if err != nil {
		return nil, model.NewSchemaError(err)
	}
	c.log.WithFields(logger.Fields{
		"rows":    len(t.rows),
		"columns": t.header,
	}).Info("raw table loaded")

	dateCol, priceCol, err := c.detectColumns(t)
	if err != nil {
		return nil, model.NewSchemaError(err)
	}

	obs, drops := c.coerce(t, dateCol, priceCol)
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })

	fields := logger.Fields{
		"kept":         len(obs),
		"bad_date":     drops.BadDate,
		"bad_price":    drops.BadPrice,
		"non_positive": drops.NonPositive,
	}
	if len(obs) == 0 || len(obs) < c.MinRows {
		c.log.WithFields(fields).Warn("cleaned series below minimum row count")
		return nil, model.NewDataQualityError(model.StageClean,
			fmt.Errorf("cleaned series has %d rows, minimum is %d", len(obs), c.MinRows))
	}

	series := model.NewPriceSeries(doc.Source, obs)
	fields["start"] = series.First().Date.Format("2006-01-02")
	fields["end"] = series.Last().Date.Format("2006-01-02")
	fields["min_price"], fields["max_price"] = priceRange(obs)
	c.log.WithFields(fields).Info("series cleaned")
	return series, nil
}

func (c *Cleaner) coerce(t *table, dateCol, priceCol int) ([]model.Observation, DropCounts) {
	var drops DropCounts
	obs := make([]model.Observation, 0, len(t.rows))
	for _, row := range t.rows {
		date, err := c.dates.parse(t.cell(row, dateCol))
		if err != nil {
			drops.BadDate++
			continue
		}
		price, err := parsePrice(t.cell(row, priceCol))
		if err != nil {
			drops.BadPrice++
			continue
		}
		if price <= 0 {
			drops.NonPositive++
			continue
		}
		obs = append(obs, model.NewObservation(date, price))
	}
	return obs, drops
}

func readTable(body []byte) (*table, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty document")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("need at least 2 columns, got %d", len(header))
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return &table{header: header, rows: rows}, nil
}

func priceRange(obs []model.Observation) (lo, hi float64) {
	lo, hi = obs[0].Price, obs[0].Price
	for _, o := range obs[1:] {
		if o.Price < lo {
			lo = o.Price
		}
		if o.Price > hi {
			hi = o.Price
		}
	}
	return lo, hi
}
