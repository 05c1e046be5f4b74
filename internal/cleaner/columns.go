package cleaner

import (
	"fmt"
	"strings"
)

// sampleSize is how many leading non-empty cells a name-matched column must parse.
const sampleSize = 5

var (
	dateTokens  = []string{"date", "time", "day"}
	priceTokens = []string{"price", "cash", "settlement", "copper", "lme"}
)

// table is the parsed CSV: a header and ragged data rows.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// sample returns up to n non-empty cells of col.
func (t *table) sample(col, n int) []string {
	out := make([]string, 0, n)
	for _, row := range t.rows {
		if v := strings.TrimSpace(t.cell(row, col)); v != "" {
			out = append(out, v)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// columnRule selects a column. Rules are tried in order; the first column a
// rule accepts wins.
type columnRule struct {
	name   string
	accept func(t *table, col int) bool
}

func nameHas(tokens []string) func(string) bool {
	return func(header string) bool {
		h := strings.ToLower(header)
		for _, tok := range tokens {
			if strings.Contains(h, tok) {
				return true
			}
		}
		return false
	}
}

func (c *Cleaner) dateRules() []columnRule {
	named := nameHas(dateTokens)
	return []columnRule{
		{
			name: "date name token",
			accept: func(t *table, col int) bool {
				if !named(t.header[col]) {
					return false
				}
				return mostlyParse(t.sample(col, sampleSize), func(s string) bool {
					_, err := c.dates.parse(s)
					return err == nil
				})
			},
		},
		{
			name:   "first column",
			accept: func(_ *table, col int) bool { return col == 0 },
		},
	}
}

func priceRules() []columnRule {
	named := nameHas(priceTokens)
	numeric := func(s string) bool {
		_, err := parsePrice(s)
		return err == nil
	}
	return []columnRule{
		{
			name: "price name token",
			accept: func(t *table, col int) bool {
				return named(t.header[col]) && allParse(t.sample(col, sampleSize), numeric)
			},
		},
		{
			name: "fully numeric column",
			accept: func(t *table, col int) bool {
				return allParse(t.sample(col, len(t.rows)), numeric)
			},
		},
	}
}

// allParse requires every value to satisfy ok. An empty sample never qualifies,
// so blank columns are never picked.
func allParse(values []string, ok func(string) bool) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !ok(v) {
			return false
		}
	}
	return true
}

// mostlyParse requires a strict majority of values to satisfy ok. An empty
// sample never qualifies.
func mostlyParse(values []string, ok func(string) bool) bool {
	good := 0
	for _, v := range values {
		if ok(v) {
			good++
		}
	}
	return good*2 > len(values)
}

// pick applies rules in order, skipping excluded columns.
func pick(t *table, rules []columnRule, exclude int) (int, string, bool) {
	for _, rule := range rules {
		for col := range t.header {
			if col == exclude {
				continue
			}
			if rule.accept(t, col) {
				return col, rule.name, true
			}
		}
	}
	return -1, "", false
}

func (c *Cleaner) detectColumns(t *table) (dateCol, priceCol int, err error) {
	dateCol, dateRule, ok := pick(t, c.dateRules(), -1)
	if !ok {
		return -1, -1, fmt.Errorf("no date column in %v", t.header)
	}
	priceCol, priceRule, ok := pick(t, priceRules(), dateCol)
	if !ok {
		return -1, -1, fmt.Errorf("no price column in %v", t.header)
	}
	c.log.WithField("date_column", t.header[dateCol]).
		WithField("date_rule", dateRule).
		WithField("price_column", t.header[priceCol]).
		WithField("price_rule", priceRule).
		Info("columns detected")
	return dateCol, priceCol, nil
}
