package cleaner

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultDateLayouts are tried before the lenient parser.
var DefaultDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

var (
	errEmpty       = errors.New("empty value")
	errNotFinite   = errors.New("not a finite number")
	errUnparseable = errors.New("unparseable date")
)

// dateParser converts cell text to a calendar date in UTC.
type dateParser struct {
	layouts []string
}

func (p dateParser) parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmpty
	}
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, errUnparseable
	}
	return t, nil
}

// parsePrice accepts plain decimals plus thousands separators and a leading
// currency sign. NaN and infinities are rejected.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, errEmpty
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
