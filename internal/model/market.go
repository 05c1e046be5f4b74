package model

import (
	"time"
)

// RawDocument is the undecoded payload returned by a single successful fetch.
type RawDocument struct {
	Body        []byte
	ContentType string
	Source      string
	FetchedAt   time.Time
}

// Observation is one cleaned daily price with its calendar attributes.
type Observation struct {
	Date        time.Time
	Price       float64
	Year        int
	Month       time.Month
	MonthName   string
	WeekdayName string
}

// NewObservation normalises date to midnight UTC and derives the calendar fields.
func NewObservation(date time.Time, price float64) Observation {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Observation{
		Date:        day,
		Price:       price,
		Year:        y,
		Month:       m,
		MonthName:   m.String(),
		WeekdayName: day.Weekday().String(),
	}
}

// YearMonth returns the calendar month key, e.g. "2024-03".
func (o Observation) YearMonth() string {
	return o.Date.Format("2006-01")
}

// PriceSeries holds the cleaned, date-ordered observations for one run.
// It is never mutated after construction.
type PriceSeries struct {
	source       string
	observations []Observation
}

// NewPriceSeries copies obs so later changes by the caller are not visible.
func NewPriceSeries(source string, obs []Observation) *PriceSeries {
	cp := make([]Observation, len(obs))
	copy(cp, obs)
	return &PriceSeries{source: source, observations: cp}
}

func (s *PriceSeries) Source() string { return s.source }

func (s *PriceSeries) Len() int { return len(s.observations) }

// At returns the i-th observation by value.
func (s *PriceSeries) At(i int) Observation { return s.observations[i] }

// Prices returns a fresh slice of prices in date order.
func (s *PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.observations))
	for i, o := range s.observations {
		out[i] = o.Price
	}
	return out
}

// Each calls fn for every observation in date order.
func (s *PriceSeries) Each(fn func(i int, o Observation)) {
	for i, o := range s.observations {
		fn(i, o)
	}
}

// First and Last panic on an empty series; the cleaner never produces one.
func (s *PriceSeries) First() Observation { return s.observations[0] }

func (s *PriceSeries) Last() Observation { return s.observations[len(s.observations)-1] }
