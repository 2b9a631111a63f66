// Package period models a monthly tax period as a half-open date range.
package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid_period")

// Period is a (year, month) tax period. Document filtering uses the
// half-open range [Start, End) on the document's accounting date.
type Period struct {
	Year  int
	Month time.Month
}

func New(year int, month int) (Period, error) {
	if year < 2000 || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Start returns the first instant of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month (exclusive bound).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Prev returns the preceding calendar month, wrapping December of the
// prior year when the period is January.
func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Contains reports whether t falls inside [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start()) && t.Before(p.End())
}

// InFuture reports whether the period starts after now.
func (p Period) InFuture(now time.Time) bool {
	return p.Start().After(now)
}

// FromTime returns the period containing t.
func FromTime(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
