package domain

import (
	"fmt"
	"time"
)

// Period is the (year, month) bucket of a transaction date
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period bucket of a date
func PeriodOf(d time.Time) Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// ParsePeriod parses a "YYYY-MM" key
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	return PeriodOf(t), nil
}

// String returns the "YYYY-MM" key
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// FirstDay returns the first calendar day of the period
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p is chronologically before other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}
