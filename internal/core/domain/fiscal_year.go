package domain

import "time"

// FiscalYear is a non-overlapping date range [Start, End).
type FiscalYear struct {
	FiscalYearID int64     `json:"fiscalYearID"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"` // exclusive
	Opened       bool      `json:"opened"`
	Closed       bool      `json:"closed"` // carry-forward already generated
	AuditFields
}

// Contains reports whether date falls within the year.
func (y FiscalYear) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(y.Start)) && d.Before(DateOf(y.End))
}

// Overlaps reports whether the two ranges share at least one day.
func (y FiscalYear) Overlaps(start, end time.Time) bool {
	return DateOf(start).Before(DateOf(y.End)) && DateOf(y.Start).Before(DateOf(end))
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
