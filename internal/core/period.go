package core

import "time"

const (
	PeriodDay   BudgetPeriod = "day"
	PeriodMonth BudgetPeriod = "month"
	PeriodYear  BudgetPeriod = "year"

	CalendarMonth PeriodType = "calendar_month"
	CalendarYear  PeriodType = "calendar_year"
	Today         PeriodType = "today"
	LastWeek      PeriodType = "last_week"
	LastMonth     PeriodType = "last_month"
	LastYear      PeriodType = "last_year"
	CustomPeriod  PeriodType = "custom"
)

type (
	// BudgetPeriod is the granularity a budget limit is defined for.
	BudgetPeriod string

	// PeriodType is a reporting window selected by the user.
	PeriodType string
)

func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

func (p PeriodType) Valid() bool {
	switch p {
	case CalendarMonth, CalendarYear, Today, LastWeek, LastMonth, LastYear, CustomPeriod:
		return true
	}
	return false
}

// DateRange resolves a reporting window to concrete start and end times.
// The end is the last instant of today except for custom periods, where
// it is the last instant of the custom end date. Unknown or empty period
// types fall back to the trailing month.
func DateRange(period PeriodType, customStart, customEnd time.Time) (time.Time, time.Time) {
	return dateRangeAt(time.Now(), period, customStart, customEnd)
}

func dateRangeAt(now time.Time, period PeriodType, customStart, customEnd time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1).Add(-time.Nanosecond)

	var start time.Time
	switch period {
	case Today:
		start = today
	case LastWeek:
		start = today.AddDate(0, 0, -7)
	case LastYear:
		start = today.AddDate(-1, 0, 0)
	case CustomPeriod:
		start = truncateToDay(customStart)
		end = truncateToDay(customEnd).AddDate(0, 0, 1).Add(-time.Nanosecond)
	default:
		// Every other period, the calendar ones included, is a
		// trailing-month window.
		start = today.AddDate(0, -1, 0)
	}

	return start, end
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// DaysInYear returns 366 for leap years, 365 otherwise.
func DaysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
