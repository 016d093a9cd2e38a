// Package calendar converts between civil dates and week numbers.
//
// Both supported conventions define week 1 as the week containing January 4.
// A week is identified by its anchor, the fourth day of the week (week start + 3 days):
// Thursday for ISO weeks, Wednesday for Sunday-started weeks. The anchor always lies in
// the year the week is numbered in, which is what makes late-December dates land in
// week 1 of the following year.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DefaultWeekCount is the number of week slots shown when the data service does not say otherwise.
const DefaultWeekCount = 52

type Convention int

const (
	// ISO weeks start on Monday.
	ISO Convention = iota
	// Sunday weeks start on Sunday.
	Sunday
)

func (c Convention) String() string {
	switch c {
	case Sunday:
		return "sunday"
	default:
		return "iso"
	}
}

// FirstWeekday is the weekday a week starts on under c.
func (c Convention) FirstWeekday() time.Weekday {
	if c == Sunday {
		return time.Sunday
	}
	return time.Monday
}

func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "iso", "monday":
		return ISO, nil
	case "sunday", "us":
		return Sunday, nil
	default:
		return ISO, fmt.Errorf("unknown week convention: %s (want iso|sunday)", s)
	}
}

func (c Convention) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Convention) UnmarshalText(b []byte) error {
	parsed, err := ParseConvention(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// StartOfWeek returns the first day of the week containing d.
func StartOfWeek(d Date, c Convention) Date {
	offset := (int(d.Weekday()) - int(c.FirstWeekday()) + 7) % 7
	return d.AddDays(-offset)
}

func anchor(d Date, c Convention) Date {
	return StartOfWeek(d, c).AddDays(3)
}

// WeekYear is the year whose numbering d's week belongs to. It differs from d.Year
// only for the last days of December and the first days of January.
func WeekYear(d Date, c Convention) int {
	return anchor(d, c).Year
}

// WeekOf returns the 1-based week number of d within its week year.
func WeekOf(d Date, c Convention) int {
	a := anchor(d, c)
	first := anchor(Date{Year: a.Year, Month: time.January, Day: 4}, c)
	// Both anchors fall on the same weekday, so the distance is a whole number of weeks.
	return 1 + a.DaysSince(first)/7
}

// WeekStartDate returns the first day of week number week in year.
// Out-of-range week numbers are not rejected; they simply step past the year's edges.
func WeekStartDate(year, week int, c Convention) Date {
	first := StartOfWeek(Date{Year: year, Month: time.January, Day: 4}, c)
	return first.AddDays((week - 1) * 7)
}

// ShiftWeeks moves d by n whole weeks, keeping its weekday.
func ShiftWeeks(d Date, n int) Date {
	return d.AddDays(7 * n)
}

// WeeksInYear is 52 or 53: the number of the week that contains December 28.
func WeeksInYear(year int, c Convention) int {
	return WeekOf(Date{Year: year, Month: time.December, Day: 28}, c)
}

// CurrentWeek reports the week number of today when year is today's week year.
// Other years never have a current week.
func CurrentWeek(today Date, year int, c Convention) (int, bool) {
	if today.IsZero() || WeekYear(today, c) != year {
		return 0, false
	}
	return WeekOf(today, c), true
}
