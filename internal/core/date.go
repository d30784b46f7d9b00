package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar-local date with no time-of-day component.
//
// It is deliberately not backed by time.Time: the wire format everywhere in
// this system is a plain "YYYY-MM-DD" string, and feeding that through a
// generic parser can shift the day across a timezone boundary. All parsing
// and arithmetic here works on the three integer components directly.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

// ErrInvalidDate is returned when a date string or its components are malformed.
var ErrInvalidDate = fmt.Errorf("invalid date")

// NewDate builds a Date from its components without validation.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the current date in the local timezone.
func Today() Date {
	now := time.Now()
	return Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

// ParseDate parses a "YYYY-MM-DD" string by splitting its components.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: year in %q", ErrInvalidDate, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("%w: month in %q", ErrInvalidDate, s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("%w: day in %q", ErrInvalidDate, s)
	}
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// MustParseDate is a test/fixture helper that panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Validate() error {
	if d.Year < 1 {
		return fmt.Errorf("%w: year %d", ErrInvalidDate, d.Year)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, d.Month)
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return fmt.Errorf("%w: day %d in %04d-%02d", ErrInvalidDate, d.Day, d.Year, d.Month)
	}
	return nil
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthKey returns the "YYYY-MM" bucket key for this date.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}

// Compare returns -1, 0 or 1 ordering dates chronologically.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

// AddMonths advances the date by n calendar months, preserving the day of
// month when the target month has it and otherwise clamping to the target
// month's last day. Jan 31 + 1 month is Feb 28 (29 in leap years), never a
// rollover into March.
func (d Date) AddMonths(n int) Date {
	total := (d.Month - 1) + n
	year := d.Year + total/12
	month := total%12 + 1
	if month < 1 {
		month += 12
		year--
	}
	day := d.Day
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
