// Package dates resolves the compact date stamps written by the beamline
// control software into canonical calendar dates.
//
// A stamp is MMDDYY or, for single-digit months, MDDYY. The two-digit year
// is ambiguous; Resolve picks the century that lands closest to a reference
// date (normally today).
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Layout is the canonical rendering of a resolved date.
const Layout = "2006_01_02"

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDate       = errors.New("invalid date")
)

// Resolve converts token to a calendar date, resolving its two-digit year
// against ref. The first candidate is 20YY. The second is 19YY when 20YY
// lies after ref's year and 21YY otherwise. A candidate that is not a real
// calendar day is dropped; when both survive, the one nearer to ref wins
// and ties go to 20YY.
func Resolve(token string, ref time.Time) (time.Time, error) {
	month, day, year2, err := split(token)
	if err != nil {
		return time.Time{}, err
	}

	yearA := 2000 + year2
	yearB := 2100 + year2
	if yearA > ref.Year() {
		yearB = 1900 + year2
	}

	a, okA := calendarDate(yearA, month, day)
	b, okB := calendarDate(yearB, month, day)
	switch {
	case okA && okB:
		refDay, _ := calendarDate(ref.Year(), int(ref.Month()), ref.Day())
		if distance(a, refDay) <= distance(b, refDay) {
			return a, nil
		}
		return b, nil
	case okA:
		return a, nil
	case okB:
		return b, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a calendar day in %d or %d", ErrInvalidDate, token, yearA, yearB)
}

// Convert resolves token against ref and renders it as YYYY_MM_DD.
func Convert(token string, ref time.Time) (string, error) {
	t, err := Resolve(token, ref)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}

func split(token string) (month, day, year2 int, err error) {
	var m, d, y string
	switch len(token) {
	case 6:
		m, d, y = token[0:2], token[2:4], token[4:6]
	case 5:
		m, d, y = token[0:1], token[1:3], token[3:5]
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q must have 5 or 6 digits", ErrInvalidDateFormat, token)
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, 0, 0, fmt.Errorf("%w: %q must be digits only", ErrInvalidDateFormat, token)
		}
	}
	month, _ = strconv.Atoi(m)
	day, _ = strconv.Atoi(d)
	year2, _ = strconv.Atoi(y)
	return month, day, year2, nil
}

// calendarDate builds midnight UTC of the given day, reporting false when
// time.Date had to normalize it (Feb 30, month 13, day 0 ...).
func calendarDate(year, month, day int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func distance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
