package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

// CleanTimeString drops everything from the first space on, so
// "05:30 (PDT)" becomes "05:30".
func CleanTimeString(raw string) string {
	s, _, _ := strings.Cut(raw, " ")
	return s
}

// TimeToMinutes returns the minute of the day of an "HH:MM" time string.
// No range validation is done.
func TimeToMinutes(raw string) (int, error) {
	s := CleanTimeString(raw)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time format: %q", raw)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	min, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	return hour*60 + min, nil
}

// FormatMinutes is the inverse of TimeToMinutes.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParsePrayerTime places a raw API time on the given YYYY-MM-DD date in loc.
// The API time is trusted to already be local to loc.
func ParsePrayerTime(isoDate, raw string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(isoLayout, isoDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", isoDate, err)
	}
	minutes, err := TimeToMinutes(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

// ISODate returns the YYYY-MM-DD key of t's calendar date in its own location.
func ISODate(t time.Time) string {
	return t.Format(isoLayout)
}
