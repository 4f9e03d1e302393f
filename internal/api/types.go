package api

import (
	"fmt"
	"strconv"
	"strings"
)

// apiResult is implemented by every Al Adhan response envelope.
type apiResult interface {
	result() (code int, status string)
}

// CalendarResponse is the monthly prayer times calendar: one Data per day.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

func (r *CalendarResponse) result() (int, string) { return r.Code, r.Status }

// HijriCalendarResponse is the Gregorian-to-Hijri calendar for one Gregorian month.
type HijriCalendarResponse struct {
	Code   int           `json:"code"`
	Status string        `json:"status"`
	Data   []CalendarDay `json:"data"`
}

func (r *HijriCalendarResponse) result() (int, string) { return r.Code, r.Status }

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains all prayer and event times as HH:MM strings.
// The API may include a timezone suffix like " (BST)".
type Timings struct {
	Fajr       string `json:"Fajr"`
	Sunrise    string `json:"Sunrise"`
	Dhuhr      string `json:"Dhuhr"`
	Asr        string `json:"Asr"`
	Sunset     string `json:"Sunset"`
	Maghrib    string `json:"Maghrib"`
	Isha       string `json:"Isha"`
	Imsak      string `json:"Imsak"`
	Midnight   string `json:"Midnight"`
	Firstthird string `json:"Firstthird"`
	Lastthird  string `json:"Lastthird"`
}

// Map returns the non-empty timings keyed by prayer name.
func (t Timings) Map() map[string]string {
	all := map[string]string{
		"Fajr":       t.Fajr,
		"Sunrise":    t.Sunrise,
		"Dhuhr":      t.Dhuhr,
		"Asr":        t.Asr,
		"Sunset":     t.Sunset,
		"Maghrib":    t.Maghrib,
		"Isha":       t.Isha,
		"Imsak":      t.Imsak,
		"Midnight":   t.Midnight,
		"Firstthird": t.Firstthird,
		"Lastthird":  t.Lastthird,
	}
	for k, v := range all {
		if v == "" {
			delete(all, k)
		}
	}
	return all
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// CalendarDay is one entry of the Hijri calendar endpoint.
type CalendarDay struct {
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
type HijriDate struct {
	Date             string           `json:"date"` // e.g. "10-08-1447"
	Day              string           `json:"day"`
	Month            HijriMonth       `json:"month"`
	Year             string           `json:"year"`
	Designation      HijriDesignation `json:"designation"`
	Holidays         []string         `json:"holidays"`
	AdjustedHolidays []string         `json:"adjustedHolidays"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Shaʿbān"
	Ar     string `json:"ar"`
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// DayMonth returns the day-of-month and month number encoded in Date ("D-MM-YYYY").
func (h HijriDate) DayMonth() (day, month int, ok bool) {
	parts := strings.Split(h.Date, "-")
	if len(parts) < 2 {
		return 0, 0, false
	}
	d, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return d, m, true
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "28-02-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// ISO converts Date from DD-MM-YYYY to YYYY-MM-DD.
func (g GregorianDate) ISO() (string, error) {
	parts := strings.Split(g.Date, "-")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return "", fmt.Errorf("invalid gregorian date %q", g.Date)
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0], nil
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
