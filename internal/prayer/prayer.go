// Package prayer resolves the current and next prayer from a day-indexed
// dictionary of Al Adhan timings.
package prayer

import (
	"fmt"
	"time"
)

// Prayer represents a single prayer with its name and concrete time.
type Prayer struct {
	Name string
	Time time.Time
}

// DailyPrayers are the six tracked times of a day, in chronological order.
var DailyPrayers = []string{
	"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha",
}

// FardPrayers are the five obligatory prayers. Sunrise is not one of them.
var FardPrayers = []string{
	"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha",
}

// AllPrayerNames lists every prayer/event the API can return.
var AllPrayerNames = []string{
	"Fajr", "Sunrise", "Dhuhr", "Asr", "Sunset", "Maghrib", "Isha",
	"Imsak", "Midnight", "Firstthird", "Lastthird",
}

// ShortNames maps full prayer names to abbreviations.
var ShortNames = map[string]string{
	"Fajr":       "F",
	"Sunrise":    "S",
	"Dhuhr":      "D",
	"Asr":        "A",
	"Sunset":     "St",
	"Maghrib":    "M",
	"Isha":       "I",
	"Imsak":      "Im",
	"Midnight":   "Mi",
	"Firstthird": "F3",
	"Lastthird":  "L3",
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(p Prayer, now time.Time) time.Duration {
	return p.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
