package prayer

import "time"

// Day is one calendar day's raw prayer timings.
type Day struct {
	Date    string            `json:"date"`
	Timings map[string]string `json:"timings"`
}

// Dict indexes days by their YYYY-MM-DD date.
type Dict map[string]Day

// Moment is a resolved prayer: its name, cleaned "HH:MM" time, and the
// date of the day it was taken from.
type Moment struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Date   string `json:"date"`
}

// At returns the moment as a concrete time in loc.
func (m Moment) At(loc *time.Location) (Prayer, error) {
	t, err := ParsePrayerTime(m.Date, m.Time, loc)
	if err != nil {
		return Prayer{}, err
	}
	return Prayer{Name: m.Prayer, Time: t}, nil
}

// minutes reports the minute of the day of the named prayer.
// A missing or malformed time never compares true.
func (d Day) minutes(name string) (int, bool) {
	raw, ok := d.Timings[name]
	if !ok {
		return 0, false
	}
	m, err := TimeToMinutes(raw)
	if err != nil {
		return 0, false
	}
	return m, true
}

func (d Day) moment(key, name string) *Moment {
	return &Moment{Prayer: name, Time: CleanTimeString(d.Timings[name]), Date: key}
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// NextPrayer returns the first fard prayer starting strictly after now.
// After Isha it rolls over to tomorrow's Fajr. It returns nil when the
// needed day is not in dict.
func NextPrayer(dict Dict, now time.Time) *Moment {
	todayKey := ISODate(now)
	today, ok := dict[todayKey]
	if !ok {
		return nil
	}

	cur := minuteOfDay(now)
	for _, name := range FardPrayers {
		if m, ok := today.minutes(name); ok && m > cur {
			return today.moment(todayKey, name)
		}
	}

	tomorrowKey := ISODate(now.AddDate(0, 0, 1))
	tomorrow, ok := dict[tomorrowKey]
	if !ok {
		return nil
	}
	return tomorrow.moment(tomorrowKey, "Fajr")
}

// CurrentPrayer returns the latest of today's six times at or before now.
// Before Fajr it falls back to yesterday's Isha, and to today's Isha when
// yesterday is missing. It returns nil when today is not in dict.
func CurrentPrayer(dict Dict, now time.Time) *Moment {
	todayKey := ISODate(now)
	today, ok := dict[todayKey]
	if !ok {
		return nil
	}

	cur := minuteOfDay(now)
	for i := len(DailyPrayers) - 1; i >= 0; i-- {
		name := DailyPrayers[i]
		if m, ok := today.minutes(name); ok && m <= cur {
			return today.moment(todayKey, name)
		}
	}

	yesterdayKey := ISODate(now.AddDate(0, 0, -1))
	if yesterday, ok := dict[yesterdayKey]; ok {
		return yesterday.moment(yesterdayKey, "Isha")
	}

	// Reports a time later today as current. Kept for existing callers.
	return today.moment(todayKey, "Isha")
}
