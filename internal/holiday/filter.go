// Package holiday selects the Islamic observances worth surfacing from
// Hijri calendar data and finds the next one.
package holiday

import "github.com/smokyabdulrahman/prayer-calendar/internal/api"

// ShawwalSixLabel marks days 2 to 6 of Shawwal, the customary six days of
// voluntary fasting after Eid-ul-Fitr.
const ShawwalSixLabel = "Six Days of Shawwal"

const shawwal = 10

// included is the allow-list of holiday names reported by the calendar API.
var included = map[string]bool{
	"Islamic New Year":   true,
	"Ashura":             true,
	"Mawlid al-Nabi":     true,
	"Lailat-ul-Miraj":    true,
	"Lailat-ul-Bara'at":  true,
	"1st Day of Ramadan": true,
	"Lailat-ul-Qadr":     true,
	"Eid-ul-Fitr":        true,
	"Arafa":              true,
	"Eid-ul-Adha":        true,
}

// IsIncluded reports whether name is on the allow-list.
func IsIncluded(name string) bool {
	return included[name]
}

func shawwalDay(h api.HijriDate) (int, bool) {
	day, month, ok := h.DayMonth()
	if !ok || month != shawwal {
		return 0, false
	}
	return day, true
}

// HasIncludedHoliday reports whether day carries an allow-listed holiday or
// falls on Shawwal 1 to 6.
func HasIncludedHoliday(day api.CalendarDay) bool {
	for _, list := range [][]string{day.Hijri.Holidays, day.Hijri.AdjustedHolidays} {
		for _, name := range list {
			if IsIncluded(name) {
				return true
			}
		}
	}
	d, ok := shawwalDay(day.Hijri)
	return ok && d >= 1 && d <= 6
}

// IncludedHolidaysForDay returns the allow-listed names of day, Holidays
// before AdjustedHolidays, followed by ShawwalSixLabel on Shawwal 2 to 6.
// Shawwal 1 is covered by Eid-ul-Fitr and gets no label. Names appearing in
// both lists are reported twice.
func IncludedHolidaysForDay(day api.CalendarDay) []string {
	var names []string
	for _, list := range [][]string{day.Hijri.Holidays, day.Hijri.AdjustedHolidays} {
		for _, name := range list {
			if IsIncluded(name) {
				names = append(names, name)
			}
		}
	}
	if d, ok := shawwalDay(day.Hijri); ok && d >= 2 && d <= 6 {
		names = append(names, ShawwalSixLabel)
	}
	return names
}
