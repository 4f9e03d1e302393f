package prayer

import "github.com/smokyabdulrahman/prayer-calendar/internal/api"

// DictFromCalendar indexes calendar days by their Gregorian date.
// Only the DailyPrayers times are kept. Days with an unreadable date are
// skipped.
func DictFromCalendar(days []api.Data) Dict {
	dict := make(Dict, len(days))
	for _, d := range days {
		key, err := d.Date.Gregorian.ISO()
		if err != nil {
			continue
		}
		all := d.Timings.Map()
		timings := make(map[string]string, len(DailyPrayers))
		for _, name := range DailyPrayers {
			if v, ok := all[name]; ok {
				timings[name] = v
			}
		}
		dict[key] = Day{Date: key, Timings: timings}
	}
	return dict
}
