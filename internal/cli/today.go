package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
	"github.com/smokyabdulrahman/prayer-calendar/internal/config"
	"github.com/smokyabdulrahman/prayer-calendar/internal/display"
	"github.com/smokyabdulrahman/prayer-calendar/internal/prayer"
)

// selectedPrayers returns the prayers to display: config > defaults.
func selectedPrayers(cfg *config.Config) []string {
	if cfg.Prayers == "" {
		return prayer.DailyPrayers
	}
	names := strings.Split(cfg.Prayers, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}

// todayView is everything the today screen shows.
type todayView struct {
	now      time.Time
	day      *api.Data
	prayers  []prayer.Prayer
	current  *prayer.Moment
	next     *prayer.Moment
	location string
	timezone string
	timeFmt  string
}

func runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, loc, err := a.schedule(ctx)
	if err != nil {
		return err
	}

	now := nowFunc()
	dict, err := svc.Dict(ctx, now)
	if err != nil {
		return err
	}
	day, err := svc.Today(ctx, now)
	if err != nil {
		return err
	}

	tz := loc.Timezone
	if tz == "" {
		tz = day.Meta.Timezone
	}

	v := todayView{
		now:      now,
		day:      day,
		current:  prayer.CurrentPrayer(dict, now),
		next:     prayer.NextPrayer(dict, now),
		location: loc.label(),
		timezone: tz,
		timeFmt:  goTimeFormat(a.cfg),
	}
	// The dict only holds the six daily times; extras come from the API day.
	todayKey := prayer.ISODate(now)
	timings := day.Timings.Map()
	for _, name := range selectedPrayers(a.cfg) {
		raw, ok := timings[name]
		if !ok {
			continue
		}
		t, err := prayer.ParsePrayerTime(todayKey, raw, now.Location())
		if err != nil {
			logger.Warn().Err(err).Str("prayer", name).Msg("skipping unreadable time")
			continue
		}
		v.prayers = append(v.prayers, prayer.Prayer{Name: name, Time: t})
	}

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), v)
	}
	printTodayRich(cmd.OutOrStdout(), v)
	return nil
}

// isToday reports whether m refers to a prayer on now's date.
func isToday(m *prayer.Moment, name string, now time.Time) bool {
	return m != nil && m.Prayer == name && m.Date == prayer.ISODate(now)
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(w io.Writer, v todayView) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", v.location)
	if v.timezone != "" {
		fmt.Fprintf(w, "  %s\n", v.timezone)
	}
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(v.now, v.day))
	if hijri := v.day.Date.Hijri.Format(); hijri != "" {
		fmt.Fprintf(w, "  %s\n", hijri)
	}
	if holidays := v.day.Date.Hijri.Holidays; len(holidays) > 0 {
		fmt.Fprintf(w, "  %s\n", display.Holiday(strings.Join(holidays, ", ")))
	}
	fmt.Fprintln(w)

	maxNameLen := 0
	for _, p := range v.prayers {
		maxNameLen = max(maxNameLen, len(p.Name))
	}

	for _, p := range v.prayers {
		line := fmt.Sprintf("  %s  %s", padRight(p.Name, maxNameLen), p.Time.Format(v.timeFmt))
		switch {
		case isToday(v.current, p.Name, v.now):
			fmt.Fprintln(w, display.Dim(line))
		case isToday(v.next, p.Name, v.now):
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, v.now))
			fmt.Fprintln(w, display.Accent(line+"  <- next in "+remaining))
		default:
			fmt.Fprintln(w, line)
		}
	}

	// After Isha the next prayer is tomorrow's Fajr, which is not in the list.
	if v.next != nil && v.next.Date != prayer.ISODate(v.now) {
		if p, err := v.next.At(v.now.Location()); err == nil {
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, v.now))
			fmt.Fprintln(w)
			fmt.Fprintln(w, display.Accent(fmt.Sprintf("  Next: %s tomorrow at %s, in %s", p.Name, p.Time.Format(v.timeFmt), remaining)))
		}
	}
	fmt.Fprintln(w)
}

// formatGregorianDate returns a formatted Gregorian date string.
// Prefers API data; falls back to formatting now.
func formatGregorianDate(now time.Time, day *api.Data) string {
	g := day.Date.Gregorian
	if g.Day != "" && g.Month.En != "" && g.Year != "" {
		return g.Day + " " + g.Month.En + " " + g.Year
	}
	return now.Format("02 Jan 2006")
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location todayJSONLocation `json:"location"`
	Date     todayJSONDate     `json:"date"`
	Timings  map[string]string `json:"timings"`
	Current  string            `json:"current"`
	Next     *todayJSONNext    `json:"next"`
}

type todayJSONLocation struct {
	Name      string  `json:"name"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string   `json:"gregorian"`
	Hijri     string   `json:"hijri"`
	Holidays  []string `json:"holidays,omitempty"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func printTodayJSON(w io.Writer, v todayView) error {
	out := todayJSON{
		Location: todayJSONLocation{
			Name:      v.location,
			Timezone:  v.timezone,
			Latitude:  v.day.Meta.Latitude,
			Longitude: v.day.Meta.Longitude,
		},
		Date: todayJSONDate{
			Gregorian: formatGregorianDate(v.now, v.day),
			Hijri:     v.day.Date.Hijri.Format(),
			Holidays:  v.day.Date.Hijri.Holidays,
		},
		Timings: make(map[string]string, len(v.prayers)),
	}
	for _, p := range v.prayers {
		out.Timings[strings.ToLower(p.Name)] = p.Time.Format(v.timeFmt)
	}
	if v.current != nil {
		out.Current = strings.ToLower(v.current.Prayer)
	}
	if v.next != nil {
		p, err := v.next.At(v.now.Location())
		if err != nil {
			return err
		}
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(p.Name),
			Date:      v.next.Date,
			Time:      p.Time.Format(v.timeFmt),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(p, v.now)),
		}
	}
	return writeJSON(w, out)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
