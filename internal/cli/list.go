package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
	"github.com/smokyabdulrahman/prayer-calendar/internal/display"
	"github.com/smokyabdulrahman/prayer-calendar/internal/prayer"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := 7
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid number of days: %q (must be a positive integer)", args[0])
				}
				days = n
			}
			return runList(cmd, days)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, 30)
		},
	}
}

// dayRow is one day of a multi-day listing, with times already formatted.
type dayRow struct {
	ISO     string
	Label   string
	Date    string
	Hijri   string
	Timings []string
}

// listing is a multi-day listing ready for rendering.
type listing struct {
	rows  []dayRow
	loc   resolvedLocation
	meta  api.Meta
	today string
}

// loadDays fetches n days from today and formats the named prayers of each.
// A prayer missing from a day is rendered empty.
func loadDays(cmd *cobra.Command, a *app, n int, names []string) (*listing, error) {
	ctx := cmd.Context()
	svc, loc, err := a.schedule(ctx)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	days, err := svc.Range(ctx, now, n)
	if err != nil {
		return nil, err
	}

	timeFmt := goTimeFormat(a.cfg)
	rows := make([]dayRow, 0, len(days))
	for i, d := range days {
		date := now.AddDate(0, 0, i)
		iso := prayer.ISODate(date)
		row := dayRow{
			ISO:   iso,
			Label: date.Format("Mon 02 Jan"),
			Date:  date.Format("02 Jan 2006"),
			Hijri: d.Date.Hijri.Format(),
		}
		timings := d.Timings.Map()
		for _, name := range names {
			t, err := prayer.ParsePrayerTime(iso, timings[name], now.Location())
			if err != nil {
				row.Timings = append(row.Timings, "")
				continue
			}
			row.Timings = append(row.Timings, t.Format(timeFmt))
		}
		rows = append(rows, row)
	}
	return &listing{rows: rows, loc: loc, meta: days[0].Meta, today: prayer.ISODate(now)}, nil
}

func runList(cmd *cobra.Command, days int) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	names := selectedPrayers(a.cfg)
	l, err := loadDays(cmd, a, days, names)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(w, l, names)
	}

	headers := append([]string{"Date"}, names...)
	printGrid(w, fmt.Sprintf("Prayer Times, %d Days", days), l, headers)
	return nil
}

// printGrid renders rows as a table under a title, highlighting today.
func printGrid(w io.Writer, title string, l *listing, headers []string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(title))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", l.loc.label())
	fmt.Fprintln(w)

	tbl := display.NewTable(headers)
	for i, r := range l.rows {
		tbl.AddRow(append([]string{r.Label}, r.Timings...))
		if r.ISO == l.today {
			tbl.SetHighlightRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri"`
	Timings map[string]string `json:"timings"`
}

func jsonLocation(loc resolvedLocation, meta api.Meta) todayJSONLocation {
	tz := loc.Timezone
	if tz == "" {
		tz = meta.Timezone
	}
	return todayJSONLocation{
		Name:      loc.label(),
		Timezone:  tz,
		Latitude:  meta.Latitude,
		Longitude: meta.Longitude,
	}
}

func printListJSON(w io.Writer, l *listing, names []string) error {
	out := listJSONOutput{Location: jsonLocation(l.loc, l.meta)}
	for _, r := range l.rows {
		timings := make(map[string]string, len(names))
		for i, name := range names {
			if r.Timings[i] != "" {
				timings[strings.ToLower(name)] = r.Timings[i]
			}
		}
		out.Days = append(out.Days, listJSONDay{Date: r.Date, Hijri: r.Hijri, Timings: timings})
	}
	return writeJSON(w, out)
}
