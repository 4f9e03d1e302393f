package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " + strings.Join(prayer.AllPrayerNames, ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// normalizePrayerName matches name case-insensitively against the known prayers.
func normalizePrayerName(name string) (string, error) {
	for _, n := range prayer.AllPrayerNames {
		if strings.EqualFold(n, name) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown prayer %q; valid names: %s", name, strings.Join(prayer.AllPrayerNames, ", "))
}

// parseDays reads the --days value: a positive integer, "week" or "month".
func parseDays(v string) (int, error) {
	switch v {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", v)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, err := normalizePrayerName(args[0])
	if err != nil {
		return err
	}
	days, err := parseDays(flagQueryDays)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := loadDays(cmd, a, days, []string{name})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if days == 1 {
		r := l.rows[0]
		if r.Timings[0] == "" {
			return fmt.Errorf("no timing found for %s", name)
		}
		if FlagJSON {
			return writeJSON(w, queryJSONSingle{
				Prayer: strings.ToLower(name),
				Time:   r.Timings[0],
				Date:   r.Date,
				Hijri:  r.Hijri,
			})
		}
		fmt.Fprintf(w, "%s %s\n", name, r.Timings[0])
		return nil
	}

	if FlagJSON {
		out := queryJSONMulti{
			Location: jsonLocation(l.loc, l.meta),
			Prayer:   strings.ToLower(name),
		}
		for _, r := range l.rows {
			out.Days = append(out.Days, queryJSONDay{Date: r.Date, Hijri: r.Hijri, Time: r.Timings[0]})
		}
		return writeJSON(w, out)
	}

	printGrid(w, fmt.Sprintf("%s Times, %d Days", name, days), l, []string{"Date", name})
	return nil
}

type queryJSONSingle struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Date   string `json:"date"`
	Hijri  string `json:"hijri"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri"`
	Time  string `json:"time"`
}
