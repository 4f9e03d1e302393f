package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/display"
	"github.com/smokyabdulrahman/prayer-calendar/internal/holiday"
	"github.com/smokyabdulrahman/prayer-calendar/internal/server"
)

var flagHolidayLimit int

func newHolidayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Show the next Islamic holiday",
		Long:  "Display the next upcoming Islamic holiday from the Hijri calendar.\nThe calendar for this year and next is cached for 24 hours.",
		Args:  cobra.NoArgs,
		RunE:  runHolidayNext,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List upcoming Islamic holidays",
		Args:  cobra.NoArgs,
		RunE:  runHolidayList,
	}
	list.Flags().IntVar(&flagHolidayLimit, "limit", 10, "Maximum number of holidays to show (0 for all)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear-cache",
		Short: "Discard the cached Hijri calendar",
		Args:  cobra.NoArgs,
		RunE:  runHolidayClearCache,
	})

	return cmd
}

func runHolidayNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	next := a.finder().FindNext(ctx)
	w := cmd.OutOrStdout()
	if FlagJSON {
		if next == nil {
			return writeJSON(w, nil)
		}
		return writeJSON(w, server.NewHolidayResponse(*next))
	}

	if next == nil {
		fmt.Fprintln(w, "No upcoming holiday found.")
		return nil
	}
	printHoliday(w, *next, nowFunc())
	return nil
}

func runHolidayList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	upcoming := a.finder().Upcoming(ctx, flagHolidayLimit)
	w := cmd.OutOrStdout()
	if FlagJSON {
		out := make([]server.HolidayResponse, 0, len(upcoming))
		for _, u := range upcoming {
			out = append(out, server.NewHolidayResponse(u))
		}
		return writeJSON(w, out)
	}

	if len(upcoming) == 0 {
		fmt.Fprintln(w, "No upcoming holidays found.")
		return nil
	}
	now := nowFunc()
	for _, u := range upcoming {
		printHoliday(w, u, now)
	}
	return nil
}

func runHolidayClearCache(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.cache.Calendar(a.hijriParams()).Invalidate(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), "Holiday calendar cache cleared.")
	return nil
}

// printHoliday writes one holiday day: its names, dates and distance from now.
func printHoliday(w io.Writer, u holiday.Upcoming, now time.Time) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Holiday(strings.Join(u.Holidays, ", ")))

	date, err := time.ParseInLocation("2006-01-02", u.Date, now.Location())
	if err != nil {
		fmt.Fprintf(w, "  %s\n", u.Date)
		return
	}
	line := date.Format("Mon 02 Jan 2006")
	if hijri := u.Day.Hijri.Format(); hijri != "" {
		line += " / " + hijri
	}
	fmt.Fprintf(w, "  %s\n", line)
	fmt.Fprintf(w, "  %s\n", display.Dim(daysUntil(date, now)))
}

// daysUntil describes how many calendar days separate now from date.
func daysUntil(date, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	n := int(date.Sub(today).Round(24*time.Hour) / (24 * time.Hour))
	switch n {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", n)
	}
}
