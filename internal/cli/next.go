package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/prayer"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming fard prayer with a countdown.\nSuitable for status bars such as tmux.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, _, err := a.schedule(ctx)
	if err != nil {
		return err
	}

	now := nowFunc()
	dict, err := svc.Dict(ctx, now)
	if err != nil {
		return err
	}

	next := prayer.NextPrayer(dict, now)
	if next == nil {
		// Tomorrow is unavailable after Isha: keep the status bar readable.
		fmt.Fprint(cmd.OutOrStdout(), "Isha --:--")
		return nil
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), next)
	}

	out, err := prayer.FormatMoment(*next, now, flagFormat, goTimeFormat(a.cfg))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
