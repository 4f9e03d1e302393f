package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nEvery key can also be overridden with a %s<KEY> environment variable.\n\nExamples:\n  prayer-times config set city Riyadh\n  prayer-times config set country \"Saudi Arabia\"\n  prayer-times config set method 4\n  prayer-times config set time_format 12h\n  prayer-times config set hijri_adjustment 1\n  prayer-times config set store redis",
			strings.Join(config.ValidKeys, ", "), config.EnvPrefix),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.\nThe cached holiday calendar is discarded too.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		switch {
		case val == "":
			shown = "(not set)"
		case key == "method":
			shown = formatMethodValue(val)
		case key == "school":
			shown = formatSchoolValue(val)
		case key == "redis_password":
			shown = "********"
		}
		fmt.Fprintf(w, "  %-17s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	// loadedConfig keeps the env overrides, so it names the store in use.
	if config.AffectsCalendar(key) {
		invalidateCalendar(cmd)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	// Invalidate before the file goes: it may name the store.
	invalidateCalendar(cmd)

	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// invalidateCalendar drops the cached Hijri calendar from the configured
// store. Failures are logged; the config change itself already succeeded.
func invalidateCalendar(cmd *cobra.Command) {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		logger.Warn().Err(err).Msg("could not clear holiday calendar cache")
		return
	}
	defer a.Close()
	a.cache.Calendar(a.hijriParams()).Invalidate(cmd.Context())
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method name to the numeric value.
func formatMethodValue(val string) string {
	for _, m := range CalculationMethods {
		if fmt.Sprintf("%d", m.ID) == val {
			return fmt.Sprintf("%s (%s)", val, m.Name)
		}
	}
	return val
}

// formatSchoolValue adds the school name to the numeric value.
func formatSchoolValue(val string) string {
	switch val {
	case "0":
		return "0 (Shafi)"
	case "1":
		return "1 (Hanafi)"
	default:
		return val
	}
}
