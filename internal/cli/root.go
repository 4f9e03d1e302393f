package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayer-calendar/internal/config"
	"github.com/smokyabdulrahman/prayer-calendar/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagCity            string
	FlagCountry         string
	FlagLatitude        float64
	FlagLongitude       float64
	FlagMethod          int
	FlagSchool          int
	FlagJSON            bool
	FlagCacheDir        string
	FlagTimeFormat      string
	FlagVerbose         bool
	FlagStore           string
	FlagCalendarMethod  string
	FlagHijriAdjustment int
)

// loadedConfig holds the config loaded during PersistentPreRunE.
var loadedConfig *config.Config

// logger is configured in PersistentPreRunE from --verbose.
var logger = zerolog.Nop()

// nowFunc is the clock used by every command. Replaced in tests.
var nowFunc = time.Now

// NewRootCmd creates the root command for the prayer-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times and Hijri holidays",
		Long:    "A CLI for Islamic prayer times and upcoming Hijri holidays, powered by the Al Adhan API.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = logging.New(cmd.ErrOrStderr(), FlagVerbose)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ApplyEnv(); err != nil {
				return fmt.Errorf("invalid environment override: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (0-23)")
	pf.IntVar(&FlagSchool, "school", -1, "Override school (0=Shafi, 1=Hanafi)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Log debug details to stderr")
	pf.StringVar(&FlagStore, "store", "", "Cache backend: file, redis, sqlite or memory")
	pf.StringVar(&FlagCalendarMethod, "calendar-method", "", "Hijri calendar method: HJCoSA, UAQ, DIYANET or MATHEMATICAL")
	pf.IntVar(&FlagHijriAdjustment, "hijri-adjustment", 0, "Shift Hijri dates by -3..3 days")

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHolidayCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// effectiveConfig returns the merged configuration values, applying the
// priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := loadedConfig
	if cfg == nil {
		cfg = &config.Config{}
	}
	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
	}
	if flagWasSet(flags, root, "country") {
		cfg.Country = FlagCountry
	}
	if flagWasSet(flags, root, "latitude") {
		cfg.Latitude = FlagLatitude
	}
	if flagWasSet(flags, root, "longitude") {
		cfg.Longitude = FlagLongitude
	}
	if flagWasSet(flags, root, "method") {
		cfg.Method = &FlagMethod
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "school") {
		cfg.School = &FlagSchool
	} else if cfg.School == nil {
		cfg.School = defaults.School
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}

	// Validated flags go through Set so they obey the config rules.
	validated := []struct{ flag, key, value string }{
		{"time-format", "time_format", FlagTimeFormat},
		{"store", "store", FlagStore},
		{"calendar-method", "calendar_method", FlagCalendarMethod},
		{"hijri-adjustment", "hijri_adjustment", fmt.Sprint(FlagHijriAdjustment)},
	}
	for _, v := range validated {
		if !flagWasSet(flags, root, v.flag) {
			continue
		}
		if err := cfg.Set(v.key, v.value); err != nil {
			return nil, fmt.Errorf("--%s: %w", v.flag, err)
		}
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if cfg.CalendarMethod == "" {
		cfg.CalendarMethod = defaults.CalendarMethod
	}
	if cfg.HijriAdjustment == nil {
		cfg.HijriAdjustment = defaults.HijriAdjustment
	}
	if cfg.Store == "" {
		cfg.Store = defaults.Store
	}
	return cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// goTimeFormat maps the config time format to a Go layout.
func goTimeFormat(cfg *config.Config) string {
	if cfg.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
