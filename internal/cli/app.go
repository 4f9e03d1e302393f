package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
	"github.com/smokyabdulrahman/prayer-calendar/internal/cache"
	"github.com/smokyabdulrahman/prayer-calendar/internal/calendar"
	"github.com/smokyabdulrahman/prayer-calendar/internal/config"
	"github.com/smokyabdulrahman/prayer-calendar/internal/geo"
	"github.com/smokyabdulrahman/prayer-calendar/internal/holiday"
	"github.com/smokyabdulrahman/prayer-calendar/internal/schedule"
	"github.com/smokyabdulrahman/prayer-calendar/internal/store"
)

// Endpoints overridden by tests. Empty means the package default.
var (
	apiBaseURL string
	geoURL     string
)

// fetchDelay spaces out calendar requests. Shortened in tests.
var fetchDelay = calendar.DefaultDelay

// app wires the components one command needs from the effective config.
type app struct {
	cfg    *config.Config
	store  store.Store
	cache  *cache.Cache
	client *api.Client
}

// newApp opens the configured store. A store that cannot be opened is not
// fatal: the command runs with an in-memory store instead.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, store.Options{
		Backend:       cfg.Store,
		Dir:           cfg.CacheDir,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		SQLitePath:    cfg.SQLitePath,
	})
	if err != nil {
		logger.Warn().Err(err).Str("store", cfg.Store).Msg("cache disabled")
		s = store.NewMemory()
	}

	client := api.NewClient()
	if apiBaseURL != "" {
		client.BaseURL = apiBaseURL
	}

	return &app{
		cfg:    cfg,
		store:  s,
		cache:  cache.New(s, logger),
		client: client,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Debug().Err(err).Msg("closing store")
	}
}

func (a *app) params() api.Params {
	return api.Params{
		Method: a.cfg.MethodOrDefault(-1),
		School: a.cfg.SchoolOrDefault(-1),
		Tune:   a.cfg.Tune,
	}
}

func (a *app) hijriParams() api.HijriParams {
	return api.HijriParams{
		CalendarMethod: a.cfg.CalendarMethod,
		Adjustment:     a.cfg.HijriAdjustmentOrDefault(0),
	}
}

// resolvedLocation is the location a command runs for.
type resolvedLocation struct {
	api.Location
	Timezone string // optional hint from geo-detection
}

// resolveLocation determines the effective location.
// Priority: CLI flags > config > cached geolocation > IP auto-detect.
func (a *app) resolveLocation(ctx context.Context) (resolvedLocation, error) {
	cfg := a.cfg
	switch {
	case cfg.Latitude != 0 || cfg.Longitude != 0:
		return resolvedLocation{Location: api.Location{Latitude: cfg.Latitude, Longitude: cfg.Longitude}}, nil
	case cfg.City != "":
		if cfg.Country == "" {
			return resolvedLocation{}, fmt.Errorf("--country is required when using --city")
		}
		return resolvedLocation{Location: api.Location{City: cfg.City, Country: cfg.Country}}, nil
	}

	if cached := a.cache.LoadGeo(ctx); cached != nil {
		return fromGeo(cached), nil
	}

	d := geo.NewDetector()
	if geoURL != "" {
		d.URL = geoURL
	}
	detected, err := d.Detect(ctx)
	if err != nil {
		return resolvedLocation{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if err := a.cache.SaveGeo(ctx, detected); err != nil {
		logger.Warn().Err(err).Msg("failed to cache geolocation")
	}
	return fromGeo(detected), nil
}

func fromGeo(g *geo.Location) resolvedLocation {
	return resolvedLocation{
		Location: api.Location{Latitude: g.Latitude, Longitude: g.Longitude, City: g.City, Country: g.Country},
		Timezone: g.Timezone,
	}
}

// label is "City, Country" when known, else the coordinates.
func (l resolvedLocation) label() string {
	if l.City != "" && l.Country != "" {
		return l.City + ", " + l.Country
	}
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}

// schedule returns the prayer schedule service for the resolved location.
func (a *app) schedule(ctx context.Context) (*schedule.Service, resolvedLocation, error) {
	loc, err := a.resolveLocation(ctx)
	if err != nil {
		return nil, resolvedLocation{}, err
	}
	return schedule.New(a.client, a.cache, loc.Location, a.params(), logger), loc, nil
}

// finder returns a holiday finder backed by the calendar cache.
func (a *app) finder() *holiday.Finder {
	p := a.hijriParams()
	cc := a.cache.Calendar(p)
	fetcher := calendar.NewFetcher(a.client, cc, logger)
	fetcher.Delay = fetchDelay
	f := holiday.NewFinder(cc, fetcher, p, logger)
	f.Now = nowFunc
	return f
}
