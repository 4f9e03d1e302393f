// Package calendar fetches Hijri calendar data month by month from the API.
package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
)

const (
	// DefaultDelay is the pause between two month requests.
	DefaultDelay = 100 * time.Millisecond
	// MinMonthsToCache is how many months must succeed before a batch is cached.
	MinMonthsToCache = 20
)

// Month is one Gregorian month to fetch.
type Month struct {
	Year  int
	Month int
}

// YearRange returns the 24 months of year and year+1, in order.
func YearRange(year int) []Month {
	months := make([]Month, 0, 24)
	for _, y := range []int{year, year + 1} {
		for m := 1; m <= 12; m++ {
			months = append(months, Month{Year: y, Month: m})
		}
	}
	return months
}

// MonthSource returns the Hijri calendar days of one Gregorian month.
// *api.Client satisfies it.
type MonthSource interface {
	FetchHijriCalendar(ctx context.Context, year, month int, p api.HijriParams) ([]api.CalendarDay, error)
}

// Writer persists a complete batch.
type Writer interface {
	Write(ctx context.Context, days []api.CalendarDay) error
}

// State describes how a fetch ended.
type State int

const (
	Empty State = iota
	Ready
	ReadyCached
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case ReadyCached:
		return "ready+cached"
	default:
		return "empty"
	}
}

// Result is the outcome of FetchYearRange.
type Result struct {
	Days      []api.CalendarDay
	Requested int
	Succeeded int

	// Cached reports that the batch was persisted, not just attempted.
	Cached bool
}

// State derives the acquisition state from the counters.
func (r Result) State() State {
	switch {
	case r.Succeeded == 0:
		return Empty
	case r.Cached:
		return ReadyCached
	default:
		return Ready
	}
}

// Fetcher downloads months sequentially with a fixed delay between requests.
type Fetcher struct {
	source MonthSource
	cache  Writer
	log    zerolog.Logger

	Delay time.Duration
	// sleep waits for d or until ctx is done. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher returns a Fetcher writing complete batches to cache.
// cache may be nil, in which case nothing is persisted.
func NewFetcher(source MonthSource, cache Writer, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		cache:  cache,
		log:    log,
		Delay:  DefaultDelay,
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FetchYearRange fetches months in order and concatenates their days.
// A failed month is logged and skipped. The batch is cached only when at
// least MinMonthsToCache months succeeded. A cancelled ctx ends the loop
// early; the partial result is returned and never cached.
func (f *Fetcher) FetchYearRange(ctx context.Context, months []Month, p api.HijriParams) Result {
	log := f.log.With().Str("run", uuid.NewString()).Logger()
	res := Result{Requested: len(months)}

	for i, m := range months {
		if i > 0 && f.Delay > 0 {
			if err := f.sleep(ctx, f.Delay); err != nil {
				log.Warn().Err(err).Msg("calendar fetch interrupted")
				return res
			}
		}
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("calendar fetch interrupted")
			return res
		}

		days, err := f.source.FetchHijriCalendar(ctx, m.Year, m.Month, p)
		if err != nil {
			log.Warn().Err(err).Int("year", m.Year).Int("month", m.Month).Msg("skipping calendar month")
			continue
		}
		res.Days = append(res.Days, days...)
		res.Succeeded++
		log.Debug().Int("year", m.Year).Int("month", m.Month).Int("days", len(days)).Msg("fetched calendar month")
	}

	if res.Succeeded == 0 {
		log.Warn().Int("requested", res.Requested).Msg("no data available")
		return res
	}

	if res.Succeeded >= MinMonthsToCache && f.cache != nil {
		if err := f.cache.Write(ctx, res.Days); err != nil {
			log.Warn().Err(err).Msg("failed to cache holiday calendar")
		} else {
			res.Cached = true
		}
	}
	log.Info().
		Int("requested", res.Requested).
		Int("succeeded", res.Succeeded).
		Bool("cached", res.Cached).
		Msg("calendar fetch complete")
	return res
}
