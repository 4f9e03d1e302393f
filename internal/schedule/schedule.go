// Package schedule assembles daily prayer timings from monthly API calendars.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
	"github.com/smokyabdulrahman/prayer-calendar/internal/cache"
	"github.com/smokyabdulrahman/prayer-calendar/internal/prayer"
)

// CalendarFetcher fetches one month of prayer times. *api.Client satisfies it.
type CalendarFetcher interface {
	FetchCalendar(ctx context.Context, year, month int, loc api.Location, p api.Params) (*api.CalendarResponse, error)
}

// MonthCache stores monthly calendars. *cache.Cache satisfies it.
type MonthCache interface {
	LoadMonth(ctx context.Context, q cache.MonthQuery) ([]api.Data, bool)
	SaveMonth(ctx context.Context, q cache.MonthQuery, days []api.Data) error
}

// Service resolves prayer timings for one location and method.
type Service struct {
	client CalendarFetcher
	cache  MonthCache // nil disables caching
	loc    api.Location
	params api.Params
	log    zerolog.Logger
}

// New returns a Service. mc may be nil.
func New(client CalendarFetcher, mc MonthCache, loc api.Location, params api.Params, log zerolog.Logger) *Service {
	return &Service{client: client, cache: mc, loc: loc, params: params, log: log}
}

// monthIndex maps ISO dates to the day's data.
type monthIndex map[string]api.Data

func (s *Service) month(ctx context.Context, year, month int) (monthIndex, error) {
	q := cache.MonthQuery{Year: year, Month: month, Location: s.loc, Params: s.params}

	var days []api.Data
	if s.cache != nil {
		days, _ = s.cache.LoadMonth(ctx, q)
	}
	if days == nil {
		resp, err := s.client.FetchCalendar(ctx, year, month, s.loc, s.params)
		if err != nil {
			return nil, fmt.Errorf("fetching %04d-%02d: %w", year, month, err)
		}
		days = resp.Data
		if s.cache != nil {
			if err := s.cache.SaveMonth(ctx, q, days); err != nil {
				s.log.Warn().Err(err).Int("year", year).Int("month", month).Msg("failed to cache prayer calendar")
			}
		}
	} else {
		s.log.Debug().Int("year", year).Int("month", month).Msg("using cached prayer calendar")
	}

	idx := make(monthIndex, len(days))
	for _, d := range days {
		iso, err := d.Date.Gregorian.ISO()
		if err != nil {
			continue
		}
		idx[iso] = d
	}
	return idx, nil
}

// monthKey identifies a calendar month.
type monthKey struct{ year, month int }

// Range returns the timings of n consecutive days starting at start's date.
// Each month is fetched once.
func (s *Service) Range(ctx context.Context, start time.Time, n int) ([]api.Data, error) {
	months := make(map[monthKey]monthIndex)
	out := make([]api.Data, 0, n)

	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		k := monthKey{d.Year(), int(d.Month())}
		idx, ok := months[k]
		if !ok {
			var err error
			if idx, err = s.month(ctx, k.year, k.month); err != nil {
				return nil, err
			}
			months[k] = idx
		}
		day, ok := idx[prayer.ISODate(d)]
		if !ok {
			return nil, fmt.Errorf("no prayer times for %s", prayer.ISODate(d))
		}
		out = append(out, day)
	}
	return out, nil
}

// Dict returns a prayer.Dict holding yesterday, today and tomorrow relative
// to now. Today is required; a failure to load a neighbouring day is logged
// and the day left out, which the resolver tolerates.
func (s *Service) Dict(ctx context.Context, now time.Time) (prayer.Dict, error) {
	months := make(map[monthKey]monthIndex)
	var days []api.Data

	for offset := -1; offset <= 1; offset++ {
		d := now.AddDate(0, 0, offset)
		k := monthKey{d.Year(), int(d.Month())}
		idx, ok := months[k]
		if !ok {
			var err error
			idx, err = s.month(ctx, k.year, k.month)
			if err != nil {
				if offset == 0 {
					return nil, err
				}
				s.log.Warn().Err(err).Str("date", prayer.ISODate(d)).Msg("neighbouring day unavailable")
				continue
			}
			months[k] = idx
		}
		if day, ok := idx[prayer.ISODate(d)]; ok {
			days = append(days, day)
		} else if offset == 0 {
			return nil, fmt.Errorf("no prayer times for %s", prayer.ISODate(d))
		}
	}
	return prayer.DictFromCalendar(days), nil
}

// Today returns the API data for now's date.
func (s *Service) Today(ctx context.Context, now time.Time) (*api.Data, error) {
	days, err := s.Range(ctx, now, 1)
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}
