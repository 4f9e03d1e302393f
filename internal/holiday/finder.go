package holiday

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
	"github.com/smokyabdulrahman/prayer-calendar/internal/calendar"
)

// CalendarReader returns the cached calendar batch, if any.
type CalendarReader interface {
	Read(ctx context.Context) ([]api.CalendarDay, bool)
}

// BatchFetcher downloads a range of months.
type BatchFetcher interface {
	FetchYearRange(ctx context.Context, months []calendar.Month, p api.HijriParams) calendar.Result
}

// Upcoming is a day carrying at least one reportable holiday.
type Upcoming struct {
	Day      api.CalendarDay
	Date     string // YYYY-MM-DD
	Holidays []string
}

// Finder locates upcoming holidays, using the cache before the network.
type Finder struct {
	cache   CalendarReader
	fetcher BatchFetcher
	params  api.HijriParams
	log     zerolog.Logger

	// Now is the clock used to decide what "today" is.
	Now func() time.Time
}

// NewFinder returns a Finder.
func NewFinder(cache CalendarReader, fetcher BatchFetcher, params api.HijriParams, log zerolog.Logger) *Finder {
	return &Finder{
		cache:   cache,
		fetcher: fetcher,
		params:  params,
		log:     log,
		Now:     time.Now,
	}
}

// days returns the cached batch or fetches this year and next.
func (f *Finder) days(ctx context.Context, today time.Time) []api.CalendarDay {
	if days, ok := f.cache.Read(ctx); ok {
		f.log.Debug().Int("days", len(days)).Msg("using cached holiday calendar")
		return days
	}
	res := f.fetcher.FetchYearRange(ctx, calendar.YearRange(today.Year()), f.params)
	return res.Days
}

// FindNext returns the first day from today onwards with a reportable
// holiday, or nil when there is none or no data could be obtained.
func (f *Finder) FindNext(ctx context.Context) *Upcoming {
	today := f.Now()
	next := FirstUpcoming(f.days(ctx, today), today.Format("2006-01-02"))
	if next == nil {
		f.log.Debug().Msg("no upcoming holiday found")
	}
	return next
}

// Upcoming returns up to limit holiday days from today onwards.
// A limit of zero or less returns them all.
func (f *Finder) Upcoming(ctx context.Context, limit int) []Upcoming {
	today := f.Now()
	return collect(f.days(ctx, today), today.Format("2006-01-02"), limit)
}

// FirstUpcoming scans days in order and returns the first one dated on or
// after todayISO that has a reportable holiday. Days with malformed
// Gregorian dates are skipped.
func FirstUpcoming(days []api.CalendarDay, todayISO string) *Upcoming {
	found := collect(days, todayISO, 1)
	if len(found) == 0 {
		return nil
	}
	return &found[0]
}

func collect(days []api.CalendarDay, todayISO string, limit int) []Upcoming {
	var out []Upcoming
	for _, day := range days {
		iso, err := day.Gregorian.ISO()
		if err != nil || iso < todayISO {
			continue
		}
		if !HasIncludedHoliday(day) {
			continue
		}
		out = append(out, Upcoming{
			Day:      day,
			Date:     iso,
			Holidays: IncludedHolidaysForDay(day),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
