package cache

import (
	"context"
	"time"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
)

const (
	calendarKey = "holiday_calendar"
	// CalendarTTL is how long a fetched Hijri calendar batch stays valid.
	CalendarTTL = 24 * time.Hour
)

// calendarEntry is a batch together with the settings that produced it.
type calendarEntry struct {
	CalendarMethod string            `json:"calendar_method"`
	Adjustment     int               `json:"adjustment"`
	Days           []api.CalendarDay `json:"days"`
}

// CalendarCache holds the last complete Hijri calendar batch for one set of
// calendar settings. A batch built under other settings reads as absent.
type CalendarCache struct {
	c      *Cache
	params api.HijriParams
}

// Calendar returns the Hijri calendar view of c for p.
func (c *Cache) Calendar(p api.HijriParams) *CalendarCache {
	return &CalendarCache{c: c, params: p}
}

// Read returns the cached days if they were written at most CalendarTTL ago
// under the same calendar settings. A stale entry is deleted. Storage errors
// read as absent.
func (cc *CalendarCache) Read(ctx context.Context) ([]api.CalendarDay, bool) {
	e, ok := load[calendarEntry](ctx, cc.c, calendarKey, CalendarTTL)
	if !ok {
		return nil, false
	}
	if e.CalendarMethod != cc.params.CalendarMethod || e.Adjustment != cc.params.Adjustment {
		cc.c.log.Debug().
			Str("cached_method", e.CalendarMethod).
			Int("cached_adjustment", e.Adjustment).
			Msg("holiday calendar cached under other settings")
		return nil, false
	}
	return e.Days, true
}

// Write stores days with the current timestamp, replacing any batch built
// under other settings.
func (cc *CalendarCache) Write(ctx context.Context, days []api.CalendarDay) error {
	return save(ctx, cc.c, calendarKey, calendarEntry{
		CalendarMethod: cc.params.CalendarMethod,
		Adjustment:     cc.params.Adjustment,
		Days:           days,
	})
}

// Invalidate deletes the cached batch whatever settings built it. Called
// whenever the calendar method or the day adjustment changes.
func (cc *CalendarCache) Invalidate(ctx context.Context) {
	cc.c.remove(ctx, calendarKey)
	cc.c.log.Debug().Msg("holiday calendar cache invalidated")
}
