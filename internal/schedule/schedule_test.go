package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
	"github.com/smokyabdulrahman/prayer-calendar/internal/cache"
	"github.com/smokyabdulrahman/prayer-calendar/internal/store"
)

// fakeClient serves whole months whose Fajr encodes the day of month.
type fakeClient struct {
	calls   []string
	failing map[string]bool
}

func (f *fakeClient) FetchCalendar(_ context.Context, year, month int, _ api.Location, _ api.Params) (*api.CalendarResponse, error) {
	key := fmt.Sprintf("%04d-%02d", year, month)
	f.calls = append(f.calls, key)
	if f.failing[key] {
		return nil, errors.New("upstream down")
	}
	n := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	resp := &api.CalendarResponse{Code: 200, Status: "OK"}
	for d := 1; d <= n; d++ {
		resp.Data = append(resp.Data, api.Data{
			Timings: api.Timings{
				Fajr: fmt.Sprintf("05:%02d (AST)", d), Sunrise: "06:30", Dhuhr: "12:00",
				Asr: "15:15", Maghrib: "17:45", Isha: "19:15",
			},
			Date: api.DateInfo{Gregorian: api.GregorianDate{Date: fmt.Sprintf("%02d-%02d-%04d", d, month, year)}},
		})
	}
	return resp, nil
}

func newService(client CalendarFetcher, withCache bool) *Service {
	var mc MonthCache
	if withCache {
		mc = cache.New(store.NewMemory(), zerolog.Nop())
	}
	return New(client, mc, api.Location{Latitude: 24.7136, Longitude: 46.6753}, api.Params{Method: 4, School: 0}, zerolog.Nop())
}

func TestRange_SpansMonths(t *testing.T) {
	client := &fakeClient{}
	svc := newService(client, false)

	start := time.Date(2026, 1, 30, 9, 0, 0, 0, time.Local)
	days, err := svc.Range(context.Background(), start, 4)
	require.NoError(t, err)

	var dates []string
	for _, d := range days {
		dates = append(dates, d.Date.Gregorian.Date)
	}
	assert.Equal(t, []string{"30-01-2026", "31-01-2026", "01-02-2026", "02-02-2026"}, dates)
	assert.Equal(t, []string{"2026-01", "2026-02"}, client.calls, "each month fetched once")
}

func TestRange_UsesCache(t *testing.T) {
	client := &fakeClient{}
	svc := newService(client, true)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

	_, err := svc.Range(ctx, start, 7)
	require.NoError(t, err)
	_, err = svc.Range(ctx, start, 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-03"}, client.calls, "second call served from cache")
}

func TestRange_FetchError(t *testing.T) {
	client := &fakeClient{failing: map[string]bool{"2026-02": true}}
	svc := newService(client, false)

	_, err := svc.Range(context.Background(), time.Date(2026, 1, 31, 0, 0, 0, 0, time.Local), 2)
	assert.ErrorContains(t, err, "2026-02")
}

func TestDict_YesterdayTodayTomorrow(t *testing.T) {
	svc := newService(&fakeClient{}, false)

	dict, err := svc.Dict(context.Background(), time.Date(2026, 3, 1, 4, 0, 0, 0, time.Local))
	require.NoError(t, err)

	require.Len(t, dict, 3)
	assert.Equal(t, "05:28 (AST)", dict["2026-02-28"].Timings["Fajr"])
	assert.Equal(t, "05:01 (AST)", dict["2026-03-01"].Timings["Fajr"])
	assert.Equal(t, "05:02 (AST)", dict["2026-03-02"].Timings["Fajr"])
}

func TestDict_NeighbourFailureTolerated(t *testing.T) {
	client := &fakeClient{failing: map[string]bool{"2026-02": true}}
	svc := newService(client, false)

	dict, err := svc.Dict(context.Background(), time.Date(2026, 3, 1, 4, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Len(t, dict, 2)
	assert.NotContains(t, dict, "2026-02-28")
}

func TestDict_TodayFailureIsError(t *testing.T) {
	client := &fakeClient{failing: map[string]bool{"2026-03": true}}
	svc := newService(client, false)

	_, err := svc.Dict(context.Background(), time.Date(2026, 3, 15, 4, 0, 0, 0, time.Local))
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	svc := newService(&fakeClient{}, false)
	day, err := svc.Today(context.Background(), time.Date(2026, 3, 9, 4, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "09-03-2026", day.Date.Gregorian.Date)
}
