package calendar

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
)

// fakeSource returns month-tagged days and fails the months in failing.
type fakeSource struct {
	failing map[Month]bool
	calls   []Month
	params  []api.HijriParams
}

func (s *fakeSource) FetchHijriCalendar(_ context.Context, year, month int, p api.HijriParams) ([]api.CalendarDay, error) {
	m := Month{Year: year, Month: month}
	s.calls = append(s.calls, m)
	s.params = append(s.params, p)
	if s.failing[m] {
		return nil, errors.New("boom")
	}
	// month length varies so concatenation order is observable
	n := 28 + month%3
	days := make([]api.CalendarDay, n)
	for i := range days {
		days[i].Gregorian.Date = fmt.Sprintf("%02d-%02d-%04d", i+1, month, year)
	}
	return days, nil
}

type recordingWriter struct {
	writes [][]api.CalendarDay
	err    error
}

func (w *recordingWriter) Write(_ context.Context, days []api.CalendarDay) error {
	w.writes = append(w.writes, days)
	return w.err
}

func newTestFetcher(src MonthSource, w Writer) (*Fetcher, *[]time.Duration) {
	f := NewFetcher(src, w, zerolog.Nop())
	var slept []time.Duration
	f.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return f, &slept
}

func failFirst(months []Month, n int) map[Month]bool {
	failing := make(map[Month]bool)
	for _, m := range months[:n] {
		failing[m] = true
	}
	return failing
}

func expectedDays(t *testing.T, src *fakeSource, months []Month) []api.CalendarDay {
	t.Helper()
	ref := &fakeSource{}
	var all []api.CalendarDay
	for _, m := range months {
		if src.failing[m] {
			continue
		}
		days, err := ref.FetchHijriCalendar(context.Background(), m.Year, m.Month, api.HijriParams{})
		require.NoError(t, err)
		all = append(all, days...)
	}
	return all
}

func TestYearRange(t *testing.T) {
	months := YearRange(2026)
	require.Len(t, months, 24)
	assert.Equal(t, Month{2026, 1}, months[0])
	assert.Equal(t, Month{2026, 12}, months[11])
	assert.Equal(t, Month{2027, 1}, months[12])
	assert.Equal(t, Month{2027, 12}, months[23])
}

func TestFetchYearRange_AllSucceed(t *testing.T) {
	src := &fakeSource{}
	w := &recordingWriter{}
	f, slept := newTestFetcher(src, w)
	params := api.HijriParams{CalendarMethod: "UAQ", Adjustment: 1}

	res := f.FetchYearRange(context.Background(), YearRange(2026), params)

	assert.Equal(t, 24, res.Requested)
	assert.Equal(t, 24, res.Succeeded)
	assert.True(t, res.Cached)
	assert.Equal(t, ReadyCached, res.State())
	assert.Equal(t, YearRange(2026), src.calls, "months are requested sequentially in order")
	assert.Len(t, *slept, 23, "delay between requests, not before the first")
	for _, d := range *slept {
		assert.Equal(t, DefaultDelay, d)
	}
	for _, p := range src.params {
		assert.Equal(t, params, p)
	}
	require.Len(t, w.writes, 1)
	assert.Equal(t, res.Days, w.writes[0])
}

func TestFetchYearRange_ThreeFailuresStillCached(t *testing.T) {
	months := YearRange(2026)
	src := &fakeSource{failing: failFirst(months[5:], 3)}
	w := &recordingWriter{}
	f, _ := newTestFetcher(src, w)

	res := f.FetchYearRange(context.Background(), months, api.HijriParams{})

	assert.Equal(t, 21, res.Succeeded)
	assert.Len(t, src.calls, 24, "failures do not abort the batch")
	assert.Equal(t, expectedDays(t, src, months), res.Days)
	assert.True(t, res.Cached)
	require.Len(t, w.writes, 1)
}

func TestFetchYearRange_TenFailuresNotCached(t *testing.T) {
	months := YearRange(2026)
	src := &fakeSource{failing: failFirst(months, 10)}
	w := &recordingWriter{}
	f, _ := newTestFetcher(src, w)

	res := f.FetchYearRange(context.Background(), months, api.HijriParams{})

	assert.Equal(t, 14, res.Succeeded)
	assert.Equal(t, expectedDays(t, src, months), res.Days)
	assert.False(t, res.Cached)
	assert.Equal(t, Ready, res.State())
	assert.Empty(t, w.writes)
}

func TestFetchYearRange_AllFail(t *testing.T) {
	months := YearRange(2026)
	src := &fakeSource{failing: failFirst(months, 24)}
	w := &recordingWriter{}
	f, _ := newTestFetcher(src, w)

	res := f.FetchYearRange(context.Background(), months, api.HijriParams{})

	assert.Empty(t, res.Days)
	assert.Equal(t, 0, res.Succeeded)
	assert.Equal(t, Empty, res.State())
	assert.Empty(t, w.writes)
}

func TestFetchYearRange_WriteFailureIsNotCached(t *testing.T) {
	w := &recordingWriter{err: errors.New("disk full")}
	f, _ := newTestFetcher(&fakeSource{}, w)

	res := f.FetchYearRange(context.Background(), YearRange(2026), api.HijriParams{})

	assert.Len(t, w.writes, 1, "write is attempted")
	assert.Equal(t, 24, res.Succeeded)
	assert.False(t, res.Cached)
	assert.Equal(t, Ready, res.State())
}

func TestFetchYearRange_NilWriter(t *testing.T) {
	f, _ := newTestFetcher(&fakeSource{}, nil)
	res := f.FetchYearRange(context.Background(), YearRange(2026), api.HijriParams{})
	assert.Equal(t, 24, res.Succeeded)
	assert.False(t, res.Cached)
}

func TestFetchYearRange_CancelStopsWithoutCaching(t *testing.T) {
	src := &fakeSource{}
	w := &recordingWriter{}
	f, _ := newTestFetcher(src, w)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	f.sleep = func(ctx context.Context, _ time.Duration) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return ctx.Err()
	}

	res := f.FetchYearRange(ctx, YearRange(2026), api.HijriParams{})

	assert.Equal(t, 3, res.Succeeded)
	assert.Len(t, src.calls, 3)
	assert.False(t, res.Cached)
	assert.Empty(t, w.writes)
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "ready+cached", ReadyCached.String())
}
