package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-calendar/internal/holiday"
	"github.com/smokyabdulrahman/prayer-calendar/internal/prayer"
)

// DictSource builds the prayer dictionary around an instant.
// *schedule.Service satisfies it.
type DictSource interface {
	Dict(ctx context.Context, now time.Time) (prayer.Dict, error)
}

// HolidayFinder is satisfied by *holiday.Finder.
type HolidayFinder interface {
	FindNext(ctx context.Context) *holiday.Upcoming
	Upcoming(ctx context.Context, limit int) []holiday.Upcoming
}

// CalendarInvalidator is satisfied by *cache.CalendarCache.
type CalendarInvalidator interface {
	Invalidate(ctx context.Context)
}

// HolidayResponse is the JSON form of an upcoming holiday.
type HolidayResponse struct {
	Date         string   `json:"date"`
	Hijri        string   `json:"hijri"`
	HijriDisplay string   `json:"hijri_display,omitempty"`
	Holidays     []string `json:"holidays"`
}

// NewHolidayResponse converts a finder result to its JSON form.
func NewHolidayResponse(u holiday.Upcoming) HolidayResponse {
	return HolidayResponse{
		Date:         u.Date,
		Hijri:        u.Day.Hijri.Date,
		HijriDisplay: u.Day.Hijri.Format(),
		Holidays:     u.Holidays,
	}
}

// Handler serves the prayer and holiday endpoints.
type Handler struct {
	dicts    DictSource
	holidays HolidayFinder
	calendar CalendarInvalidator
	log      zerolog.Logger

	// Now is the clock used to resolve prayers.
	Now func() time.Time
}

// NewHandler returns a Handler.
func NewHandler(dicts DictSource, holidays HolidayFinder, calendar CalendarInvalidator, log zerolog.Logger) *Handler {
	return &Handler{
		dicts:    dicts,
		holidays: holidays,
		calendar: calendar,
		log:      log,
		Now:      time.Now,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("error encoding response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) resolvePrayer(w http.ResponseWriter, r *http.Request, resolve func(prayer.Dict, time.Time) *prayer.Moment) {
	now := h.Now()
	dict, err := h.dicts.Dict(r.Context(), now)
	if err != nil {
		h.log.Error().Err(err).Msg("loading prayer times")
		h.writeError(w, http.StatusBadGateway, "prayer times unavailable")
		return
	}
	m := resolve(dict, now)
	if m == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// CurrentPrayer handles GET /v1/prayers/current.
func (h *Handler) CurrentPrayer(w http.ResponseWriter, r *http.Request) {
	h.resolvePrayer(w, r, prayer.CurrentPrayer)
}

// NextPrayer handles GET /v1/prayers/next.
func (h *Handler) NextPrayer(w http.ResponseWriter, r *http.Request) {
	h.resolvePrayer(w, r, prayer.NextPrayer)
}

// NextHoliday handles GET /v1/holidays/next.
func (h *Handler) NextHoliday(w http.ResponseWriter, r *http.Request) {
	next := h.holidays.FindNext(r.Context())
	if next == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, NewHolidayResponse(*next))
}

// ListHolidays handles GET /v1/holidays?limit=N.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	found := h.holidays.Upcoming(r.Context(), limit)
	out := make([]HolidayResponse, 0, len(found))
	for _, u := range found {
		out = append(out, NewHolidayResponse(u))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// InvalidateCalendar handles DELETE /v1/holidays/cache.
func (h *Handler) InvalidateCalendar(w http.ResponseWriter, r *http.Request) {
	h.calendar.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Ping handles GET /ping.
func (h *Handler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("pong"))
}
