package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter registers the API routes on a new mux.Router.
func NewRouter(h *Handler, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests(log))

	r.HandleFunc("/v1/prayers/current", h.CurrentPrayer).Methods(http.MethodGet)
	r.HandleFunc("/v1/prayers/next", h.NextPrayer).Methods(http.MethodGet)
	r.HandleFunc("/v1/holidays", h.ListHolidays).Methods(http.MethodGet)
	r.HandleFunc("/v1/holidays/next", h.NextHoliday).Methods(http.MethodGet)
	r.HandleFunc("/v1/holidays/cache", h.InvalidateCalendar).Methods(http.MethodDelete)
	r.HandleFunc("/ping", h.Ping).Methods(http.MethodGet)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("took", time.Since(start)).
				Msg("request")
		})
	}
}
