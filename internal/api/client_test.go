package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var london = Location{Latitude: 51.5074, Longitude: -0.1278}

// sampleCalendarResponse returns a valid Al Adhan calendar API response for testing.
func sampleCalendarResponse(days int) CalendarResponse {
	data := make([]Data, days)
	for i := 0; i < days; i++ {
		data[i] = Data{
			Timings: Timings{
				Fajr:    "05:17 (GMT)",
				Sunrise: "06:48 (GMT)",
				Dhuhr:   "12:13 (GMT)",
				Asr:     "15:02 (GMT)",
				Maghrib: "17:39 (GMT)",
				Isha:    "19:10 (GMT)",
			},
			Date: DateInfo{
				Gregorian: GregorianDate{
					Date: fmt.Sprintf("%02d-02-2026", i+1),
					Day:  fmt.Sprintf("%d", i+1),
				},
			},
			Meta: Meta{
				Latitude:  51.5074,
				Longitude: -0.1278,
				Timezone:  "Europe/London",
				Method:    MethodInfo{ID: 2, Name: "ISNA"},
				School:    "STANDARD",
			},
		}
	}
	return CalendarResponse{Code: 200, Status: "OK", Data: data}
}

func sampleHijriResponse() HijriCalendarResponse {
	return HijriCalendarResponse{
		Code:   200,
		Status: "OK",
		Data: []CalendarDay{
			{
				Gregorian: GregorianDate{Date: "20-03-2026"},
				Hijri: HijriDate{
					Date:     "01-10-1447",
					Holidays: []string{"Eid-ul-Fitr"},
				},
			},
			{
				Gregorian: GregorianDate{Date: "21-03-2026"},
				Hijri:     HijriDate{Date: "02-10-1447", Holidays: []string{}},
			},
		},
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c == nil {
		t.Fatal("NewClient returned nil")
	}
	if c.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, defaultBaseURL)
	}
}

// ---------------------------------------------------------------------------
// Prayer calendar endpoint
// ---------------------------------------------------------------------------

func TestFetchCalendar_Coordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar/2026/2" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("latitude") == "" || q.Get("longitude") == "" {
			t.Error("missing coordinates")
		}
		if q.Get("method") != "2" {
			t.Errorf("method = %q, want %q", q.Get("method"), "2")
		}
		if q.Get("school") != "1" {
			t.Errorf("school = %q, want %q", q.Get("school"), "1")
		}
		if q.Get("tune") != "0,1,0,0,0,0,0,2,0" {
			t.Errorf("tune = %q", q.Get("tune"))
		}
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleCalendarResponse(28))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	got, err := c.FetchCalendar(context.Background(), 2026, 2, london, Params{Method: 2, School: 1, Tune: "0,1,0,0,0,0,0,2,0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 28 {
		t.Errorf("got %d days, want 28", len(got.Data))
	}
	if got.Data[0].Timings.Fajr != "05:17 (GMT)" {
		t.Errorf("Fajr = %q, want %q", got.Data[0].Timings.Fajr, "05:17 (GMT)")
	}
}

func TestFetchCalendar_NoMethodOrSchool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, key := range []string{"method", "school", "tune"} {
			if q.Get(key) != "" {
				t.Errorf("%s should not be set, got %q", key, q.Get(key))
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleCalendarResponse(28))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	if _, err := c.FetchCalendar(context.Background(), 2026, 2, london, Params{Method: -1, School: -1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchCalendar_City(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendarByCity/2026/3" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("city") != "London" {
			t.Errorf("city = %q, want %q", q.Get("city"), "London")
		}
		if q.Get("country") != "UK" {
			t.Errorf("country = %q, want %q", q.Get("country"), "UK")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleCalendarResponse(31))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	got, err := c.FetchCalendar(context.Background(), 2026, 3, Location{City: "London", Country: "UK"}, Params{Method: -1, School: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 31 {
		t.Errorf("got %d days, want 31", len(got.Data))
	}
}

func TestFetchCalendar_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.FetchCalendar(context.Background(), 2026, 2, london, Params{Method: -1, School: -1})
	if err == nil {
		t.Fatal("expected error for HTTP 503, got nil")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should mention 503, got: %v", err)
	}
}

func TestFetchCalendar_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.FetchCalendar(context.Background(), 2026, 2, london, Params{Method: -1, School: -1})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode, got: %v", err)
	}
}

func TestFetchCalendar_APIErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CalendarResponse{Code: 400, Status: "Bad Request"})
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.FetchCalendar(context.Background(), 2026, 2, london, Params{Method: -1, School: -1})
	if err == nil {
		t.Fatal("expected error for API code 400, got nil")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should mention 400, got: %v", err)
	}
}

func TestFetchCalendar_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1" // nothing listening

	_, err := c.FetchCalendar(context.Background(), 2026, 2, london, Params{Method: -1, School: -1})
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestFetchCalendar_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleCalendarResponse(1))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.FetchCalendar(ctx, 2026, 2, london, Params{Method: -1, School: -1}); err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
}

// ---------------------------------------------------------------------------
// Hijri calendar endpoint
// ---------------------------------------------------------------------------

func TestFetchHijriCalendar_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Month comes before year on this endpoint.
		if r.URL.Path != "/gToHCalendar/3/2026" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("calendarMethod") != "UAQ" {
			t.Errorf("calendarMethod = %q, want %q", q.Get("calendarMethod"), "UAQ")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleHijriResponse())
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	days, err := c.FetchHijriCalendar(context.Background(), 2026, 3, HijriParams{CalendarMethod: "UAQ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	if len(days[0].Hijri.Holidays) != 1 || days[0].Hijri.Holidays[0] != "Eid-ul-Fitr" {
		t.Errorf("holidays = %v, want [Eid-ul-Fitr]", days[0].Hijri.Holidays)
	}
}

func TestFetchHijriCalendar_AdjustmentIsNegated(t *testing.T) {
	tests := []struct {
		name       string
		adjustment int
		want       string
	}{
		{"plus one day", 1, "-1"},
		{"minus two days", -2, "2"},
		{"zero is omitted", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get("adjustment")
				json.NewEncoder(w).Encode(sampleHijriResponse())
			}))
			defer server.Close()

			c := NewClient()
			c.BaseURL = server.URL

			if _, err := c.FetchHijriCalendar(context.Background(), 2026, 3, HijriParams{Adjustment: tt.adjustment}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("adjustment = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchHijriCalendar_DefaultMethod(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("calendarMethod")
		json.NewEncoder(w).Encode(sampleHijriResponse())
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	if _, err := c.FetchHijriCalendar(context.Background(), 2026, 3, HijriParams{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultCalendarMethod {
		t.Errorf("calendarMethod = %q, want %q", got, DefaultCalendarMethod)
	}
}

func TestFetchHijriCalendar_APIErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HijriCalendarResponse{Code: 429, Status: "Too Many Requests"})
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.FetchHijriCalendar(context.Background(), 2026, 3, HijriParams{})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected API error mentioning 429, got %v", err)
	}
}
