package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.aladhan.com/v1"
	userAgent      = "prayer-times"
)

// Hijri calendar calculation methods accepted by the gToHCalendar endpoint.
var CalendarMethods = []string{"HJCoSA", "UAQ", "DIYANET", "MATHEMATICAL"}

// DefaultCalendarMethod is used when no calendar method is configured.
const DefaultCalendarMethod = "HJCoSA"

// Location identifies where prayer times are computed for.
// City/Country take effect only when both coordinates are zero.
type Location struct {
	Latitude  float64
	Longitude float64
	City      string
	Country   string
}

// ByCity reports whether the location should be queried by city name.
func (l Location) ByCity() bool {
	return l.Latitude == 0 && l.Longitude == 0 && l.City != ""
}

// Params are the prayer times calculation parameters.
// Method and School of -1 leave the choice to the API.
type Params struct {
	Method int
	School int
	Tune   string
}

// HijriParams configure the Hijri calendar endpoint.
type HijriParams struct {
	CalendarMethod string
	// Adjustment is the user's day shift. The API expects the opposite sign.
	Adjustment int
}

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchCalendar fetches a month of prayer times for the given location.
func (c *Client) FetchCalendar(ctx context.Context, year, month int, loc Location, p Params) (*CalendarResponse, error) {
	params := url.Values{}
	var endpoint string
	if loc.ByCity() {
		endpoint = fmt.Sprintf("%s/calendarByCity/%d/%d", c.BaseURL, year, month)
		params.Set("city", loc.City)
		params.Set("country", loc.Country)
	} else {
		endpoint = fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, month)
		params.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		params.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	}
	if p.Method >= 0 {
		params.Set("method", strconv.Itoa(p.Method))
	}
	if p.School >= 0 {
		params.Set("school", strconv.Itoa(p.School))
	}
	if p.Tune != "" {
		params.Set("tune", p.Tune)
	}

	var resp CalendarResponse
	if err := c.doRequest(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchHijriCalendar fetches the Hijri calendar days of one Gregorian month.
func (c *Client) FetchHijriCalendar(ctx context.Context, year, month int, p HijriParams) ([]CalendarDay, error) {
	endpoint := fmt.Sprintf("%s/gToHCalendar/%d/%d", c.BaseURL, month, year)

	params := url.Values{}
	method := p.CalendarMethod
	if method == "" {
		method = DefaultCalendarMethod
	}
	params.Set("calendarMethod", method)
	if p.Adjustment != 0 {
		// A user shift of +1 day is sent as adjustment=-1.
		params.Set("adjustment", strconv.Itoa(-p.Adjustment))
	}

	var resp HijriCalendarResponse
	if err := c.doRequest(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out apiResult) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}

	if code, status := out.result(); code != 200 {
		return fmt.Errorf("API error: code=%d status=%s", code, status)
	}

	return nil
}
