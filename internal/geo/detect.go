package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Location is the position detected from the caller's public IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// Detector looks up the location of the current public IP.
type Detector struct {
	httpClient *http.Client
	// URL is the lookup endpoint. Overridden in tests.
	URL string
}

// NewDetector returns a Detector using ip-api.com, which needs no API key.
func NewDetector() *Detector {
	return &Detector{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		URL:        defaultURL,
	}
}

// Detect performs the lookup.
func (d *Detector) Detect(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating geolocation request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}
