package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testDetector(url string) *Detector {
	d := NewDetector()
	d.URL = url
	return d
}

func TestDetect_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ipAPIResponse{
			Status:   "success",
			Lat:      21.4225,
			Lon:      39.8262,
			City:     "Mecca",
			Country:  "Saudi Arabia",
			Timezone: "Asia/Riyadh",
		})
	}))
	defer server.Close()

	loc, err := testDetector(server.URL).Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Location{Latitude: 21.4225, Longitude: 39.8262, City: "Mecca", Country: "Saudi Arabia", Timezone: "Asia/Riyadh"}
	if *loc != want {
		t.Errorf("Detect() = %+v, want %+v", *loc, want)
	}
}

func TestDetect_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "failed status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ipAPIResponse{Status: "fail", Message: "reserved range"})
			},
			wantErr: "reserved range",
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
			wantErr: "500",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json at all"))
			},
			wantErr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := testDetector(server.URL).Detect(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDetect_ConnectionRefused(t *testing.T) {
	_, err := testDetector("http://127.0.0.1:1").Detect(context.Background())
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestDetect_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ipAPIResponse{Status: "success"})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testDetector(server.URL).Detect(ctx); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
