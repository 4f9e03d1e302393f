package api

import "testing"

func TestHijriDate_Format(t *testing.T) {
	tests := []struct {
		name string
		h    HijriDate
		want string
	}{
		{
			name: "full date",
			h: HijriDate{
				Day:         "10",
				Month:       HijriMonth{Number: 8, En: "Sha'ban"},
				Year:        "1447",
				Designation: HijriDesignation{Abbreviated: "AH"},
			},
			want: "10 Sha'ban 1447 AH",
		},
		{
			name: "missing abbreviated defaults to AH",
			h: HijriDate{
				Day:   "1",
				Month: HijriMonth{Number: 1, En: "Muharram"},
				Year:  "1448",
			},
			want: "1 Muharram 1448 AH",
		},
		{
			name: "empty day returns empty",
			h:    HijriDate{Month: HijriMonth{En: "Ramadan"}, Year: "1447"},
			want: "",
		},
		{
			name: "all empty returns empty",
			h:    HijriDate{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.h.Format()
			if got != tt.want {
				t.Errorf("HijriDate.Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHijriDate_DayMonth(t *testing.T) {
	tests := []struct {
		date      string
		day, mon  int
		wantValid bool
	}{
		{"3-10-1447", 3, 10, true},
		{"01-10-1447", 1, 10, true},
		{"15-09-1447", 15, 9, true},
		{"", 0, 0, false},
		{"x-10-1447", 0, 0, false},
		{"3", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, m, ok := HijriDate{Date: tt.date}.DayMonth()
			if ok != tt.wantValid || d != tt.day || m != tt.mon {
				t.Errorf("DayMonth(%q) = (%d, %d, %v), want (%d, %d, %v)", tt.date, d, m, ok, tt.day, tt.mon, tt.wantValid)
			}
		})
	}
}

func TestGregorianDate_ISO(t *testing.T) {
	tests := []struct {
		date    string
		want    string
		wantErr bool
	}{
		{"28-02-2026", "2026-02-28", false},
		{"01-10-2026", "2026-10-01", false},
		{"1-10-2026", "", true},
		{"2026-10-01", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := GregorianDate{Date: tt.date}.ISO()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ISO(%q) expected error, got %q", tt.date, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ISO(%q) unexpected error: %v", tt.date, err)
			}
			if got != tt.want {
				t.Errorf("ISO(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestTimings_Map(t *testing.T) {
	m := Timings{Fajr: "05:17", Isha: "19:10 (BST)"}.Map()
	if len(m) != 2 {
		t.Fatalf("Map() has %d entries, want 2: %v", len(m), m)
	}
	if m["Isha"] != "19:10 (BST)" {
		t.Errorf("Isha = %q", m["Isha"])
	}
}
