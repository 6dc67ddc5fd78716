package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	valid := []string{"2024-02-29", " 2024-03-15 "}
	for _, s := range valid {
		if _, err := ParseDate(s); err != nil {
			t.Errorf("ParseDate(%q): %v", s, err)
		}
	}

	invalid := []string{"", "2024-3-15", "15/03/2024", "2023-02-29", "2024-13-01", "2024-03-15T00:00:00Z"}
	for _, s := range invalid {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) must fail", s)
		}
	}
}

func TestDateRoundTripsAsPlainString(t *testing.T) {
	d := NewDate(time.Date(2024, 3, 15, 23, 59, 0, 0, time.FixedZone("ICT", 7*3600)))

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-15"` {
		t.Errorf("unexpected JSON %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip changed the date: %s != %s", back, d)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)); err != nil || d.String() != "2024-03-15" {
		t.Errorf("scan time: %v %s", err, d)
	}
	if err := d.Scan([]byte("2024-04-01T00:00:00Z")); err != nil || d.String() != "2024-04-01" {
		t.Errorf("scan bytes: %v %s", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Error("scan of an int must fail")
	}
}

func TestAddYearsClampsLeapDay(t *testing.T) {
	d, _ := ParseDate("2024-02-29")
	if got := d.AddYears(1).String(); got != "2025-03-01" {
		t.Errorf("AddYears: got %s", got)
	}
}
