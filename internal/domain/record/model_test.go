package record_test

import (
	"math"
	"testing"
	"time"

	"runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// TestRecordValidation tests validation of Record.
func TestRecordValidation(t *testing.T) {
	day := week.MustDate(2024, time.June, 6)
	tests := []struct {
		name    string
		rec     record.Record
		wantErr bool
	}{
		{"valid", record.Record{MemberID: "m1", RunningDate: day, Distance: 5, RunningTime: 30 * time.Minute}, false},
		{"zero distance", record.Record{MemberID: "m1", RunningDate: day}, false},
		{"missing member", record.Record{RunningDate: day, Distance: 5}, true},
		{"missing date", record.Record{MemberID: "m1", Distance: 5}, true},
		{"negative distance", record.Record{MemberID: "m1", RunningDate: day, Distance: -1}, true},
		{"nan distance", record.Record{MemberID: "m1", RunningDate: day, Distance: math.NaN()}, true},
		{"negative time", record.Record{MemberID: "m1", RunningDate: day, RunningTime: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Record.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestParseDistance verifies lenient parsing never fails.
func TestParseDistance(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5.25", 5.25},
		{" 10 ", 10},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"NaN", 0},
		{"+Inf", 0},
	}
	for _, tt := range tests {
		if got := record.ParseDistance(tt.in); got != tt.want {
			t.Errorf("ParseDistance(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestDistanceFromAny covers the loosely typed values a database can return.
func TestDistanceFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 4.5, 4.5},
		{"int", int64(3), 3},
		{"bytes", []byte("2.5"), 2.5},
		{"text", "junk", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		if got := record.DistanceFromAny(tt.in); got != tt.want {
			t.Errorf("%s: DistanceFromAny = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestParseClock covers valid and malformed HH:MM:SS values.
func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"00:30:00", 30 * time.Minute, false},
		{"01:02:03", time.Hour + 2*time.Minute + 3*time.Second, false},
		{"26:00:00", 26 * time.Hour, false},
		{"00:60:00", 0, true},
		{"1:2:3", 0, true},
		{"00:30", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := record.ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestFormatPace verifies pace per kilometre and the undefined cases.
func TestFormatPace(t *testing.T) {
	if got := record.FormatPace(50*time.Minute, 10); got != "05:00" {
		t.Errorf("FormatPace(50m, 10) = %q, want 05:00", got)
	}
	if got := record.FormatPace(time.Hour+45*time.Minute, 21); got != "05:00" {
		t.Errorf("FormatPace(1:45:00, 21) = %q, want 05:00", got)
	}
	if got := record.FormatPace(30*time.Minute, 0); got != "" {
		t.Errorf("FormatPace with zero distance = %q, want empty", got)
	}
}

// TestSummarize verifies totals, clock formatting and average pace.
func TestSummarize(t *testing.T) {
	recs := []record.Record{
		{Distance: 5, RunningTime: 25 * time.Minute},
		{Distance: 10, RunningTime: 55 * time.Minute},
		{Distance: math.NaN(), RunningTime: 0},
	}
	s := record.Summarize(recs)
	if s.TotalDistance != 15 {
		t.Errorf("TotalDistance = %v, want 15", s.TotalDistance)
	}
	if s.TotalClock != "01:20:00" {
		t.Errorf("TotalClock = %q, want 01:20:00", s.TotalClock)
	}
	if s.AveragePace != "05:20" {
		t.Errorf("AveragePace = %q, want 05:20", s.AveragePace)
	}
	if s.RunCount != 3 {
		t.Errorf("RunCount = %d, want 3", s.RunCount)
	}

	empty := record.Summarize(nil)
	if empty.AveragePace != "" || empty.TotalClock != "00:00:00" {
		t.Errorf("empty summary = %+v", empty)
	}
}
