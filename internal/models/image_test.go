package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestImageRecord_DecodeOptionalFields(t *testing.T) {
	body := `[
		{"id":"a","image_url":"/api/v1/images/a.png","caption":"sunset","created_at":"2024-05-01T18:30:00Z","likes":5},
		{"id":"b","image_url":"/api/v1/images/b.png","caption":null,"created_at":"2024-05-01T18:00:00Z"}
	]`

	var records []ImageRecord
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		t.Fatalf("Failed to decode records: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].CaptionText() != "sunset" || records[0].LikeCount() != 5 {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[1].Caption != nil || records[1].CaptionText() != "" {
		t.Errorf("Expected absent caption, got %v", records[1].Caption)
	}
	if records[1].Likes != nil || records[1].LikeCount() != 0 {
		t.Errorf("Expected absent likes to count as zero, got %v", records[1].Likes)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2024-05-01T18:30:00Z", time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)},
		{"offset", "2024-05-01T20:30:00+02:00", time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)},
		{"naive with micros", "2024-05-01T18:30:00.123456", time.Date(2024, 5, 1, 18, 30, 0, 123456000, time.UTC)},
		{"naive", "2024-05-01T18:30:00", time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got.Time, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("Expected error for invalid timestamp")
	}

	var rec ImageRecord
	if err := json.Unmarshal([]byte(`{"id":"x","created_at":"nope"}`), &rec); err == nil {
		t.Error("Expected decode error for invalid created_at")
	}
}
