package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONIncludesService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Service: "seats"})

	log.Info("seat created", "seat_number", "A1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry[SERVICE] != "seats" {
		t.Errorf("service = %v, want seats", entry[SERVICE])
	}
	if entry["seat_number"] != "A1" {
		t.Errorf("seat_number = %v, want A1", entry["seat_number"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug", level: DEBUG, wantDebug: true, wantInfo: true},
		{name: "default", level: EMPTY, wantDebug: false, wantInfo: true},
		{name: "error", level: ERROR, wantDebug: false, wantInfo: false},
		{name: "unknown falls back to info", level: "verbose", wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Output: &buf, Level: tt.level, Format: TEXT})

			log.Debug("debug line")
			log.Info("info line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf}).With("request_id", "abc")

	log.Info("handled")

	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Errorf("expected request_id attribute, got %q", buf.String())
	}
}

func TestPrintfAdapters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Level: DEBUG})

	log.Printf("fetched %d messages from %s", 3, "bookings")
	log.Errorf("commit failed: %v", "broker gone")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}

	var debug, errLine map[string]any
	_ = json.Unmarshal([]byte(lines[0]), &debug)
	_ = json.Unmarshal([]byte(lines[1]), &errLine)

	if debug["msg"] != "fetched 3 messages from bookings" || debug["level"] != "DEBUG" {
		t.Errorf("unexpected Printf entry: %v", debug)
	}
	if errLine["msg"] != "commit failed: broker gone" || errLine["level"] != "ERROR" {
		t.Errorf("unexpected Errorf entry: %v", errLine)
	}
}
