package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.input); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))
	logger = NewComponentLogger(logger, "builder")

	logger.Info("wrote manifest", String(FieldCode, "1120"), Int("canvases", 3))

	out := buf.String()
	for _, want := range []string{"INFO", "[builder]", "wrote manifest", "code=1120", "canvases=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("console output should not be colorized for non-terminal writer: %q", out)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("should be dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record should have been filtered: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl))

	logger.Info("resolved scans", String(FieldMETSID, "abc"), Int("count", 12))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("json output is not valid JSON: %v", err)
	}
	if record["msg"] != "resolved scans" {
		t.Errorf("msg = %v, want resolved scans", record["msg"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want info", record["level"])
	}
	if record["mets_id"] != "abc" {
		t.Errorf("mets_id = %v, want abc", record["mets_id"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
