package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if got, err := ParseFormat("json"); err != nil || got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", got, err)
	}
	if got, err := ParseFormat("text"); err != nil || got != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", got, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestConversionStart(t *testing.T) {
	output := captureLogOutput(func() {
		ConversionStart("in.tex", "out.md", "dsctex", "gsmd")
	})

	var entry map[string]any
	if err := json.Unmarshal([]byte(output), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["msg"] != "conversion_start" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["parser"] != "dsctex" || entry["renderer"] != "gsmd" {
		t.Errorf("missing pipeline fields: %v", entry)
	}
}

func TestConversionDone(t *testing.T) {
	output := captureLogOutput(func() {
		ConversionDone("in.tex", "out.md", 250*time.Millisecond)
	})
	if !strings.Contains(output, "conversion_done") || !strings.Contains(output, "\"duration_ms\":250") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestConversionError(t *testing.T) {
	output := captureLogOutput(func() {
		ConversionError("parse", errors.New("bad input"))
	})
	if !strings.Contains(output, "conversion_error") || !strings.Contains(output, "bad input") {
		t.Errorf("unexpected output: %s", output)
	}
	if !strings.Contains(output, "\"stage\":\"parse\"") {
		t.Errorf("missing stage field: %s", output)
	}
}

func TestPostprocessEvent(t *testing.T) {
	output := captureLogOutput(func() {
		PostprocessEvent("copy_images", "count", 2)
	})
	if !strings.Contains(output, "postprocess") || !strings.Contains(output, "copy_images") {
		t.Errorf("unexpected output: %s", output)
	}
}
