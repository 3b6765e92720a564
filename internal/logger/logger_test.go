package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetFormat(FormatConsole)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	output := buf.String()
	if !strings.Contains(output, "DEBUG") || !strings.Contains(output, "test message arg") {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Section("Hidden")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestInfoAndWarn_AlwaysLogged(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("ingested %d chunks", 4)
	Warn("cache unavailable")

	output := buf.String()
	if !strings.Contains(output, "INFO") || !strings.Contains(output, "ingested 4 chunks") {
		t.Errorf("missing info line: %q", output)
	}
	if !strings.Contains(output, "WARN") || !strings.Contains(output, "cache unavailable") {
		t.Errorf("missing warn line: %q", output)
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Retrieval")

	if !strings.Contains(buf.String(), "=== Retrieval ===") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSetFormat_JSON(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat(FormatJSON)

	Error("generation failed: %s", "timeout")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" {
		t.Errorf("expected level error, got %v", entry["level"])
	}
	if entry["msg"] != "generation failed: timeout" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
}

func TestSetLevel(t *testing.T) {
	defer reset()

	SetLevel("debug")
	if !IsVerbose() {
		t.Error("expected debug level to enable verbose")
	}

	SetLevel("nonsense")
	if !IsVerbose() {
		t.Error("expected unknown level to leave state unchanged")
	}

	SetLevel("warn")
	if IsVerbose() {
		t.Error("expected warn level to disable verbose")
	}
}
