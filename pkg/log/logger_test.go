// Structured logging tests
//
// Copyright (C) 2026  Shaker Host Project
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerBasic(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test")
	logger.SetWriter(&buf)
	logger.SetLevel(DEBUG)
	logger.SetColorize(false)

	logger.Info("sending %d lines", 51)

	output := buf.String()
	if !strings.Contains(output, "[INFO ]") {
		t.Errorf("expected INFO level, got: %s", output)
	}
	if !strings.Contains(output, "test:") {
		t.Errorf("expected prefix 'test:', got: %s", output)
	}
	if !strings.Contains(output, "sending 51 lines") {
		t.Errorf("expected formatted message, got: %s", output)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test")
	logger.SetWriter(&buf)
	logger.SetColorize(false)
	logger.SetLevel(WARN)

	logger.Debug("debug message")
	logger.Info("info message")
	if buf.Len() != 0 {
		t.Errorf("expected DEBUG/INFO to be filtered, got: %s", buf.String())
	}

	logger.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("expected WARN to pass, got: %s", buf.String())
	}

	buf.Reset()

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("expected ERROR to pass, got: %s", buf.String())
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test")
	logger.SetWriter(&buf)
	logger.SetFormat(FormatJSON)
	logger.SetLevel(DEBUG)

	logger.Info("json test")

	var entry jsonLogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v, output: %s", err, buf.String())
	}

	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got: %s", entry.Level)
	}
	if entry.Logger != "test" {
		t.Errorf("expected logger 'test', got: %s", entry.Logger)
	}
	if entry.Message != "json test" {
		t.Errorf("expected message 'json test', got: %s", entry.Message)
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test")
	logger.SetWriter(&buf)
	logger.SetColorize(false)

	logger.WithFields(Fields{"rpm": 60, "pattern": "orbital"}).Info("dispatch")

	output := buf.String()
	if !strings.Contains(output, "pattern=orbital") {
		t.Errorf("expected pattern field, got: %s", output)
	}
	if !strings.Contains(output, "rpm=60") {
		t.Errorf("expected rpm field, got: %s", output)
	}
	// Fields are sorted by key
	if strings.Index(output, "pattern=") > strings.Index(output, "rpm=") {
		t.Errorf("expected sorted field order, got: %s", output)
	}
}

type errFake struct{}

func (errFake) Error() string { return "boom" }

func TestLoggerWithErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test")
	logger.SetWriter(&buf)
	logger.SetColorize(false)

	logger.WithError(errFake{}).Warn("send failed")

	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("expected error field, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warning", WARN},
		{"error", ERROR},
		{"bogus", INFO},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWithPrefixInheritsSettings(t *testing.T) {
	var buf bytes.Buffer
	logger := New("parent")
	logger.SetWriter(&buf)
	logger.SetColorize(false)
	logger.SetLevel(DEBUG)

	child := logger.WithPrefix("child")
	child.Debug("from child")

	if !strings.Contains(buf.String(), "child:") {
		t.Errorf("expected child prefix, got: %s", buf.String())
	}
}

func TestEntryFormattedLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test")
	logger.SetWriter(&buf)
	logger.SetColorize(false)
	logger.SetLevel(DEBUG)

	logger.WithField("rpm", 60).Infof("dispatching %d samples", 51)
	logger.WithField("code", "CONTROLLER_RESPONSE").Warnf("retrying after %s", "homing")

	output := buf.String()
	if !strings.Contains(output, "dispatching 51 samples") || !strings.Contains(output, "rpm=60") {
		t.Errorf("Infof output: %s", output)
	}
	if !strings.Contains(output, "retrying after homing") || !strings.Contains(output, "[WARN ]") {
		t.Errorf("Warnf output: %s", output)
	}
}

func TestPackageLevelLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := New("shaker")
	logger.SetWriter(&buf)
	logger.SetColorize(false)
	logger.SetLevel(INFO)
	prev := defaultLogger
	SetDefaultLogger(logger)
	defer SetDefaultLogger(prev)

	Info("listening on %s", ":8000")
	Warn("slow controller")
	Error("dial failed")

	output := buf.String()
	for _, want := range []string{"listening on :8000", "slow controller", "dial failed"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in: %s", want, output)
		}
	}
}
