// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newCapturedSlog(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&SlogHandler{logger: zerolog.New(buf)})
}

func TestSlogHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newCapturedSlog(&buf)

	tests := []struct {
		name    string
		logFunc func(msg string, args ...any)
		level   string
	}{
		{"Debug", logger.Debug, "debug"},
		{"Info", logger.Info, "info"},
		{"Warn", logger.Warn, "warn"},
		{"Error", logger.Error, "error"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.logFunc("hello")
		output := buf.String()
		if !strings.Contains(output, `"level":"`+tt.level+`"`) {
			t.Errorf("%s: expected level %q in output: %s", tt.name, tt.level, output)
		}
		if !strings.Contains(output, "hello") {
			t.Errorf("%s: message missing from output: %s", tt.name, output)
		}
	}
}

func TestSlogHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newCapturedSlog(&buf)

	logger.Info("attrs",
		slog.String("service", "scoring-run"),
		slog.Int("notes", 42),
		slog.Bool("ok", true),
	)

	output := buf.String()
	for _, want := range []string{`"service":"scoring-run"`, `"notes":42`, `"ok":true`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newCapturedSlog(&buf).With(slog.String("supervisor", "veracite"))

	logger.Info("restarted")

	if output := buf.String(); !strings.Contains(output, `"supervisor":"veracite"`) {
		t.Errorf("expected bound attr in output: %s", output)
	}
}

func TestSlogHandlerGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := newCapturedSlog(&buf).WithGroup("child")

	logger.Info("restarted", slog.String("name", "ops-server"))

	if output := buf.String(); !strings.Contains(output, `"child.name":"ops-server"`) {
		t.Errorf("expected group-prefixed attr in output: %s", output)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelDebug - 4, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
