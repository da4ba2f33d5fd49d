package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestHandler(t *testing.T, cfg Config) (*filteringHandler, *bytes.Buffer) {
	t.Helper()
	cfg.process()
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return newFilteringHandler(base, &cfg), &buf
}

func record(msg, tag string) slog.Record {
	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	return r
}

func TestTagFiltering(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		tag      string
		wantKept bool
	}{
		{"no filters", Config{}, "search", true},
		{"disabled tag", Config{DisabledTags: []string{"search"}}, "search", false},
		{"disabled is case-insensitive", Config{DisabledTags: []string{"SEARCH"}}, "search", false},
		{"enabled tag", Config{EnabledTags: []string{"run"}}, "run", true},
		{"other tag when enabled set", Config{EnabledTags: []string{"run"}}, "search", false},
		{"untagged when enabled set", Config{EnabledTags: []string{"run"}}, "", false},
		{"disabled wins", Config{EnabledTags: []string{"run"}, DisabledTags: []string{"run"}}, "run", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newTestHandler(t, tt.cfg)
			if err := h.Handle(context.Background(), record("hello", tt.tag)); err != nil {
				t.Fatal(err)
			}
			kept := strings.Contains(buf.String(), "hello")
			if kept != tt.wantKept {
				t.Errorf("kept = %v, want %v (output %q)", kept, tt.wantKept, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"err":     slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
