package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler to drop records by tag, package or file.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{baseHandler: base, cfg: cfg}
}

// Enabled checks if the level is enabled by the base handler.
func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

func foundInSet(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, found := set[key]
	return found
}

// allowed applies a disabled set, then an enabled set. An empty key only
// passes when no enabled set is configured.
func allowed(enabled, disabled map[string]struct{}, key string) bool {
	if key != "" && foundInSet(disabled, key) {
		return false
	}
	if enabled != nil {
		return key != "" && foundInSet(enabled, key)
	}
	return true
}

// Handle applies filtering logic before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	var pkg, file string
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			file = strings.ToLower(filepath.Base(frame.File))
			pkg = strings.ToLower(filepath.Base(filepath.Dir(frame.File)))
		}
	}

	if pkg != "" && !allowed(h.cfg.enabledPackagesSet, h.cfg.disabledPackagesSet, pkg) {
		return nil
	}
	if file != "" && !allowed(h.cfg.enabledFilesSet, h.cfg.disabledFilesSet, file) {
		return nil
	}

	var tag string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})
	if !allowed(h.cfg.enabledTagsSet, h.cfg.disabledTagsSet, tag) {
		return nil
	}

	return h.baseHandler.Handle(ctx, r)
}

// WithAttrs returns a new handler with attributes added.
func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
}

// WithGroup returns a new handler with a group added.
func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
}
