// Package store persists session metadata (tabs, last directory and
// display preferences) as a TOML record.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/prefs"
	"github.com/bethropolis/quill/internal/session"
	"github.com/bethropolis/quill/internal/types"
)

// DefaultFileName is the record name used when no path is configured.
const DefaultFileName = "quill.cnf"

// ConfigError reports a persisted record that could not be decoded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("session record %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TabRecord is one persisted tab. Content is blank for Bound tabs.
type TabRecord struct {
	Path     string `toml:"path"`
	Position string `toml:"position"`
	Kind     string `toml:"kind"`
	Active   bool   `toml:"active"`
	Content  string `toml:"content"`
}

// Record is the whole persisted session.
type Record struct {
	Prefs   prefs.Prefs `toml:"prefs"`
	LastDir string      `toml:"lastdir"`
	Tabs    []TabRecord `toml:"tabs"`
}

// DefaultRecord is used when nothing usable is on disk.
func DefaultRecord() Record {
	return Record{Prefs: prefs.Default()}
}

// Store reads and writes the record at a fixed path.
type Store struct {
	path string
}

// New returns a store for path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the record location.
func (s *Store) Path() string { return s.path }

// Load reads the record. A missing file yields the defaults and no error.
// A malformed file yields the defaults together with a *ConfigError.
func (s *Store) Load() (Record, error) {
	rec := DefaultRecord()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("store: no session record at %s, using defaults", s.path)
		return rec, nil
	}
	if err != nil {
		cerr := &ConfigError{Path: s.path, Err: err}
		logger.Warnf("%v", cerr)
		return rec, cerr
	}

	decoded := DefaultRecord()
	if _, err := toml.Decode(string(data), &decoded); err != nil {
		cerr := &ConfigError{Path: s.path, Err: err}
		logger.Warnf("%v, using defaults", cerr)
		return rec, cerr
	}
	decoded.Prefs.Normalize()
	logger.Debugf("store: loaded %d tabs from %s", len(decoded.Tabs), s.path)
	return decoded, nil
}

// Save writes rec, creating the parent directory when needed.
func (s *Store) Save(rec Record) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	logger.Debugf("store: saved %d tabs to %s", len(rec.Tabs), s.path)
	return nil
}

// FromTabs converts live tabs to records. Bound bodies are left blank.
func FromTabs(tabs []session.Tab) []TabRecord {
	out := make([]TabRecord, 0, len(tabs))
	for _, t := range tabs {
		r := TabRecord{
			Path:     t.Path,
			Position: t.Position.String(),
			Kind:     t.Kind.String(),
			Active:   t.Active,
		}
		if t.Kind == session.Untitled {
			r.Content = t.Content
		}
		out = append(out, r)
	}
	return out
}

// Restore rebuilds the tab list. Bound tabs are re-read through read and
// dropped when that fails. Malformed positions fall back to 1.0.
func (r Record) Restore(read session.Reader) []session.Tab {
	tabs := make([]session.Tab, 0, len(r.Tabs))
	for _, tr := range r.Tabs {
		kind, err := session.ParseKind(tr.Kind)
		if err != nil {
			logger.Warnf("store: %v, treating as untitled", err)
		}
		pos, err := types.ParsePosition(tr.Position)
		if err != nil {
			pos = types.Start
		}
		t := session.Tab{
			Active:   tr.Active,
			Path:     tr.Path,
			Position: pos,
			Kind:     kind,
			Content:  tr.Content,
		}
		if kind == session.Bound {
			content, err := read(tr.Path)
			if err != nil {
				logger.Warnf("store: dropping tab %s: %v", tr.Path, err)
				continue
			}
			t.Content = content
		} else {
			t.Path = ""
		}
		tabs = append(tabs, t)
	}
	return tabs
}

// RestoreLastDir returns LastDir if it still names a directory.
func (r Record) RestoreLastDir() string {
	if r.LastDir == "" {
		return ""
	}
	if fi, err := os.Stat(r.LastDir); err != nil || !fi.IsDir() {
		return ""
	}
	return r.LastDir
}
