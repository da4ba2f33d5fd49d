package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/quill/internal/prefs"
	"github.com/bethropolis/quill/internal/session"
	"github.com/bethropolis/quill/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), DefaultFileName))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Prefs != prefs.Default() || len(rec.Tabs) != 0 {
		t.Errorf("got %+v", rec)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	s := openTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("tabs = [[[ nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err := s.Load()
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if cerr.Path != s.Path() {
		t.Errorf("path = %s", cerr.Path)
	}
	if rec.Prefs != prefs.Default() {
		t.Error("malformed record should fall back to default prefs")
	}
}

func TestLoadPartialRecordKeepsDefaults(t *testing.T) {
	s := openTestStore(t)
	data := "lastdir = \"/tmp\"\n\n[prefs]\npalette = \"night\"\nfg_day = \"#112233\"\n"
	if err := os.WriteFile(s.Path(), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := prefs.Default()
	want.Current = prefs.Night
	want.FgDay = "#112233"
	if rec.Prefs != want {
		t.Errorf("prefs = %+v, want %+v", rec.Prefs, want)
	}
	if rec.LastDir != "/tmp" {
		t.Errorf("lastdir = %q", rec.LastDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "main.py")
	if err := os.WriteFile(doc, []byte("print(1)\nprint(2)"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := prefs.Default()
	p.ToggleColor()
	tabs := []session.Tab{
		{Path: doc, Content: "stale", Position: types.Position{Line: 2, Col: 3}, Kind: session.Bound},
		{Active: true, Content: "scratch\n\tnotes", Position: types.Position{Line: 2, Col: 1}, Kind: session.Untitled},
	}
	s := New(filepath.Join(dir, "nested", DefaultFileName))
	if err := s.Save(Record{Prefs: p, LastDir: dir, Tabs: FromTabs(tabs)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Prefs.Current != prefs.Night {
		t.Errorf("palette = %s", rec.Prefs.Current)
	}
	if rec.Tabs[0].Content != "" {
		t.Errorf("bound body persisted: %q", rec.Tabs[0].Content)
	}
	if rec.Tabs[1].Content != "scratch\n\tnotes" {
		t.Errorf("untitled body = %q", rec.Tabs[1].Content)
	}

	restored := rec.Restore(func(path string) (string, error) {
		b, err := os.ReadFile(path)
		return string(b), err
	})
	if len(restored) != 2 {
		t.Fatalf("restored %d tabs", len(restored))
	}
	if restored[0].Content != "print(1)\nprint(2)" || restored[0].Position != (types.Position{Line: 2, Col: 3}) {
		t.Errorf("bound tab = %+v", restored[0])
	}
	if !restored[1].Active || restored[1].Kind != session.Untitled {
		t.Errorf("untitled tab = %+v", restored[1])
	}
	if rec.RestoreLastDir() != dir {
		t.Errorf("lastdir = %q", rec.RestoreLastDir())
	}
}

func TestRestoreDropsUnreadableTabs(t *testing.T) {
	rec := Record{Tabs: []TabRecord{
		{Path: "/gone.py", Position: "1.0", Kind: "normal"},
		{Position: "garbage", Kind: "newtab", Content: "x"},
	}}
	tabs := rec.Restore(func(string) (string, error) { return "", os.ErrNotExist })
	if len(tabs) != 1 {
		t.Fatalf("got %d tabs", len(tabs))
	}
	if tabs[0].Position != types.Start || tabs[0].Content != "x" {
		t.Errorf("tab = %+v", tabs[0])
	}
}

func TestRestoreLastDirMissing(t *testing.T) {
	rec := Record{LastDir: filepath.Join(t.TempDir(), "nope")}
	if got := rec.RestoreLastDir(); got != "" {
		t.Errorf("got %q", got)
	}
}
