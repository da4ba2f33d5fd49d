package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/quill/internal/config"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/types"
)

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Editor.SessionFile = filepath.Join(dir, "quill.cnf")
	off := false
	cfg.Clipboard.System = &off
	return cfg, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCommandScript(t *testing.T) {
	cfg, dir := testConfig(t)
	a, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	doc := filepath.Join(dir, "a.py")
	script := strings.Join([]string{
		`insert if x:\n    y = 1`,
		"save " + doc,
		"search y",
		"bogus",
		"cancel",
		"text",
		"quit",
	}, "\n")

	var out bytes.Buffer
	if err := a.Run(context.Background(), strings.NewReader(script), &out); err != nil {
		t.Fatal(err)
	}
	if b, err := os.ReadFile(doc); err != nil || string(b) != "if x:\n\ty = 1" {
		t.Errorf("saved %q, %v", b, err)
	}
	if !strings.Contains(out.String(), "Unknown command: bogus") {
		t.Errorf("unknown command not reported:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "if x:\n\ty = 1\n") {
		t.Errorf("text not printed:\n%s", out.String())
	}
	if _, err := os.Stat(cfg.Editor.SessionFile); err != nil {
		t.Errorf("session not saved: %v", err)
	}
}

func TestFilesOpenInTabs(t *testing.T) {
	cfg, dir := testConfig(t)
	one, two := filepath.Join(dir, "one.py"), filepath.Join(dir, "two.py")
	writeFile(t, one, "1")
	writeFile(t, two, "2")

	a, err := NewApp(cfg, []string{one, two, one})
	if err != nil {
		t.Fatal(err)
	}
	tabs := a.Editor().Tabs()
	if len(tabs) != 2 || tabs[0].Path != one || tabs[1].Path != two {
		t.Fatalf("tabs = %+v", tabs)
	}
	if a.Editor().Text() != "2" {
		t.Errorf("active text = %q", a.Editor().Text())
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	cfg, _ := testConfig(t)
	a, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	// end of input quits and saves
	if err := a.Run(context.Background(), strings.NewReader("insert scratch"), &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	b, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Editor().Text(); got != "scratch" {
		t.Errorf("restored text = %q", got)
	}
}

func TestRunShowsErrors(t *testing.T) {
	cfg, dir := testConfig(t)
	cfg.Run.Command = `echo "  File \"$QUILL_FILE\", line 2, in <module>" >&2; exit 1`
	doc := filepath.Join(dir, "boom.py")
	writeFile(t, doc, "a = 1\nb()\n")

	a, err := NewApp(cfg, []string{doc})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Run(context.Background(), strings.NewReader("run\nnext"), &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	trace := a.Editor().Trace()
	if trace == nil || len(trace.Locations) != 1 || trace.Locations[0].Path != doc {
		t.Fatalf("trace = %+v", trace)
	}
	if a.Editor().Mode() != mode.Normal || a.Editor().Cursor() != (types.Position{Line: 2}) {
		t.Errorf("mode %s cursor %s", a.Editor().Mode(), a.Editor().Cursor())
	}
}
