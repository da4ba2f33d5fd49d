package prefs

import (
	"errors"
	"testing"
)

func TestToggleColor(t *testing.T) {
	p := Default()
	fg, bg := p.Colors()
	if fg != DefaultFgDay || bg != DefaultBgDay {
		t.Fatalf("day colors = %s/%s", fg, bg)
	}
	p.ToggleColor()
	fg, bg = p.Colors()
	if p.Current != Night || fg != DefaultFgNight || bg != DefaultBgNight {
		t.Errorf("night colors = %s/%s", fg, bg)
	}
	p.ToggleColor()
	if p.Current != Day {
		t.Errorf("palette = %s, want day", p.Current)
	}
}

func TestSetColorsTargetCurrentPalette(t *testing.T) {
	p := Default()
	p.ToggleColor()
	if err := p.SetForeground("#112233"); err != nil {
		t.Fatal(err)
	}
	if err := p.SetBackground("#445566"); err != nil {
		t.Fatal(err)
	}
	if p.FgNight != "#112233" || p.BgNight != "#445566" {
		t.Errorf("night = %s/%s", p.FgNight, p.BgNight)
	}
	if p.FgDay != DefaultFgDay || p.BgDay != DefaultBgDay {
		t.Error("day palette should be untouched")
	}
	if err := p.SetForeground("red"); !errors.Is(err, ErrBadColor) {
		t.Errorf("err = %v, want ErrBadColor", err)
	}
}

func TestScrollbarBounds(t *testing.T) {
	p := Default()
	steps := 0
	for p.WiderScrollbar() == nil {
		steps++
	}
	if steps != 10 || p.ScrollbarWidth != 100 || p.ElementBorderWidth != 14 {
		t.Errorf("after %d steps width %d border %d", steps, p.ScrollbarWidth, p.ElementBorderWidth)
	}
	if err := p.WiderScrollbar(); !errors.Is(err, ErrScrollbarMax) {
		t.Errorf("err = %v", err)
	}

	p = Default()
	for p.NarrowerScrollbar() == nil {
	}
	if p.ScrollbarWidth > 0 {
		t.Errorf("width = %d, want <= 0", p.ScrollbarWidth)
	}
	if err := p.NarrowerScrollbar(); !errors.Is(err, ErrScrollbarMin) {
		t.Errorf("err = %v", err)
	}
}

func TestPickFont(t *testing.T) {
	tests := []struct {
		name       string
		available  []string
		want       string
		wantRandom bool
		wantErr    bool
	}{
		{"preferred order wins", []string{"DejaVu Sans Mono", "Liberation Mono"}, "Liberation Mono", false, false},
		{"fallback skips unusable", []string{"Dingbats", "Arial"}, "Arial", true, false},
		{"nothing usable", []string{"OpenSymbol"}, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, random, err := PickFont(tt.available)
			if (err != nil) != tt.wantErr || got != tt.want || random != tt.wantRandom {
				t.Errorf("PickFont = %q, %v, %v", got, random, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	p := Prefs{FgDay: "bogus", Current: "dusk"}
	p.Normalize()
	if p.FgDay != DefaultFgDay || p.Current != Day || p.Font.Size != DefaultFontSize {
		t.Errorf("normalized = %+v", p)
	}
	if p.ScrollbarWidth != DefaultScrollbarWidth || p.ElementBorderWidth != DefaultElementBorderWidth {
		t.Errorf("widths = %d/%d", p.ScrollbarWidth, p.ElementBorderWidth)
	}

	narrow := Default()
	for narrow.NarrowerScrollbar() == nil {
	}
	want := narrow
	narrow.Normalize()
	if narrow != want {
		t.Errorf("narrowed prefs changed: %+v", narrow)
	}
}
