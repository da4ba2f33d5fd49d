// Package prefs holds display preferences that are persisted with the session.
package prefs

import (
	"errors"
	"fmt"
	"regexp"
)

// Palette names the current color set.
type Palette string

const (
	Day   Palette = "day"
	Night Palette = "night"
)

const (
	DefaultBgDay   = "#D3D7CF"
	DefaultFgDay   = "#000000"
	DefaultBgNight = "#000000"
	DefaultFgNight = "#D3D7CF"

	DefaultFontSize     = 12
	DefaultMenuFontSize = 10

	DefaultScrollbarWidth     = 30
	DefaultElementBorderWidth = 4

	MaxScrollbarWidth = 100
	scrollbarStep     = 7
	elementBorderStep = 1
)

// PreferredFonts are tried in order when picking the default font.
var PreferredFonts = []string{
	"Noto Mono",
	"Bitstream Vera Sans Mono",
	"Liberation Mono",
	"Inconsolata",
	"Courier 10 Pitch",
	"DejaVu Sans Mono",
}

// unusableFonts are symbol or fallback families never picked by default.
var unusableFonts = map[string]struct{}{
	"Standard Symbols PS": {},
	"OpenSymbol":          {},
	"Noto Color Emoji":    {},
	"FontAwesome":         {},
	"Dingbats":            {},
	"Droid Sans Fallback": {},
	"D050000L":            {},
}

var (
	ErrScrollbarMax = errors.New("scrollbar already at maximum width")
	ErrScrollbarMin = errors.New("scrollbar already at minimum width")
	ErrBadColor     = errors.New("color must look like #RRGGBB")
	ErrNoFont       = errors.New("no usable font available")
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Font describes a font family and size.
type Font struct {
	Family string `toml:"family"`
	Size   int    `toml:"size"`
}

// Prefs are the persisted display preferences.
type Prefs struct {
	FgDay   string  `toml:"fg_day"`
	BgDay   string  `toml:"bg_day"`
	FgNight string  `toml:"fg_night"`
	BgNight string  `toml:"bg_night"`
	Current Palette `toml:"palette"`

	Font     Font `toml:"font"`
	MenuFont Font `toml:"menu_font"`

	ScrollbarWidth     int `toml:"scrollbar_width"`
	ElementBorderWidth int `toml:"element_border_width"`
}

// Default returns the preferences used when nothing is persisted.
func Default() Prefs {
	return Prefs{
		FgDay:              DefaultFgDay,
		BgDay:              DefaultBgDay,
		FgNight:            DefaultFgNight,
		BgNight:            DefaultBgNight,
		Current:            Day,
		Font:               Font{Family: PreferredFonts[0], Size: DefaultFontSize},
		MenuFont:           Font{Family: PreferredFonts[0], Size: DefaultMenuFontSize},
		ScrollbarWidth:     DefaultScrollbarWidth,
		ElementBorderWidth: DefaultElementBorderWidth,
	}
}

// Colors returns the foreground and background of the current palette.
func (p Prefs) Colors() (fg, bg string) {
	if p.Current == Night {
		return p.FgNight, p.BgNight
	}
	return p.FgDay, p.BgDay
}

// ToggleColor flips between the day and night palettes.
func (p *Prefs) ToggleColor() {
	if p.Current == Day {
		p.Current = Night
	} else {
		p.Current = Day
	}
}

// ChoosePalette selects a palette by name.
func (p *Prefs) ChoosePalette(name Palette) error {
	if name != Day && name != Night {
		return fmt.Errorf("unknown palette %q", name)
	}
	p.Current = name
	return nil
}

// SetForeground changes the text color of the current palette.
func (p *Prefs) SetForeground(color string) error {
	if !colorPattern.MatchString(color) {
		return ErrBadColor
	}
	if p.Current == Night {
		p.FgNight = color
	} else {
		p.FgDay = color
	}
	return nil
}

// SetBackground changes the background color of the current palette.
func (p *Prefs) SetBackground(color string) error {
	if !colorPattern.MatchString(color) {
		return ErrBadColor
	}
	if p.Current == Night {
		p.BgNight = color
	} else {
		p.BgDay = color
	}
	return nil
}

// WiderScrollbar grows the scrollbar unless it reached the maximum.
func (p *Prefs) WiderScrollbar() error {
	if p.ScrollbarWidth >= MaxScrollbarWidth {
		return ErrScrollbarMax
	}
	p.ScrollbarWidth += scrollbarStep
	p.ElementBorderWidth += elementBorderStep
	return nil
}

// NarrowerScrollbar shrinks the scrollbar unless it is already at zero.
func (p *Prefs) NarrowerScrollbar() error {
	if p.ScrollbarWidth <= 0 {
		return ErrScrollbarMin
	}
	p.ScrollbarWidth -= scrollbarStep
	p.ElementBorderWidth -= elementBorderStep
	return nil
}

// PickFont chooses the first preferred family present in available, else
// the first usable available family. random is true in the second case.
func PickFont(available []string) (family string, random bool, err error) {
	usable := make(map[string]struct{}, len(available))
	var first string
	for _, f := range available {
		if _, bad := unusableFonts[f]; bad {
			continue
		}
		if first == "" {
			first = f
		}
		usable[f] = struct{}{}
	}
	for _, f := range PreferredFonts {
		if _, ok := usable[f]; ok {
			return f, false, nil
		}
	}
	if first == "" {
		return "", false, ErrNoFont
	}
	return first, true, nil
}

// Normalize replaces missing or malformed values with defaults.
func (p *Prefs) Normalize() {
	d := Default()
	fix := func(c *string, def string) {
		if !colorPattern.MatchString(*c) {
			*c = def
		}
	}
	fix(&p.FgDay, d.FgDay)
	fix(&p.BgDay, d.BgDay)
	fix(&p.FgNight, d.FgNight)
	fix(&p.BgNight, d.BgNight)
	if p.Current != Day && p.Current != Night {
		p.Current = Day
	}
	if p.Font.Family == "" || p.Font.Size <= 0 {
		p.Font = d.Font
	}
	if p.MenuFont.Family == "" || p.MenuFont.Size <= 0 {
		p.MenuFont = d.MenuFont
	}
	// the scrollbar steps never bring both widths to zero together
	if p.ScrollbarWidth == 0 && p.ElementBorderWidth == 0 {
		p.ScrollbarWidth = d.ScrollbarWidth
		p.ElementBorderWidth = d.ElementBorderWidth
	}
}
