package core

import (
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/prefs"
)

// ToggleColor switches between the day and night palettes.
func (e *Editor) ToggleColor() prefs.Palette {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefs.ToggleColor()
	logger.Debugf("palette now %s", e.prefs.Current)
	return e.prefs.Current
}

// SetForeground changes the text color of the current palette.
func (e *Editor) SetForeground(color string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prefs.SetForeground(color); err != nil {
		return e.reject(err)
	}
	return nil
}

// SetBackground changes the background color of the current palette.
func (e *Editor) SetBackground(color string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prefs.SetBackground(color); err != nil {
		return e.reject(err)
	}
	return nil
}

// WiderScrollbar grows the scrollbar; at the maximum it only rings the bell.
func (e *Editor) WiderScrollbar() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prefs.WiderScrollbar(); err != nil {
		e.notifier.Bell()
		return err
	}
	return nil
}

// NarrowerScrollbar shrinks the scrollbar; at zero it only rings the bell.
func (e *Editor) NarrowerScrollbar() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prefs.NarrowerScrollbar(); err != nil {
		e.notifier.Bell()
		return err
	}
	return nil
}

// ChooseFont sets the text and menu font family from the fonts available
// on the system, keeping the sizes.
func (e *Editor) ChooseFont(available []string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	family, random, err := prefs.PickFont(available)
	if err != nil {
		return "", e.reject(err)
	}
	if random {
		logger.Infof("no preferred font found, using %s", family)
	}
	e.prefs.Font.Family = family
	e.prefs.MenuFont.Family = family
	return family, nil
}
