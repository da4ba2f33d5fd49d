// Package clipboard provides the copy/paste collaborator used by the editor.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/quill/internal/logger"
)

// Clipboard stores and returns text.
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *Memory) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// System uses the desktop clipboard and mirrors every write into a
// Memory clipboard, which serves reads when the desktop one fails.
type System struct {
	fallback Memory
}

func (s *System) Write(text string) error {
	_ = s.fallback.Write(text)
	if err := clipboard.WriteAll(text); err != nil {
		logger.Debugf("clipboard: system write failed, keeping internal copy: %v", err)
	}
	return nil
}

func (s *System) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		logger.Debugf("clipboard: system read failed, using internal copy: %v", err)
		return s.fallback.Read()
	}
	return text, nil
}

// New returns the system clipboard when requested and supported,
// otherwise an in-process one.
func New(system bool) Clipboard {
	if system && !clipboard.Unsupported {
		return &System{}
	}
	return &Memory{}
}
