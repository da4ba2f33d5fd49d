package find

import (
	"sync"

	"github.com/bethropolis/quill/internal/buffer"
	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/types"
)

// Manager holds the state of one search session over a buffer:
// the query, the match set and the currently found match.
type Manager struct {
	buf   buffer.Buffer
	mutex sync.RWMutex

	query   string
	matches []types.Range
	cursor  types.Range
	found   bool

	// replace session, see replace.go
	newWord   string
	overlap   int // rune index of query inside newWord, -1 when absent
	remaining int
	replacing bool
}

// NewManager creates a find manager bound to buf.
func NewManager(buf buffer.Buffer) *Manager {
	return &Manager{buf: buf, overlap: -1}
}

// advance moves p forward by n characters, clamping at the end of the buffer.
// A negative n moves backwards and clamps at the start.
func (m *Manager) advance(p types.Position, n int) types.Position {
	off, err := m.buf.Offset(p)
	if err != nil {
		p = m.buf.Clamp(p)
		off, _ = m.buf.Offset(p)
	}
	return m.buf.PositionAt(off + n)
}

// scan collects matches of query left to right. After each hit the scan
// resumes one character past the end of the match, so a match that touches
// or overlaps the previous one is not recorded.
func (m *Manager) scan(query string) []types.Range {
	length := len([]rune(query))
	var matches []types.Range
	pos := types.Start
	for {
		p, ok := m.buf.Search(query, pos)
		if !ok {
			break
		}
		matches = append(matches, types.Range{Start: p, End: m.advance(p, length)})
		next := m.advance(p, length+1)
		if !pos.Less(next) {
			break
		}
		pos = next
	}
	return matches
}

// StartSearch begins a new search session and selects the first match.
// It returns the number of matches.
func (m *Manager) StartSearch(query string) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.resetLocked()
	m.query = query
	if query == "" {
		return 0, ErrEmptyQuery
	}

	m.matches = m.scan(query)
	if len(m.matches) == 0 {
		logger.DebugTagf("search", "no matches for %q", query)
		return 0, ErrNoMatches
	}
	m.cursor = m.matches[0]
	m.found = true
	logger.DebugTagf("search", "%d matches for %q", len(m.matches), query)
	return len(m.matches), nil
}

// ShowNext moves the cursor to the following match, wrapping to the first.
func (m *Manager) ShowNext() (types.Range, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.navigableLocked(); err != nil {
		return m.cursor, err
	}
	last := m.matches[len(m.matches)-1]
	if !m.cursor.Start.Less(last.Start) {
		m.cursor = m.matches[0]
		return m.cursor, nil
	}
	for _, r := range m.matches {
		if !r.Start.Less(m.cursor.End) {
			m.cursor = r
			return m.cursor, nil
		}
	}
	m.cursor = m.matches[0]
	return m.cursor, nil
}

// ShowPrev moves the cursor to the preceding match, wrapping to the last.
func (m *Manager) ShowPrev() (types.Range, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.navigableLocked(); err != nil {
		return m.cursor, err
	}
	if !m.matches[0].Start.Less(m.cursor.Start) {
		m.cursor = m.matches[len(m.matches)-1]
		return m.cursor, nil
	}
	for i := len(m.matches) - 1; i >= 0; i-- {
		if m.matches[i].Start.Less(m.cursor.Start) {
			m.cursor = m.matches[i]
			return m.cursor, nil
		}
	}
	m.cursor = m.matches[len(m.matches)-1]
	return m.cursor, nil
}

func (m *Manager) navigableLocked() error {
	switch {
	case len(m.matches) == 0:
		return ErrNoSearch
	case len(m.matches) == 1:
		return ErrSingleMatch
	}
	return nil
}

// PositionInSet returns the 1-based ordinal of the cursor inside the match
// set, located by position. Zero means the cursor is not on a match.
func (m *Manager) PositionInSet() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.positionInSetLocked()
}

func (m *Manager) positionInSetLocked() int {
	if !m.found {
		return 0
	}
	for i, r := range m.matches {
		if r.Start == m.cursor.Start {
			return i + 1
		}
	}
	return 0
}

// Stop ends the search session and forgets all matches.
func (m *Manager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.resetLocked()
}

func (m *Manager) resetLocked() {
	m.matches = nil
	m.cursor = types.Range{}
	m.found = false
	m.newWord = ""
	m.overlap = -1
	m.remaining = 0
	m.replacing = false
}

// Query returns the query of the last search, kept after Stop for SearchNext.
func (m *Manager) Query() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.query
}

// Matches returns a copy of the current match set.
func (m *Manager) Matches() []types.Range {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]types.Range, len(m.matches))
	copy(out, m.matches)
	return out
}

// Count returns the number of matches in the current set.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.matches)
}

// Cursor returns the currently found match.
func (m *Manager) Cursor() (types.Range, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.cursor, m.found
}

// Active reports whether a search session holds matches.
func (m *Manager) Active() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.matches) > 0
}

// FindFrom returns the next occurrence of the last query at or after from,
// wrapping to the start of the buffer. It does not touch the match set.
func (m *Manager) FindFrom(from types.Position) (types.Range, error) {
	m.mutex.RLock()
	query := m.query
	m.mutex.RUnlock()

	if query == "" {
		return types.Range{}, ErrEmptyQuery
	}
	p, ok := m.buf.Search(query, from)
	if !ok {
		p, ok = m.buf.Search(query, types.Start)
		if !ok {
			return types.Range{}, ErrNoMatches
		}
	}
	return types.Range{Start: p, End: m.advance(p, len([]rune(query)))}, nil
}
