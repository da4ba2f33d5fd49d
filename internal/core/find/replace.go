package find

import (
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/quill/internal/logger"
	"github.com/bethropolis/quill/internal/types"
)

// BeginReplace arms a replace session for the current search.
// Replacing a word by itself is refused with ErrSameWord and changes nothing.
func (m *Manager) BeginReplace(newWord string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.matches) == 0 {
		return ErrNoSearch
	}
	if newWord == m.query {
		return ErrSameWord
	}
	m.newWord = newWord
	m.overlap = -1
	if i := strings.Index(newWord, m.query); i >= 0 {
		m.overlap = utf8.RuneCountInString(newWord[:i])
	}
	m.remaining = len(m.matches)
	m.replacing = true
	logger.DebugTagf("replace", "replace %q with %q, overlap %d, %d matches", m.query, newWord, m.overlap, m.remaining)
	return nil
}

// NewWord returns the pending replacement text.
func (m *Manager) NewWord() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.newWord
}

// Replacing reports whether a replace session is armed.
func (m *Manager) Replacing() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.replacing
}

// Remaining returns how many matches are still scheduled for replacement.
func (m *Manager) Remaining() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.remaining
}

// rescanLocked rebuilds the match set for a replace session. When the
// replacement contains the query, a candidate that sits inside text equal
// to the replacement (found by stepping back by the overlap index) is an
// earlier substitution and is skipped.
func (m *Manager) rescanLocked() []types.Range {
	if m.overlap < 0 {
		return m.scan(m.query)
	}

	oldLen := utf8.RuneCountInString(m.query)
	newLen := utf8.RuneCountInString(m.newWord)
	var matches []types.Range
	pos := types.Start
	for {
		p, ok := m.buf.Search(m.query, pos)
		if !ok {
			break
		}
		var next types.Position
		start := m.advance(p, -m.overlap)
		span, err := m.buf.Read(types.Range{Start: start, End: m.advance(start, newLen)})
		if err == nil && span == m.newWord {
			next = m.advance(start, newLen+1)
		} else {
			matches = append(matches, types.Range{Start: p, End: m.advance(p, oldLen)})
			next = m.advance(p, oldLen+1)
		}
		if !pos.Less(next) {
			break
		}
		pos = next
	}
	return matches
}

// ReplaceCurrent substitutes the found match and moves the cursor to the
// next match after the inserted text. done is true once no scheduled match
// remains, at which point the search session has been stopped. When the
// found range no longer holds the query the session stops with
// ErrStaleMatches.
func (m *Manager) ReplaceCurrent() (done bool, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.replacing {
		return false, ErrNotReplacing
	}

	target := m.cursor
	if text, err := m.buf.Read(target); !m.found || err != nil || text != m.query {
		logger.Warnf("replace: %v no longer holds %q, stopping", target, m.query)
		m.resetLocked()
		return true, ErrStaleMatches
	}

	if err := m.buf.Delete(target); err != nil {
		return false, err
	}
	end, err := m.buf.Insert(target.Start, m.newWord)
	if err != nil {
		return false, err
	}

	m.matches = m.rescanLocked()
	m.remaining = min(m.remaining-1, len(m.matches))
	if m.remaining <= 0 || len(m.matches) == 0 {
		m.resetLocked()
		return true, nil
	}
	m.cursor = m.matches[0]
	for _, r := range m.matches {
		if !r.Start.Less(end) {
			m.cursor = r
			break
		}
	}
	return false, nil
}

// ReplaceAll replaces every match scheduled when the session was armed.
// It returns the number of substitutions made.
func (m *Manager) ReplaceAll() (int, error) {
	count := m.Remaining()
	if !m.Replacing() {
		return 0, ErrNotReplacing
	}
	replaced := 0
	for i := 0; i < count; i++ {
		done, err := m.ReplaceCurrent()
		if err != nil {
			return replaced, err
		}
		replaced++
		if done {
			break
		}
	}
	return replaced, nil
}
