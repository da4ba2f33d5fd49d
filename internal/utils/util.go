package utils

import (
	"strings"
	"unicode/utf8"
)

// DefaultTabWidth is the number of leading spaces collapsed into one tab.
const DefaultTabWidth = 4

// RuneIndexToByteOffset converts a rune index to a byte offset in a string.
// Returns -1 if runeIndex is out of bounds.
func RuneIndexToByteOffset(line string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	currentRune := 0
	for byteOffset := range line {
		if currentRune == runeIndex {
			return byteOffset
		}
		currentRune++
	}
	if currentRune == runeIndex {
		return len(line)
	} // Allow index at the very end
	return -1
}

// ByteOffsetToRuneIndex converts a byte offset to a rune index in a string.
func ByteOffsetToRuneIndex(line string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	return utf8.RuneCountInString(line[:byteOffset])
}

// Tabify renormalizes the leading indentation of one line.
// Inside the indentation every run of spaces between tabs keeps its
// remainder: a run of n spaces becomes n/width tabs followed by n%width spaces.
// The rest of the line is untouched.
func Tabify(line string, width int) string {
	if width <= 0 {
		width = DefaultTabWidth
	}
	stop := 0
	for stop < len(line) && (line[stop] == ' ' || line[stop] == '\t') {
		stop++
	}
	if stop == 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))
	run := 0
	flush := func() {
		b.WriteString(strings.Repeat("\t", run/width))
		b.WriteString(strings.Repeat(" ", run%width))
		run = 0
	}
	for i := 0; i < stop; i++ {
		if line[i] == '\t' {
			flush()
			b.WriteByte('\t')
			continue
		}
		run++
	}
	flush()
	b.WriteString(line[stop:])
	return b.String()
}

// TabifyText applies Tabify to every line of text.
func TabifyText(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = Tabify(l, width)
	}
	return strings.Join(lines, "\n")
}

// LeadingTabs counts the tab characters that start s.
func LeadingTabs(s string) int {
	n := 0
	for n < len(s) && s[n] == '\t' {
		n++
	}
	return n
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
