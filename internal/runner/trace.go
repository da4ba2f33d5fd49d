package runner

import (
	"strconv"
	"strings"
)

const (
	fileMarker = `File "`
	lineMarker = "line "
)

// Location is one link target of an error trace.
type Location struct {
	Path string
	Line int
}

// TraceLine is one line of captured stderr. Link indexes Trace.Locations
// when the line carries a file and line marker, and is -1 otherwise.
type TraceLine struct {
	Text string
	Link int
}

// Trace is the parsed error stream of a failed run.
type Trace struct {
	Lines     []TraceLine
	Locations []Location
	current   int
}

// ParseLocation extracts the path and line number of a line such as
//
//	File "/tmp/x.py", line 3, in <module>
//
// by locating the two markers.
func ParseLocation(line string) (Location, bool) {
	i := strings.Index(line, fileMarker)
	if i < 0 {
		return Location{}, false
	}
	rest := line[i+len(fileMarker):]
	end := strings.IndexByte(rest, '"')
	if end <= 0 {
		return Location{}, false
	}
	path := rest[:end]
	rest = rest[end+1:]

	j := strings.Index(rest, lineMarker)
	if j < 0 {
		return Location{}, false
	}
	digits := rest[j+len(lineMarker):]
	n := 0
	for n < len(digits) && digits[n] >= '0' && digits[n] <= '9' {
		n++
	}
	num, err := strconv.Atoi(digits[:n])
	if err != nil || num < 1 {
		return Location{}, false
	}
	return Location{Path: path, Line: num}, true
}

// ParseTrace splits stderr into lines and links every line that names a
// location. Other lines pass through as plain text.
func ParseTrace(stderr string) *Trace {
	t := &Trace{current: -1}
	stderr = strings.TrimRight(stderr, "\n")
	if stderr == "" {
		return t
	}
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimRight(line, "\r")
		tl := TraceLine{Text: line, Link: -1}
		if loc, ok := ParseLocation(line); ok {
			tl.Link = len(t.Locations)
			t.Locations = append(t.Locations, loc)
		}
		t.Lines = append(t.Lines, tl)
	}
	return t
}

// Text renders the trace as shown in the error view.
func (t *Trace) Text() string {
	var b strings.Builder
	for i, l := range t.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text)
	}
	return b.String()
}

// Empty reports whether the trace has no links.
func (t *Trace) Empty() bool { return t == nil || len(t.Locations) == 0 }

// LinkAt returns the link on 1-based display line n, if any.
func (t *Trace) LinkAt(n int) (Location, bool) {
	if t == nil || n < 1 || n > len(t.Lines) || t.Lines[n-1].Link < 0 {
		return Location{}, false
	}
	return t.Locations[t.Lines[n-1].Link], true
}

// Current returns the highlighted link.
func (t *Trace) Current() (Location, bool) {
	if t.Empty() || t.current < 0 {
		return Location{}, false
	}
	return t.Locations[t.current], true
}

// Next highlights and returns the following link, wrapping to the first.
func (t *Trace) Next() (Location, bool) {
	if t.Empty() {
		return Location{}, false
	}
	t.current = (t.current + 1) % len(t.Locations)
	return t.Locations[t.current], true
}

// Select highlights link i.
func (t *Trace) Select(i int) (Location, bool) {
	if t.Empty() || i < 0 || i >= len(t.Locations) {
		return Location{}, false
	}
	t.current = i
	return t.Locations[i], true
}

// Reset drops the highlight.
func (t *Trace) Reset() {
	if t != nil {
		t.current = -1
	}
}
