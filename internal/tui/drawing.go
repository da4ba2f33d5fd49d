// internal/tui/drawing.go
package tui

import (
	"fmt"
	"strconv"

	"github.com/bethropolis/quill/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const (
	tabStop      = 4
	statusHeight = 1
)

// View is one frame: the document as the editor shows it, the status line
// and the open prompt, if any.
type View struct {
	Lines     []string
	Cursor    types.Position
	Selection types.Range
	Selected  bool

	Fg, Bg string // "#rrggbb"

	Status     string
	PromptOpen bool
	Prompt     string
}

// cluster is one user-perceived character of a line.
type cluster struct {
	runes []rune
	col   int // rune index in the line
	x     int // visual column
	width int
}

// layout splits line into grapheme clusters with their visual columns.
// A tab reaches to the next tab stop.
func layout(line string) []cluster {
	var out []cluster
	gr := uniseg.NewGraphemes(line)
	x, col := 0, 0
	for gr.Next() {
		runes := gr.Runes()
		width := gr.Width()
		if runes[0] == '\t' {
			width = tabStop - x%tabStop
		}
		out = append(out, cluster{runes: runes, col: col, x: x, width: width})
		x += width
		col += len(runes)
	}
	return out
}

// visualColumn returns the screen column of rune index col in line.
func visualColumn(line string, col int) int {
	x := 0
	for _, c := range layout(line) {
		if c.col >= col {
			return c.x
		}
		x = c.x + c.width
	}
	return x
}

func within(p types.Position, r types.Range) bool {
	return !p.Less(r.Start) && p.Less(r.End)
}

// scrollTo moves the first visible line so that line is on screen.
func (t *TUI) scrollTo(line, rows, count int) {
	if t.top > count || t.top < 1 {
		t.top = 1
	}
	if line < t.top {
		t.top = line
	}
	if line >= t.top+rows {
		t.top = line - rows + 1
	}
	if t.top < 1 {
		t.top = 1
	}
}

// drawString draws s from x on row y and returns the column after it.
func (t *TUI) drawString(x, y int, s string, style tcell.Style) int {
	width, _ := t.screen.Size()
	gr := uniseg.NewGraphemes(s)
	for gr.Next() && x < width {
		runes := gr.Runes()
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += gr.Width()
	}
	return x
}

// Draw renders v: text rows with a line number gutter, the status line
// below them and the prompt on the last row while one is open.
func (t *TUI) Draw(v View) {
	width, height := t.screen.Size()
	base := tcell.StyleDefault.Foreground(tcell.GetColor(v.Fg)).Background(tcell.GetColor(v.Bg))
	t.screen.SetStyle(base)
	t.screen.Clear()

	rows := height - statusHeight
	if v.PromptOpen {
		rows--
	}
	if rows <= 0 || width <= 0 || len(v.Lines) == 0 {
		t.screen.HideCursor()
		t.screen.Show()
		return
	}
	t.scrollTo(v.Cursor.Line, rows, len(v.Lines))

	gutter := len(strconv.Itoa(len(v.Lines))) + 1
	if gutter >= width {
		gutter = 0
	}
	selStyle := base.Reverse(true)

	for y := 0; y < rows; y++ {
		n := t.top + y
		if n > len(v.Lines) {
			break
		}
		if gutter > 0 {
			style := base.Dim(true)
			if n == v.Cursor.Line {
				style = base.Bold(true)
			}
			t.drawString(0, y, fmt.Sprintf("%*d", gutter-1, n), style)
		}
		for _, c := range layout(v.Lines[n-1]) {
			sx := gutter + c.x
			if sx >= width {
				break
			}
			style := base
			if v.Selected && within(types.Position{Line: n, Col: c.col}, v.Selection) {
				style = selStyle
			}
			if c.runes[0] == '\t' {
				for i := 0; i < c.width && sx+i < width; i++ {
					t.screen.SetContent(sx+i, y, ' ', nil, style)
				}
				continue
			}
			t.screen.SetContent(sx, y, c.runes[0], c.runes[1:], style)
		}
	}

	statusStyle := base.Reverse(true)
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, rows, ' ', nil, statusStyle)
	}
	t.drawString(0, rows, v.Status, statusStyle)

	if v.PromptOpen {
		end := t.drawString(0, rows+1, "> "+v.Prompt, base)
		t.screen.ShowCursor(end, rows+1)
		t.screen.Show()
		return
	}

	line := v.Lines[min(max(v.Cursor.Line, 1), len(v.Lines))-1]
	sx := gutter + visualColumn(line, v.Cursor.Col)
	sy := v.Cursor.Line - t.top
	if sx < width && sy >= 0 && sy < rows {
		t.screen.ShowCursor(sx, sy)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}
