// Package render turns the buffer, cursor and syntax entries into draw
// instructions for the rows currently on screen.
package render

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ionut-t/hue/core"
	"github.com/ionut-t/hue/highlighter"
)

// Untagged marks a span drawn in the terminal's default colour.
const Untagged = -1

// Palette holds ANSI colour indexes: red, dark red, green, dark green,
// yellow, dark yellow, blue, dark blue, magenta, dark magenta, cyan, dark cyan.
var Palette = [...]int{9, 1, 10, 2, 11, 3, 12, 4, 13, 5, 14, 6}

const DefaultTabWidth = 4

// Slot maps a token tag onto the palette.
func Slot(tag int) int {
	n := len(Palette)
	return ((tag % n) + n) % n
}

// Span is a run of text drawn at screen cell (X, Y). Start and End are the
// buffer offsets it was cut from; terminators are never part of a span.
type Span struct {
	X, Y       int
	Text       string
	Slot       int
	Start, End int
}

// Frame is everything needed to paint one screen.
type Frame struct {
	Width, Height int
	Spans         []Span
	Cursor        core.Position // Screen cell of the cursor, Col is x and Row is y
}

type Renderer struct {
	tabWidth int
}

func New(tabWidth int) *Renderer {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return &Renderer{tabWidth: tabWidth}
}

type run struct {
	start, end int
	slot       int
}

// Render produces the frame for rows [cursor.Scroll, cursor.Scroll+height).
// Entries starting outside those rows are dropped; the rest are walked by
// start offset, with untagged spans filling every gap so each visible rune is
// drawn exactly once.
func (r *Renderer) Render(buffer *core.Buffer, cursor core.Cursor, entries []highlighter.Entry, width, height int) Frame {
	frame := Frame{Width: width, Height: height}
	if width <= 0 || height <= 0 {
		return frame
	}

	first := cursor.Scroll
	last := min(first+height, buffer.LineCount())
	if first >= last {
		return frame
	}

	windowStart, err := buffer.OffsetOf(0, first)
	if err != nil {
		return frame
	}
	windowEnd := buffer.Len()
	if last < buffer.LineCount() {
		windowEnd, _ = buffer.OffsetOf(0, last)
	}

	runs := make([]run, 0, len(entries))
	for _, e := range entries {
		if e.Start.Row < first || e.Start.Row >= last {
			continue
		}
		start, err := buffer.OffsetOf(e.Start.Col, e.Start.Row)
		if err != nil {
			continue
		}
		end := start + max(e.End.Col-e.Start.Col, 0)
		runs = append(runs, run{start: start, end: min(end, windowEnd), slot: Slot(e.Tag)})
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].start < runs[j].start })

	window, _ := buffer.Slice(windowStart, windowEnd)
	w := &writer{
		renderer: r,
		window:   window,
		base:     windowStart,
		width:    width,
		frame:    &frame,
	}

	emitted := windowStart
	for _, run := range runs {
		if run.end <= emitted {
			continue
		}
		start := max(run.start, emitted)
		if start > emitted {
			w.emit(emitted, start, Untagged)
		}
		w.emit(start, run.end, run.slot)
		emitted = run.end
	}
	if emitted < windowEnd {
		w.emit(emitted, windowEnd, Untagged)
	}

	line := buffer.Line(cursor.LineNumber())
	col := min(cursor.Position.Col, len(line))
	frame.Cursor = core.Position{
		Row: min(cursor.Position.Row, height-1),
		Col: min(r.cells(line[:col]), width-1),
	}

	return frame
}

// cells is the screen width of runes as the writer lays them out.
func (r *Renderer) cells(runes []rune) int {
	n := 0
	for _, ch := range runes {
		_, w := r.glyph(ch)
		n += w
	}
	return n
}

// glyph returns what is drawn for ch and how many cells it takes. Tabs
// expand to spaces; other control runes would move the terminal cursor and
// are shown as a replacement character. Combining marks take no cell.
func (r *Renderer) glyph(ch rune) (string, int) {
	switch {
	case ch == '\t':
		return strings.Repeat(" ", r.tabWidth), r.tabWidth
	case ch < 0x20 || ch == 0x7f:
		return "�", 1
	}
	return string(ch), runewidth.RuneWidth(ch)
}

// writer cuts buffer ranges into per-row spans and tracks the screen cell the
// next rune lands on.
type writer struct {
	renderer *Renderer
	window   []rune
	base     int
	width    int
	frame    *Frame

	row, x int
}

func (w *writer) emit(start, end, slot int) {
	var (
		text      []byte
		spanX     = w.x
		spanStart = start
	)

	flush := func(at int) {
		if at > spanStart {
			w.frame.Spans = append(w.frame.Spans, Span{
				X:     spanX,
				Y:     w.row,
				Text:  string(text),
				Slot:  slot,
				Start: spanStart,
				End:   at,
			})
		}
		text = text[:0]
	}

	for off := start; off < end; off++ {
		ch := w.window[off-w.base]

		if ch == '\r' && off+1-w.base < len(w.window) && w.window[off+1-w.base] == '\n' {
			flush(off)
			spanStart = off + 1
			continue
		}
		if ch == '\n' {
			flush(off)
			w.row++
			w.x = 0
			spanX = 0
			spanStart = off + 1
			continue
		}

		glyph, cells := w.renderer.glyph(ch)
		switch {
		case cells == 0:
			// Zero-width runes ride on the cell before them, if it was drawn.
			if w.x > 0 && w.x <= w.width {
				text = append(text, glyph...)
			}
		case w.x+cells <= w.width:
			text = append(text, glyph...)
		}
		w.x += cells
	}
	flush(end)
}
