// Package textedit implements the reflowing text editor behind form text
// boxes. Text is soft-wrapped by storing '\n' wherever a line would exceed
// the box width; the editor keeps every line except the last as the
// longest prefix that fits.
package textedit

import (
	"strings"
	"time"

	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// Direction is a cursor movement direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Editor holds text, a cursor and the box the text is wrapped to.
// Out-of-range edits and movements are silent no-ops.
type Editor struct {
	buf        *buffer
	cursor     int
	size       geom.Size
	params     backend.TextParams
	selectedAt time.Time
}

// New creates an editor over text wrapped to size. The cursor starts at 0.
func New(text string, size geom.Size) *Editor {
	return &Editor{
		buf:    newBuffer(text),
		size:   size,
		params: backend.DefaultTextParams(),
	}
}

// Text returns the content including soft breaks.
func (e *Editor) Text() string {
	return e.buf.String()
}

// Value returns the content with soft breaks removed.
func (e *Editor) Value() string {
	return strings.ReplaceAll(e.buf.String(), "\n", "")
}

// Lines returns the content split at breaks.
func (e *Editor) Lines() []string {
	return strings.Split(e.buf.String(), "\n")
}

func (e *Editor) Len() int {
	return e.buf.Len()
}

func (e *Editor) Cursor() int {
	return e.cursor
}

// SetCursor moves the cursor, clamped to [0, Len].
func (e *Editor) SetCursor(idx int) {
	e.cursor = min(max(idx, 0), e.buf.Len())
}

func (e *Editor) Size() geom.Size {
	return e.size
}

// SetSize changes the wrap box. Existing text is not reflowed until the
// next edit.
func (e *Editor) SetSize(size geom.Size) {
	e.size = size
}

func (e *Editor) Params() backend.TextParams {
	return e.params
}

func (e *Editor) SetParams(p backend.TextParams) {
	if p.Scale <= 0 {
		p.Scale = 1
	}
	e.params = p
}

// Select marks the editor focused at now.
func (e *Editor) Select(now time.Time) {
	e.selectedAt = now
}

func (e *Editor) Deselect() {
	e.selectedAt = time.Time{}
}

func (e *Editor) Selected() bool {
	return !e.selectedAt.IsZero()
}

// SelectedAt returns when the editor gained focus, or the zero time.
func (e *Editor) SelectedAt() time.Time {
	return e.selectedAt
}

// InsertChar inserts ch at the cursor. It refuses the insert when the
// cursor line would overflow and one more line would not fit the box.
func (e *Editor) InsertChar(ch rune, m backend.Metrics) bool {
	scale := e.params.Scale
	line := e.buf.CharToLine(e.cursor)
	lineRunes := e.buf.Line(line)

	newWidth := m.CharSize(ch, scale).Width + m.Measure(string(lineRunes), scale).Width
	overflow := newWidth > e.size.Width
	if overflow && float32(1+e.buf.LenLines())*m.LineHeight(scale) > e.size.Height {
		return false
	}

	pos := e.cursor - e.buf.LineToChar(line)
	atEnd := e.cursor == e.buf.Len()
	insertBreak := overflow && atEnd && pos > 0 && pos == len(lineRunes)

	e.buf.Insert(e.cursor, ch)
	e.cursor++
	if insertBreak {
		e.buf.Insert(e.cursor-1, '\n')
		e.cursor++
	}
	// Typing at the start of a line may let it join the line above.
	if pos == 0 && line > 0 && e.Reflow(line-1, m) {
		return true
	}
	if e.cursor < e.buf.Len() {
		e.Reflow(line, m)
	}
	return true
}

// DeleteChar removes the rune before the cursor. At the start of a wrapped
// line the cursor first steps back over the break, so the last visible
// character of the previous line is removed.
func (e *Editor) DeleteChar(m backend.Metrics) bool {
	if e.buf.Len() == 0 {
		return false
	}
	line := e.buf.CharToLine(e.cursor)
	if line > 0 && e.cursor == e.buf.LineToChar(line) {
		e.cursor--
	}
	if e.cursor == 0 {
		return false
	}

	e.buf.Remove(e.cursor-1, e.cursor)
	e.cursor--
	if e.cursor < e.buf.Len() {
		edited := e.buf.CharToLine(e.cursor)
		if edited == 0 || !e.Reflow(edited-1, m) {
			e.Reflow(edited, m)
		}
	}
	return true
}

// MoveCursor moves the cursor one step. Left at a line start and Right at
// a line end take an extra step over the break.
func (e *Editor) MoveCursor(dir Direction) bool {
	line := e.buf.CharToLine(e.cursor)
	pos := e.cursor - e.buf.LineToChar(line)

	switch dir {
	case Left:
		if e.cursor == 0 {
			return false
		}
		step := 1
		if pos == 0 {
			step = 2
		}
		e.cursor = max(e.cursor-step, 0)
	case Right:
		if e.cursor >= e.buf.Len() {
			return false
		}
		step := 1
		if pos == e.buf.lineContentLen(line) && line < e.buf.LenLines()-1 {
			step = 2
		}
		e.cursor = min(e.cursor+step, e.buf.Len())
	case Up:
		if line == 0 {
			return false
		}
		e.cursor = e.buf.LineToChar(line-1) + min(pos, e.buf.lineContentLen(line-1))
	case Down:
		if line >= e.buf.LenLines()-1 {
			return false
		}
		e.cursor = e.buf.LineToChar(line+1) + min(pos, e.buf.lineContentLen(line+1))
	default:
		return false
	}
	return true
}

// HoverText maps a point in box coordinates to a rune offset. Points
// outside the box or below the last line yield false. Otherwise the result
// is the offset after the last glyph whose right edge is at or left of the
// point, or the line start when no glyph qualifies.
func (e *Editor) HoverText(p geom.Point, m backend.Metrics) (int, bool) {
	box := geom.Rect{Width: e.size.Width, Height: e.size.Height}
	if !box.Contains(p) {
		return 0, false
	}
	lh := m.LineHeight(e.params.Scale)
	if lh <= 0 {
		return 0, false
	}
	line := int(p.Y / lh)
	if line >= e.buf.LenLines() {
		return 0, false
	}

	start := e.buf.LineToChar(line)
	end := start + e.buf.lineContentLen(line)
	hit := start
	var x float32
	for i := start + 1; i <= end; i++ {
		x += m.CharSizeWithAdvance(e.buf.Char(i-1), e.params.Scale).Width
		if x > p.X {
			break
		}
		hit = i
	}
	return hit, true
}

// NeedsFormat reports whether the line at start overflows the box, or
// whether the first glyph of the following line would fit on it.
func (e *Editor) NeedsFormat(start int, m backend.Metrics) bool {
	if start < 0 || start >= e.buf.LenLines() {
		return false
	}
	scale := e.params.Scale
	width := m.Measure(string(e.buf.Line(start)), scale).Width
	if width > e.size.Width {
		return true
	}
	if start < e.buf.LenLines()-1 {
		next := e.buf.Line(start + 1)
		if len(next) > 0 {
			return width+m.CharSize(next[0], scale).Width <= e.size.Width
		}
	}
	return false
}

type lineBreak struct {
	idx    int
	insert bool
}

// Reflow rewraps text from line start to the end. Breaks are collected in
// one pass and applied as a batch; the cursor shifts with edits before it.
// Reports whether a reflow ran.
func (e *Editor) Reflow(start int, m backend.Metrics) bool {
	if !e.NeedsFormat(start, m) {
		return false
	}
	scale := e.params.Scale
	width := e.size.Width

	var edits []lineBreak
	var x float32
	for i := e.buf.LineToChar(start); i < e.buf.Len(); i++ {
		c := e.buf.Char(i)
		if c == '\n' {
			// A break stays when the next glyph would not fit after the
			// text before it; a trailing break has nothing to join.
			if i+1 >= e.buf.Len() || x+m.CharSize(e.buf.Char(i+1), scale).Width > width {
				x = 0
				continue
			}
			edits = append(edits, lineBreak{idx: i})
			continue
		}
		if x > 0 && x+m.CharSize(c, scale).Width > width {
			edits = append(edits, lineBreak{idx: i, insert: true})
			x = 0
		}
		x += m.CharSizeWithAdvance(c, scale).Width
	}

	offset := 0
	for _, ed := range edits {
		idx := ed.idx + offset
		if ed.insert {
			e.buf.Insert(idx, '\n')
			if idx < e.cursor {
				e.cursor++
			}
			offset++
			continue
		}
		e.buf.Remove(idx, idx+1)
		if idx < e.cursor {
			e.cursor--
		}
		offset--
	}
	return true
}

// HandleKey applies an editing key. Printable runes insert, Backspace
// deletes, arrows and Home/End move. Other keys are left to the caller.
func (e *Editor) HandleKey(ev terminal.KeyEvent, m backend.Metrics) bool {
	switch ev.Key {
	case terminal.KeyRune:
		ch, ok := ev.Char()
		if !ok {
			return false
		}
		e.InsertChar(ch, m)
	case terminal.KeyBackspace:
		e.DeleteChar(m)
	case terminal.KeyLeft:
		e.MoveCursor(Left)
	case terminal.KeyRight:
		e.MoveCursor(Right)
	case terminal.KeyUp:
		e.MoveCursor(Up)
	case terminal.KeyDown:
		e.MoveCursor(Down)
	case terminal.KeyHome:
		e.cursor = e.buf.LineToChar(e.buf.CharToLine(e.cursor))
	case terminal.KeyEnd:
		line := e.buf.CharToLine(e.cursor)
		e.cursor = e.buf.LineToChar(line) + e.buf.lineContentLen(line)
	default:
		return false
	}
	return true
}

// Draw renders the text at origin and, while selected, the caret.
func (e *Editor) Draw(origin geom.Point, c backend.Canvas) {
	if e.buf.Len() > 0 {
		c.DrawText(e.buf.String(), e.params, geom.NewRect(origin, e.size))
	}
	if !e.Selected() {
		return
	}
	line := e.buf.CharToLine(e.cursor)
	lh := c.LineHeight(e.params.Scale)
	before := e.buf.Slice(e.buf.LineToChar(line), e.cursor)
	top := origin.Add(geom.Pt(c.Measure(before, e.params.Scale).Width, float32(line)*lh))
	c.DrawLine(top, top.Add(geom.Pt(0, lh)), backend.ColorBlack)
}
