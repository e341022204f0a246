package textedit

import "slices"

// buffer is a rune buffer with a line-start index. A line includes its
// trailing '\n', and text ending in '\n' has a final empty line, so a
// buffer always has at least one line.
//
// The index is rebuilt on every edit. Form fields hold a few hundred runes
// at most, which keeps that linear rebuild far below a keystroke budget.
type buffer struct {
	text   []rune
	starts []int
}

func newBuffer(s string) *buffer {
	b := &buffer{text: []rune(s)}
	b.reindex()
	return b
}

func (b *buffer) reindex() {
	b.starts = b.starts[:0]
	b.starts = append(b.starts, 0)
	for i, r := range b.text {
		if r == '\n' {
			b.starts = append(b.starts, i+1)
		}
	}
}

// Len returns the number of runes.
func (b *buffer) Len() int {
	return len(b.text)
}

// LenLines returns the number of lines.
func (b *buffer) LenLines() int {
	return len(b.starts)
}

// LineToChar returns the rune offset where line starts. LenLines maps to
// Len.
func (b *buffer) LineToChar(line int) int {
	if line >= len(b.starts) {
		return len(b.text)
	}
	return b.starts[max(line, 0)]
}

// CharToLine returns the line holding rune offset idx. Offsets at or past
// the end map to the last line.
func (b *buffer) CharToLine(idx int) int {
	idx = min(max(idx, 0), len(b.text))
	line, found := slices.BinarySearch(b.starts, idx)
	if found {
		return line
	}
	return line - 1
}

// Line returns the runes of line, including its trailing '\n'.
func (b *buffer) Line(line int) []rune {
	if line < 0 || line >= len(b.starts) {
		return nil
	}
	return b.text[b.starts[line]:b.LineToChar(line+1)]
}

// lineContentLen returns the length of line without its trailing '\n'.
func (b *buffer) lineContentLen(line int) int {
	l := b.Line(line)
	if n := len(l); n > 0 && l[n-1] == '\n' {
		return n - 1
	}
	return len(l)
}

func (b *buffer) Char(idx int) rune {
	return b.text[idx]
}

func (b *buffer) Insert(idx int, r rune) {
	b.text = slices.Insert(b.text, idx, r)
	b.reindex()
}

// Remove deletes the runes in [start, end).
func (b *buffer) Remove(start, end int) {
	b.text = slices.Delete(b.text, start, end)
	b.reindex()
}

func (b *buffer) Slice(start, end int) string {
	return string(b.text[start:end])
}

func (b *buffer) String() string {
	return string(b.text)
}
