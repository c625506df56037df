package core

import (
	"bytes"
	"unicode/utf8"
)

// Terminator is the in-memory line ending. Files are loaded with every line
// feed widened to this pair and saved with every pair narrowed back.
const Terminator = "\r\n"

const terminatorLen = 2

// Buffer holds the document as runes. lineStarts[i] is the offset of the
// first rune of line i and is rebuilt after every mutation.
type Buffer struct {
	runes      []rune
	lineStarts []int
	saved      string
}

// NewBuffer returns an empty buffer with a single empty line.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.reindex()
	b.MarkSaved()
	return b
}

// Load decodes raw file bytes and widens every line feed to a terminator.
func Load(raw []byte) (*Buffer, error) {
	if !utf8.Valid(raw) {
		return nil, ErrDecode
	}

	src := bytes.Runes(raw)
	runes := make([]rune, 0, len(src)+bytes.Count(raw, []byte{'\n'}))
	for _, r := range src {
		if r == '\n' {
			runes = append(runes, '\r')
		}
		runes = append(runes, r)
	}

	b := &Buffer{runes: runes}
	b.reindex()
	b.MarkSaved()
	return b, nil
}

func (b *Buffer) reindex() {
	b.lineStarts = append(b.lineStarts[:0], 0)
	for i, r := range b.runes {
		if r == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
}

// Len returns the number of runes in the buffer, terminators included.
func (b *Buffer) Len() int {
	return len(b.runes)
}

func (b *Buffer) String() string {
	return string(b.runes)
}

// Slice returns a copy of the runes in [start, end).
func (b *Buffer) Slice(start, end int) ([]rune, error) {
	if err := b.checkRange(start, end); err != nil {
		return nil, err
	}
	out := make([]rune, end-start)
	copy(out, b.runes[start:end])
	return out, nil
}

func (b *Buffer) checkRange(start, end int) error {
	if start < 0 || end > len(b.runes) || start > end {
		return outOfRange("range [%d, %d) in buffer of length %d", start, end, len(b.runes))
	}
	return nil
}

// InsertChar inserts a single rune at offset.
func (b *Buffer) InsertChar(offset int, ch rune) error {
	return b.insert(offset, []rune{ch})
}

// InsertText inserts text at offset as-is.
func (b *Buffer) InsertText(offset int, text string) error {
	return b.insert(offset, []rune(text))
}

func (b *Buffer) insert(offset int, runes []rune) error {
	if offset < 0 || offset > len(b.runes) {
		return outOfRange("offset %d in buffer of length %d", offset, len(b.runes))
	}
	if len(runes) == 0 {
		return nil
	}

	b.runes = append(b.runes, runes...)
	copy(b.runes[offset+len(runes):], b.runes[offset:len(b.runes)-len(runes)])
	copy(b.runes[offset:], runes)
	b.reindex()
	return nil
}

// RemoveRange deletes the runes in [start, end).
func (b *Buffer) RemoveRange(start, end int) error {
	if err := b.checkRange(start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}

	b.runes = append(b.runes[:start], b.runes[end:]...)
	b.reindex()
	return nil
}

// LineCount counts lines the way a rope does: a buffer ending in a terminator
// has a trailing empty line.
func (b *Buffer) LineCount() int {
	return len(b.lineStarts)
}

// LineLength returns the rune length of row including its terminator. The
// final line has none.
func (b *Buffer) LineLength(row int) int {
	if row < 0 || row >= len(b.lineStarts) {
		return 0
	}
	if row == len(b.lineStarts)-1 {
		return len(b.runes) - b.lineStarts[row]
	}
	return b.lineStarts[row+1] - b.lineStarts[row]
}

// ContentLength returns the length of row without its terminator.
func (b *Buffer) ContentLength(row int) int {
	return max(b.LineLength(row)-b.terminatorWidth(row), 0)
}

// terminatorWidth is 2 for a CRLF line end, 1 for a bare line feed inserted
// as text, and 0 for the final line.
func (b *Buffer) terminatorWidth(row int) int {
	n := b.LineLength(row)
	if n == 0 {
		return 0
	}
	end := b.lineStarts[row] + n
	if b.runes[end-1] != '\n' {
		return 0
	}
	if n >= terminatorLen && b.runes[end-2] == '\r' {
		return terminatorLen
	}
	return 1
}

// Line returns a copy of row including its terminator.
func (b *Buffer) Line(row int) []rune {
	if row < 0 || row >= len(b.lineStarts) {
		return nil
	}
	start := b.lineStarts[row]
	out := make([]rune, b.LineLength(row))
	copy(out, b.runes[start:start+len(out)])
	return out
}

// LastRow is the last row the cursor may navigate to. The empty line after a
// final terminator does not count unless it is the only line.
func (b *Buffer) LastRow() int {
	last := len(b.lineStarts) - 1
	if last > 0 && b.LineLength(last) == 0 {
		return last - 1
	}
	return last
}

// OffsetOf translates an absolute (col, row) into a rune offset: the lengths
// of every line before row plus col. Lines after row are never visited.
func (b *Buffer) OffsetOf(col, row int) (int, error) {
	if row < 0 || row >= len(b.lineStarts) {
		return 0, outOfRange("row %d of %d lines", row, len(b.lineStarts))
	}
	if col < 0 || col > b.LineLength(row) {
		return 0, outOfRange("column %d on row %d of length %d", col, row, b.LineLength(row))
	}
	return b.lineStarts[row] + col, nil
}

// PositionOf is the inverse of OffsetOf.
func (b *Buffer) PositionOf(offset int) (Position, error) {
	if offset < 0 || offset > len(b.runes) {
		return Position{}, outOfRange("offset %d in buffer of length %d", offset, len(b.runes))
	}

	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Row: lo, Col: offset - b.lineStarts[lo]}, nil
}

// Save narrows every terminator back to a single line feed.
func (b *Buffer) Save() []byte {
	return []byte(b.savedForm())
}

func (b *Buffer) savedForm() string {
	var sb bytes.Buffer
	sb.Grow(len(b.runes))
	for i := 0; i < len(b.runes); i++ {
		if b.runes[i] == '\r' && i+1 < len(b.runes) && b.runes[i+1] == '\n' {
			continue
		}
		sb.WriteRune(b.runes[i])
	}
	return sb.String()
}

// Text returns the buffer content with single line feeds, the form handed to
// the tokenizer. Rows and columns of visible runes are unchanged by it.
func (b *Buffer) Text() string {
	return b.savedForm()
}

// Modified reports whether the content differs from the last MarkSaved call.
func (b *Buffer) Modified() bool {
	return b.saved != string(b.runes)
}

// MarkSaved records the current content as the saved state.
func (b *Buffer) MarkSaved() {
	b.saved = string(b.runes)
}
