package core

// Direction is a single cursor step.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Cursor is the viewport-relative cursor. Row counts from the first visible
// line; Scroll is the absolute row of that line.
type Cursor struct {
	Position Position // Viewport-relative column and row
	Scroll   int      // Absolute row shown at the top of the viewport
	Height   int      // Number of visible rows
}

// NewCursor returns a cursor at the top of a viewport of the given height.
func NewCursor(height int) Cursor {
	return Cursor{Height: max(height, 1)}
}

// LineNumber returns the cursor's absolute row.
func (c Cursor) LineNumber() int {
	return c.Scroll + c.Position.Row
}

// Absolute returns the cursor position in document coordinates.
func (c Cursor) Absolute() Position {
	return Position{Row: c.LineNumber(), Col: c.Position.Col}
}

// IndexInBuffer returns the rune offset under the cursor.
func (c Cursor) IndexInBuffer(buffer *Buffer) (int, error) {
	return buffer.OffsetOf(c.Position.Col, c.LineNumber())
}

// Clamp restores the cursor invariants against the current buffer: the row
// stays inside the document and the column inside the line's content.
func (c *Cursor) Clamp(buffer *Buffer) {
	if c.Height < 1 {
		c.Height = 1
	}
	c.Scroll = max(c.Scroll, 0)
	c.Position.Row = min(max(c.Position.Row, 0), c.Height-1)

	if last := buffer.LineCount() - 1; c.LineNumber() > last {
		c.Position.Row = min(last, c.Height-1)
		c.Scroll = last - c.Position.Row
	}

	c.clampCol(buffer)
}

func (c *Cursor) clampCol(buffer *Buffer) {
	lineLen := buffer.ContentLength(c.LineNumber())
	if c.Position.Col > lineLen {
		c.Position.Col = lineLen
	}
	if c.Position.Col < 0 {
		c.Position.Col = 0
	}
}

// SetHeight resizes the viewport, scrolling so the cursor's line stays visible.
func (c *Cursor) SetHeight(height int) {
	c.Height = max(height, 1)
	if c.Position.Row >= c.Height {
		c.Scroll += c.Position.Row - c.Height + 1
		c.Position.Row = c.Height - 1
	}
}

// Move steps the cursor once in dir. A refused step returns one of the
// boundary errors and leaves the cursor unchanged.
func (c *Cursor) Move(buffer *Buffer, dir Direction) error {
	switch dir {
	case Up:
		return c.MoveUp(buffer)
	case Down:
		return c.MoveDown(buffer)
	case Left:
		return c.MoveLeft(buffer)
	case Right:
		return c.MoveRight(buffer)
	}
	return nil
}

// MoveUp scrolls when the cursor is on the first visible row.
func (c *Cursor) MoveUp(buffer *Buffer) error {
	if c.LineNumber() <= 0 {
		return ErrStartOfBuffer
	}

	if c.Position.Row == 0 {
		c.Scroll--
	} else {
		c.Position.Row--
	}

	c.clampCol(buffer)
	return nil
}

// MoveDown scrolls when the cursor is on the last visible row.
func (c *Cursor) MoveDown(buffer *Buffer) error {
	if c.LineNumber() >= buffer.LastRow() {
		return ErrEndOfBuffer
	}

	c.advance()
	c.clampCol(buffer)
	return nil
}

func (c *Cursor) advance() {
	if c.Position.Row >= c.Height-1 {
		c.Scroll++
	} else {
		c.Position.Row++
	}
}

func (c *Cursor) MoveLeft(buffer *Buffer) error {
	if c.Position.Col <= 0 {
		return ErrStartOfLine
	}
	c.Position.Col--
	c.clampCol(buffer)
	return nil
}

// MoveRight never wraps onto the next line.
func (c *Cursor) MoveRight(buffer *Buffer) error {
	if c.Position.Col >= buffer.ContentLength(c.LineNumber()) {
		return ErrEndOfLine
	}
	c.Position.Col++
	return nil
}

// MoveToLineStart moves the cursor to column 0.
func (c *Cursor) MoveToLineStart() {
	c.Position.Col = 0
}

// MoveToLineEnd moves the cursor after the last rune of the line's content.
func (c *Cursor) MoveToLineEnd(buffer *Buffer) {
	c.Position.Col = buffer.ContentLength(c.LineNumber())
}
