package core

import (
	"errors"
	"fmt"
	"log"
	"unicode"
)

// Position represents a location in the text buffer. Depending on the caller
// the row is absolute or relative to the viewport.
type Position struct {
	Row int // Zero-indexed row (line number)
	Col int // Zero-indexed column (rune index in the line)
}

// Editor applies key events to a buffer and its cursor and owns persistence.
type Editor struct {
	buffer  *Buffer
	cursor  Cursor
	path    string
	storage Storage
}

// New creates an editor for buffer, saved to path through storage, showing
// height rows.
func New(buffer *Buffer, path string, storage Storage, height int) *Editor {
	if buffer == nil {
		buffer = NewBuffer()
	}
	if storage == nil {
		storage = FileStorage{}
	}

	e := &Editor{
		buffer:  buffer,
		cursor:  NewCursor(height),
		path:    path,
		storage: storage,
	}
	e.cursor.Clamp(buffer)
	return e
}

func (e *Editor) Buffer() *Buffer { return e.buffer }

func (e *Editor) Cursor() Cursor { return e.cursor }

func (e *Editor) Path() string { return e.path }

// Resize changes the number of visible rows.
func (e *Editor) Resize(height int) {
	e.cursor.SetHeight(height)
	e.cursor.Clamp(e.buffer)
}

// HandleKey applies one key event. Boundary moves are silent no-ops; the
// returned error is either a failed save or an internal-consistency fault.
func (e *Editor) HandleKey(key KeyEvent) (Signal, error) {
	if key.Kind == KeyRelease {
		return nil, nil
	}

	signal, err := e.apply(key)
	e.cursor.Clamp(e.buffer)

	if errors.Is(err, ErrOutOfRange) {
		log.Printf("editor: %s on %s at %+v: %v", key, e.path, e.cursor.Absolute(), err)
		return signal, newError(ErrOutOfRangeId, err)
	}
	return signal, err
}

func (e *Editor) apply(key KeyEvent) (Signal, error) {
	if key.Modifiers&ModCtrl != 0 && unicode.ToLower(key.Rune) == 's' {
		return e.Save()
	}

	switch key.Key {
	case KeyEscape:
		return QuitSignal{unsaved: e.buffer.Modified()}, nil
	case KeyUp:
		_ = e.cursor.MoveUp(e.buffer)
	case KeyDown:
		_ = e.cursor.MoveDown(e.buffer)
	case KeyLeft:
		_ = e.cursor.MoveLeft(e.buffer)
	case KeyRight:
		_ = e.cursor.MoveRight(e.buffer)
	case KeyHome:
		e.cursor.MoveToLineStart()
	case KeyEnd:
		e.cursor.MoveToLineEnd(e.buffer)
	case KeyPageUp:
		e.repeat(e.cursor.MoveUp)
	case KeyPageDown:
		e.repeat(e.cursor.MoveDown)
	case KeyEnter:
		return nil, e.insertLineBreak()
	case KeyBackspace:
		return nil, e.backspace()
	case KeyDelete:
		return nil, e.deleteForward()
	case KeyTab:
		return nil, e.insertChar('\t')
	default:
		if key.Rune != 0 && key.Modifiers&(ModCtrl|ModAlt) == 0 {
			return nil, e.insertChar(key.Rune)
		}
	}
	return nil, nil
}

func (e *Editor) repeat(move func(*Buffer) error) {
	for n := max(e.cursor.Height-1, 1); n > 0; n-- {
		if move(e.buffer) != nil {
			return
		}
	}
}

func (e *Editor) insertChar(r rune) error {
	idx, err := e.cursor.IndexInBuffer(e.buffer)
	if err != nil {
		return err
	}
	if err := e.buffer.InsertChar(idx, r); err != nil {
		return err
	}
	_ = e.cursor.MoveRight(e.buffer)
	return nil
}

// insertLineBreak splits the line at the cursor. The cursor always follows
// onto the new line, even when it is the trailing empty one.
func (e *Editor) insertLineBreak() error {
	idx, err := e.cursor.IndexInBuffer(e.buffer)
	if err != nil {
		return err
	}
	if err := e.buffer.InsertText(idx, Terminator); err != nil {
		return err
	}
	e.cursor.MoveToLineStart()
	e.cursor.advance()
	return nil
}

func (e *Editor) backspace() error {
	row := e.cursor.LineNumber()
	idx, err := e.cursor.IndexInBuffer(e.buffer)
	if err != nil {
		return err
	}

	switch {
	case e.cursor.Position.Col > 0:
		if err := e.buffer.RemoveRange(idx-1, idx); err != nil {
			return err
		}
		_ = e.cursor.MoveLeft(e.buffer)

	case row == 0:
		return nil

	case e.buffer.ContentLength(row) == 0:
		// Removing either terminator next to an empty line drops that line.
		start, end := idx, idx+e.buffer.terminatorWidth(row)
		if start == end {
			start = idx - e.buffer.terminatorWidth(row-1)
		}
		if err := e.buffer.RemoveRange(start, end); err != nil {
			return err
		}
		_ = e.cursor.MoveUp(e.buffer)
		e.cursor.MoveToLineEnd(e.buffer)

	default:
		_ = e.cursor.MoveUp(e.buffer)
		e.cursor.MoveToLineEnd(e.buffer)
		if err := e.buffer.RemoveRange(idx-e.buffer.terminatorWidth(row-1), idx); err != nil {
			return err
		}
	}
	return nil
}

// deleteForward removes the rune under the cursor. At the end of a line it
// joins the next line; at the end of the buffer it does nothing.
func (e *Editor) deleteForward() error {
	row := e.cursor.LineNumber()
	idx, err := e.cursor.IndexInBuffer(e.buffer)
	if err != nil {
		return err
	}

	width := 1
	if e.cursor.Position.Col >= e.buffer.ContentLength(row) {
		width = e.buffer.terminatorWidth(row)
	}
	if width == 0 || idx+width > e.buffer.Len() {
		return nil
	}
	return e.buffer.RemoveRange(idx, idx+width)
}

// Save writes the buffer to its path with single line feeds.
func (e *Editor) Save() (Signal, error) {
	content := e.buffer.Save()
	if err := e.storage.Write(e.path, content); err != nil {
		return nil, newError(ErrFailedToSaveId, fmt.Errorf("save %s: %w", e.path, err))
	}

	e.buffer.MarkSaved()
	log.Printf("editor: wrote %d bytes to %s", len(content), e.path)
	return SaveSignal{path: e.path, bytes: len(content)}, nil
}
