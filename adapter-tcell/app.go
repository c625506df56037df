package adapter_tcell

import (
	"errors"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ionut-t/hue/core"
	"github.com/ionut-t/hue/render"
)

// App drives an editor on a tcell screen: block for an event, apply it,
// redraw, flush.
type App struct {
	screen   tcell.Screen
	editor   *core.Editor
	indexer  render.Indexer
	renderer *render.Renderer
}

func New(screen tcell.Screen, editor *core.Editor, indexer render.Indexer, renderer *render.Renderer) *App {
	return &App{
		screen:   screen,
		editor:   editor,
		indexer:  indexer,
		renderer: renderer,
	}
}

// Run takes over the terminal until Escape is pressed.
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer a.screen.Fini()

	a.screen.SetStyle(tcell.StyleDefault)
	a.screen.SetCursorStyle(tcell.CursorStyleBlinkingBar)

	return a.Loop()
}

// Loop runs the event loop on an initialised screen.
func (a *App) Loop() error {
	_, height := a.screen.Size()
	a.editor.Resize(height)
	a.draw()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}

		quit, err := a.handle(ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		a.draw()
	}
}

func (a *App) handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		_, height := ev.Size()
		a.editor.Resize(height)
		a.screen.Sync()

	case *tcell.EventKey:
		key, ok := convertKey(ev)
		if !ok {
			return false, nil
		}

		signal, err := a.editor.HandleKey(key)
		if err != nil {
			var editorErr *core.Error
			if !errors.As(err, &editorErr) {
				return false, err
			}
			log.Printf("tcell: %v", err)
		}

		if msg := core.Message(signal); msg != "" {
			log.Printf("tcell: %s", msg)
		}
		if _, ok := signal.(core.QuitSignal); ok {
			return true, nil
		}
	}

	return false, nil
}

func (a *App) draw() {
	width, height := a.screen.Size()
	frame := a.renderer.Draw(a.editor, a.indexer, width, height)

	a.screen.Clear()
	for _, span := range frame.Spans {
		a.drawSpan(span)
	}

	a.screen.ShowCursor(frame.Cursor.Col, frame.Cursor.Row)
	a.screen.Show()
}

// drawSpan puts a span on screen one cell at a time. Zero-width runes are
// attached to the preceding cell as combining runes.
func (a *App) drawSpan(span render.Span) {
	style := styleFor(span.Slot)

	var (
		x         = span.X
		cellX     = -1
		primary   rune
		combining []rune
	)
	flush := func() {
		if cellX >= 0 {
			a.screen.SetContent(cellX, span.Y, primary, combining, style)
		}
	}

	for _, r := range span.Text {
		w := runewidth.RuneWidth(r)
		if w > 0 {
			flush()
			cellX, primary, combining = x, r, nil
			x += w
			continue
		}

		switch {
		case cellX >= 0:
			combining = append(combining, r)
		case x > 0:
			// The base rune closed the previous span.
			prev, prevCombining, prevStyle, _ := a.screen.GetContent(x-1, span.Y)
			a.screen.SetContent(x-1, span.Y, prev, append(append([]rune(nil), prevCombining...), r), prevStyle)
		}
	}
	flush()
}

func styleFor(slot int) tcell.Style {
	if slot == render.Untagged {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.PaletteColor(render.Palette[slot]))
}

// convertKey maps a tcell key event onto the editor's key model. Keys the
// editor has no use for report false.
func convertKey(ev *tcell.EventKey) (core.KeyEvent, bool) {
	key := core.KeyEvent{}

	mods := ev.Modifiers()
	if mods&tcell.ModCtrl != 0 {
		key.Modifiers |= core.ModCtrl
	}
	if mods&tcell.ModAlt != 0 {
		key.Modifiers |= core.ModAlt
	}
	if mods&tcell.ModShift != 0 {
		key.Modifiers |= core.ModShift
	}

	switch ev.Key() {
	case tcell.KeyRune:
		key.Rune = ev.Rune()
	case tcell.KeyEnter:
		key.Key = core.KeyEnter
	case tcell.KeyTab:
		key.Key = core.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		key.Key = core.KeyBackspace
	case tcell.KeyEscape:
		key.Key = core.KeyEscape
	case tcell.KeyUp:
		key.Key = core.KeyUp
	case tcell.KeyDown:
		key.Key = core.KeyDown
	case tcell.KeyLeft:
		key.Key = core.KeyLeft
	case tcell.KeyRight:
		key.Key = core.KeyRight
	case tcell.KeyHome:
		key.Key = core.KeyHome
	case tcell.KeyEnd:
		key.Key = core.KeyEnd
	case tcell.KeyPgUp:
		key.Key = core.KeyPageUp
	case tcell.KeyPgDn:
		key.Key = core.KeyPageDown
	case tcell.KeyDelete:
		key.Key = core.KeyDelete
	case tcell.KeyCtrlS:
		key.Rune = 's'
		key.Modifiers |= core.ModCtrl
	default:
		return key, false
	}

	return key, true
}
