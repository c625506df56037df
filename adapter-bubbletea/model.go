package adapter_bubbletea

import (
	"errors"
	"log"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/ionut-t/hue/core"
	"github.com/ionut-t/hue/render"
)

type Theme struct {
	CursorStyle lipgloss.Style
	// One style per palette slot.
	TokenStyles [len(render.Palette)]lipgloss.Style
}

var DefaultTheme = newDefaultTheme()

func newDefaultTheme() Theme {
	theme := Theme{CursorStyle: lipgloss.NewStyle().Reverse(true)}
	for i, c := range render.Palette {
		theme.TokenStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(c)))
	}
	return theme
}

// SaveMsg reports a completed save.
type SaveMsg struct {
	Path  string
	Bytes int
}

// ErrorMsg carries a failed save or an internal editor fault. The session
// stays open.
type ErrorMsg struct {
	ID    core.ErrorId
	Error string
}

type QuitMsg struct{}

type Model struct {
	editor   *core.Editor
	indexer  render.Indexer
	renderer *render.Renderer
	keyMap   KeyMap
	theme    Theme

	width     int
	height    int
	isFocused bool
}

func New(editor *core.Editor, indexer render.Indexer, renderer *render.Renderer) Model {
	return Model{
		editor:    editor,
		indexer:   indexer,
		renderer:  renderer,
		keyMap:    DefaultKeyMap,
		theme:     DefaultTheme,
		isFocused: true,
	}
}

// WithKeyMap replaces the save and quit bindings.
func (m *Model) WithKeyMap(keyMap KeyMap) {
	m.keyMap = keyMap
}

// WithTheme allows setting a custom theme for the editor.
func (m *Model) WithTheme(theme Theme) {
	m.theme = theme
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.editor.Resize(height)
}

// Focus sets the editor to focused state.
func (m *Model) Focus() {
	m.isFocused = true
}

// Blur sets the editor to unfocused state. Key messages are ignored until
// it is focused again.
func (m *Model) Blur() {
	m.isFocused = false
}

func (m *Model) IsFocused() bool {
	return m.isFocused
}

func (m *Model) GetEditor() *core.Editor {
	return m.editor
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if !m.IsFocused() {
			break
		}

		for _, event := range convertKey(m.keyMap, msg) {
			signal, err := m.editor.HandleKey(event)
			if err != nil {
				cmds = append(cmds, errorCmd(err))
			}

			switch signal := signal.(type) {
			case core.QuitSignal:
				if signal.Value() {
					log.Printf("bubbletea: %s", core.Message(signal))
				}
				return m, func() tea.Msg { return QuitMsg{} }
			case core.SaveSignal:
				path, n := signal.Value()
				log.Printf("bubbletea: %s", core.Message(signal))
				cmds = append(cmds, func() tea.Msg { return SaveMsg{Path: path, Bytes: n} })
			}
		}

	case QuitMsg:
		return m, tea.Quit
	}

	return m, tea.Batch(cmds...)
}

func errorCmd(err error) tea.Cmd {
	log.Printf("bubbletea: %v", err)

	msg := ErrorMsg{Error: err.Error()}
	var editorErr *core.Error
	if errors.As(err, &editorErr) {
		msg.ID = editorErr.ID()
	}
	return func() tea.Msg { return msg }
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	frame := m.renderer.Draw(m.editor, m.indexer, m.width, m.height)

	rows := make([][]render.Span, frame.Height)
	for _, span := range frame.Spans {
		rows[span.Y] = append(rows[span.Y], span)
	}

	lines := make([]string, frame.Height)
	for y, spans := range rows {
		cursorX := -1
		if y == frame.Cursor.Row && m.isFocused {
			cursorX = frame.Cursor.Col
		}
		lines[y] = m.renderRow(spans, cursorX)
	}

	return strings.Join(lines, "\n")
}

// renderRow styles the spans of one row. The grapheme under cursorX is drawn
// with the cursor style; past the end of the row a blank cell stands in.
func (m Model) renderRow(spans []render.Span, cursorX int) string {
	var b strings.Builder
	x := 0

	for _, span := range spans {
		style := m.styleFor(span.Slot)

		if cursorX < span.X || cursorX >= span.X+runewidth.StringWidth(span.Text) {
			b.WriteString(style.Render(span.Text))
			x = span.X + runewidth.StringWidth(span.Text)
			continue
		}

		var before, after strings.Builder
		var under string
		x = span.X
		gr := uniseg.NewGraphemes(span.Text)
		for gr.Next() {
			cluster := gr.Str()
			w := runewidth.StringWidth(cluster)
			switch {
			case under == "" && x+w > cursorX:
				under = cluster
			case under == "":
				before.WriteString(cluster)
			default:
				after.WriteString(cluster)
			}
			x += w
		}

		if before.Len() > 0 {
			b.WriteString(style.Render(before.String()))
		}
		b.WriteString(m.theme.CursorStyle.Inherit(style).Render(under))
		if after.Len() > 0 {
			b.WriteString(style.Render(after.String()))
		}
	}

	if cursorX >= x {
		b.WriteString(strings.Repeat(" ", cursorX-x))
		b.WriteString(m.theme.CursorStyle.Render(" "))
	}

	return b.String()
}

func (m Model) styleFor(slot int) lipgloss.Style {
	if slot == render.Untagged {
		return lipgloss.NewStyle()
	}
	return m.theme.TokenStyles[slot]
}
