package adapter_bubbletea

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionut-t/hue/core"
	"github.com/ionut-t/hue/highlighter"
	"github.com/ionut-t/hue/render"
)

func newTestModel(t *testing.T, path, content string, width, height int) Model {
	t.Helper()

	buffer, err := core.Load([]byte(content))
	require.NoError(t, err)

	m := New(core.New(buffer, path, nil, height), highlighter.New(path, "", []byte(content)), render.New(4))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model)
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func viewLines(m Model) []string {
	lines := strings.Split(m.View(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func TestUpdate_TypingAndNavigation(t *testing.T) {
	m := newTestModel(t, "notes.txt", "ab\ncd\n", 20, 3)

	m, _ = send(t, m,
		runes("X"),
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnd},
	)

	assert.Equal(t, "Xab\r\ncd\r\n", m.GetEditor().Buffer().String())
	assert.Equal(t, core.Position{Row: 1, Col: 2}, m.GetEditor().Cursor().Position)
	assert.Equal(t, []string{"Xab", "cd", ""}, viewLines(m))
}

func TestUpdate_PasteSplitsLines(t *testing.T) {
	m := newTestModel(t, "notes.txt", "", 20, 3)

	m, _ = send(t, m, runes("one\r\ntwo"))

	assert.Equal(t, "one\ntwo", string(m.GetEditor().Buffer().Save()))
	assert.Equal(t, core.Position{Row: 1, Col: 3}, m.GetEditor().Cursor().Position)
}

func TestUpdate_EscapeQuits(t *testing.T) {
	m := newTestModel(t, "notes.txt", "x\n", 20, 3)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, QuitMsg{}, msg)

	_, cmd = send(t, m, msg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_SaveReportsResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi\n"), 0o644))

	m := newTestModel(t, path, "hi\n", 20, 3)
	m, _ = send(t, m, runes("!"))

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, SaveMsg{Path: path, Bytes: 4}, cmd())

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "!hi\n", string(saved))
}

func TestUpdate_SaveFailureKeepsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "notes.txt")

	m := newTestModel(t, path, "hi\n", 20, 3)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	msg, ok := cmd().(ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, core.ErrFailedToSaveId, msg.ID)
	assert.Contains(t, msg.Error, path)

	m, _ = send(t, m, runes("a"))
	assert.Equal(t, "ahi\n", string(m.GetEditor().Buffer().Save()))
}

func TestUpdate_BlurIgnoresKeys(t *testing.T) {
	m := newTestModel(t, "notes.txt", "x\n", 20, 3)
	m.Blur()

	m, _ = send(t, m, runes("y"))
	assert.Equal(t, "x\n", string(m.GetEditor().Buffer().Save()))

	m.Focus()
	m, _ = send(t, m, runes("y"))
	assert.Equal(t, "yx\n", string(m.GetEditor().Buffer().Save()))
}

func TestUpdate_CustomKeyMap(t *testing.T) {
	m := newTestModel(t, "notes.txt", "x\n", 20, 3)
	m.WithKeyMap(KeyMap{
		Save: key.NewBinding(key.WithKeys("ctrl+w")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q")),
	})

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	require.NotNil(t, cmd)
	assert.Equal(t, QuitMsg{}, cmd())

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, "x\n", string(m.GetEditor().Buffer().Save()))
}

func TestView_WindowFollowsCursor(t *testing.T) {
	m := newTestModel(t, "notes.txt", "1\n2\n3\n4\n", 10, 2)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, []string{"2", "3"}, viewLines(m))

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 10, Height: 4})
	assert.Len(t, viewLines(m), 4)
}

func TestRenderRow_CursorCell(t *testing.T) {
	m := newTestModel(t, "notes.txt", "", 20, 1)
	spans := []render.Span{
		{X: 0, Text: "ab", Slot: render.Untagged},
		{X: 2, Text: "日c", Slot: 3},
	}

	assert.Equal(t, "ab日c", m.renderRow(spans, 2))
	assert.Equal(t, "ab日c", m.renderRow(spans, -1))
	assert.Equal(t, "ab日c  ", m.renderRow(spans, 6))

	combined := []render.Span{{X: 0, Text: "e\u0301x", Slot: render.Untagged}}
	assert.Equal(t, "e\u0301x", m.renderRow(combined, 0))
}

func TestRenderRow_CustomTheme(t *testing.T) {
	m := newTestModel(t, "notes.txt", "", 20, 1)
	theme := DefaultTheme
	theme.CursorStyle = lipgloss.NewStyle().Transform(strings.ToUpper)
	m.WithTheme(theme)

	spans := []render.Span{{X: 0, Text: "ab", Slot: render.Untagged}}
	assert.Equal(t, "aB", m.renderRow(spans, 1))
	assert.Equal(t, "ab ", m.renderRow(spans, 2))
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		in   tea.KeyMsg
		want []core.KeyEvent
	}{
		{"rune", runes("q"), []core.KeyEvent{core.Char('q')}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []core.KeyEvent{core.Char(' ')}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, []core.KeyEvent{{Rune: 'x', Modifiers: core.ModAlt}}},
		{"save", tea.KeyMsg{Type: tea.KeyCtrlS}, []core.KeyEvent{core.Ctrl('s')}},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, []core.KeyEvent{core.Press(core.KeyEscape)}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []core.KeyEvent{core.Press(core.KeyEnter)}},
		{"page up", tea.KeyMsg{Type: tea.KeyPgUp}, []core.KeyEvent{core.Press(core.KeyPageUp)}},
		{"unbound", tea.KeyMsg{Type: tea.KeyF5}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertKey(DefaultKeyMap, tt.in))
		})
	}
}
