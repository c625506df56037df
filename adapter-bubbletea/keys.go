package adapter_bubbletea

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ionut-t/hue/core"
)

// KeyMap holds the bindings that reach the editor as commands rather than
// text.
type KeyMap struct {
	Save key.Binding
	Quit key.Binding
}

var DefaultKeyMap = KeyMap{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "quit"),
	),
}

var keyCodes = map[tea.KeyType]core.KeyCode{
	tea.KeyEnter:     core.KeyEnter,
	tea.KeyTab:       core.KeyTab,
	tea.KeyBackspace: core.KeyBackspace,
	tea.KeyUp:        core.KeyUp,
	tea.KeyDown:      core.KeyDown,
	tea.KeyLeft:      core.KeyLeft,
	tea.KeyRight:     core.KeyRight,
	tea.KeyHome:      core.KeyHome,
	tea.KeyEnd:       core.KeyEnd,
	tea.KeyPgUp:      core.KeyPageUp,
	tea.KeyPgDown:    core.KeyPageDown,
	tea.KeyDelete:    core.KeyDelete,
}

// convertKey turns a bubbletea key message into editor key events. A paste
// arrives as one message carrying many runes and yields one event per rune.
func convertKey(keyMap KeyMap, msg tea.KeyMsg) []core.KeyEvent {
	switch {
	case key.Matches(msg, keyMap.Save):
		return []core.KeyEvent{core.Ctrl('s')}
	case key.Matches(msg, keyMap.Quit):
		return []core.KeyEvent{core.Press(core.KeyEscape)}
	}

	var mods core.KeyModifiers
	if msg.Alt {
		mods |= core.ModAlt
	}

	switch msg.Type {
	case tea.KeyRunes:
		events := make([]core.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			switch r {
			case '\r':
				continue
			case '\n':
				events = append(events, core.Press(core.KeyEnter))
			case '\t':
				events = append(events, core.Press(core.KeyTab))
			default:
				events = append(events, core.KeyEvent{Rune: r, Modifiers: mods})
			}
		}
		return events

	case tea.KeySpace:
		return []core.KeyEvent{{Rune: ' ', Modifiers: mods}}
	}

	code, ok := keyCodes[msg.Type]
	if !ok {
		return nil
	}
	return []core.KeyEvent{{Key: code, Modifiers: mods}}
}
