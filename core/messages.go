package core

import "fmt"

var (
	ChangesSavedMessage     = "changes saved"
	ChangesDiscardedMessage = "unsaved changes discarded"
)

// Message returns the status text for a signal, or "" when it has none.
func Message(signal Signal) string {
	switch s := signal.(type) {
	case SaveSignal:
		return fmt.Sprintf("%s: %d bytes written to %s", ChangesSavedMessage, s.bytes, s.path)
	case QuitSignal:
		if s.unsaved {
			return ChangesDiscardedMessage
		}
	}
	return ""
}
