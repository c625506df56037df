package core

// Signal is returned by Editor.HandleKey when a keystroke needs the frontend
// to act beyond redrawing.
type Signal any

// QuitSignal asks the frontend to exit. Unsaved edits are discarded.
type QuitSignal struct {
	unsaved bool
}

func (s QuitSignal) Value() (unsaved bool) {
	return s.unsaved
}

type SaveSignal struct {
	path  string
	bytes int
}

func (s SaveSignal) Value() (path string, bytes int) {
	return s.path, s.bytes
}
