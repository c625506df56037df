package render

import (
	"log"

	"github.com/ionut-t/hue/core"
	"github.com/ionut-t/hue/highlighter"
)

// Indexer produces syntax entries for the whole document text.
type Indexer interface {
	Index(text string) ([]highlighter.Entry, error)
}

// Draw reindexes the editor's buffer and renders the visible rows. When the
// index cannot be built the rows are drawn untagged.
func (r *Renderer) Draw(editor *core.Editor, indexer Indexer, width, height int) Frame {
	var entries []highlighter.Entry
	if indexer != nil {
		var err error
		entries, err = indexer.Index(editor.Buffer().Text())
		if err != nil {
			log.Printf("render: drawing %s untagged: %v", editor.Path(), err)
			entries = nil
		}
	}
	return r.Render(editor.Buffer(), editor.Cursor(), entries, width, height)
}
