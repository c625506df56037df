package highlighter

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"

	"github.com/ionut-t/hue/core"
)

var ErrParse = errors.New("syntax index unavailable")

// Entry is one leaf token of the document with absolute start and end
// positions. An entry never spans a line break.
type Entry struct {
	Tag   int
	Start core.Position
	End   core.Position
}

// Highlighter turns document text into a list of leaf token entries.
type Highlighter struct {
	lexer chroma.Lexer

	lastText    string
	lastEntries []Entry
	cached      bool
}

// New picks a lexer for the file at path. An explicit language wins, then
// detection by name and content, then the plain-text fallback.
func New(path, language string, content []byte) *Highlighter {
	return &Highlighter{lexer: chroma.Coalesce(lexerFor(path, language, content))}
}

func lexerFor(path, language string, content []byte) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}

	name := filepath.Base(path)
	if detected := enry.GetLanguage(name, content); detected != "" {
		if l := lexers.Get(detected); l != nil {
			return l
		}
	}

	if l := lexers.Match(name); l != nil {
		return l
	}

	if l := lexers.Analyse(string(content)); l != nil {
		return l
	}

	return lexers.Fallback
}

// Language is the name of the selected lexer.
func (h *Highlighter) Language() string {
	return h.lexer.Config().Name
}

// Index tokenizes the whole text and returns its leaf tokens ordered by start
// position. Every call reparses from scratch; only a repeat of the exact same
// text is answered from the previous result.
func (h *Highlighter) Index(text string) (entries []Entry, err error) {
	if h.cached && text == h.lastText {
		return h.lastEntries, nil
	}

	defer func() {
		if r := recover(); r != nil {
			entries, err = nil, fmt.Errorf("%w: lexer panic: %v", ErrParse, r)
		}
	}()

	// Line feed normalisation would shift rows when the text holds a stray
	// carriage return, so it is turned off.
	iterator, err := h.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	entries = leaves(iterator.Tokens())
	h.lastText, h.lastEntries, h.cached = text, entries, true

	return entries, nil
}

func leaves(tokens []chroma.Token) []Entry {
	entries := make([]Entry, 0, len(tokens))
	row, col := 0, 0

	for _, token := range tokens {
		value := token.Value
		for {
			before, after, found := strings.Cut(value, "\n")
			if n := utf8.RuneCountInString(before); n > 0 {
				entries = append(entries, Entry{
					Tag:   int(token.Type),
					Start: core.Position{Row: row, Col: col},
					End:   core.Position{Row: row, Col: col + n},
				})
				col += n
			}
			if !found {
				break
			}
			row++
			col = 0
			value = after
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Start, entries[j].Start
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})

	return entries
}
