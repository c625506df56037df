package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, content string) *Buffer {
	t.Helper()
	b, err := Load([]byte(content))
	require.NoError(t, err)
	return b
}

func TestLoad_WidensLineFeeds(t *testing.T) {
	b := mustLoad(t, "ab\ncd\n")

	assert.Equal(t, "ab\r\ncd\r\n", b.String())
	assert.Equal(t, 3, b.LineCount())
	assert.Equal(t, 4, b.LineLength(0))
	assert.Equal(t, 4, b.LineLength(1))
	assert.Equal(t, 0, b.LineLength(2))
	assert.Equal(t, 2, b.ContentLength(0))
	assert.Equal(t, []rune("cd\r\n"), b.Line(1))
	assert.Empty(t, b.Line(2))
	assert.Nil(t, b.Line(3))
}

func TestLoad_RejectsInvalidUTF8(t *testing.T) {
	_, err := Load([]byte{'a', 0xff, 0xfe})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoad_Empty(t *testing.T) {
	b := mustLoad(t, "")

	assert.Equal(t, 1, b.LineCount())
	assert.Equal(t, 0, b.LineLength(0))
	assert.Equal(t, 0, b.LastRow())
	assert.Empty(t, b.Save())
}

func TestSave_RoundTripsLineFeeds(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"\n\n\n",
		"no newline",
		"ab\ncd\n",
		"ab\ncd",
		"fn main() {\n\tprintln!(\"héllo\");\n}\n",
		"日本語\nテキスト\n",
	}

	for _, in := range inputs {
		b := mustLoad(t, in)
		assert.Equal(t, in, string(b.Save()), "input %q", in)
	}
}

func TestSave_OnlyNarrowsPairs(t *testing.T) {
	b := mustLoad(t, "a\r\nb\rc\n")

	assert.Equal(t, "a\r\r\nb\rc\r\n", b.String())
	assert.Equal(t, "a\r\nb\rc\n", string(b.Save()))
	assert.Equal(t, 2, b.ContentLength(0), "a stray carriage return is content")
}

func TestInsertAndRemove(t *testing.T) {
	b := mustLoad(t, "ab\ncd\n")

	require.NoError(t, b.InsertChar(0, 'X'))
	assert.Equal(t, "Xab\ncd\n", string(b.Save()))

	require.NoError(t, b.InsertText(3, "\r\nmid"))
	assert.Equal(t, "Xab\nmid\ncd\n", string(b.Save()))
	assert.Equal(t, 4, b.LineCount())

	require.NoError(t, b.RemoveRange(3, 8))
	assert.Equal(t, "Xab\ncd\n", string(b.Save()))

	require.NoError(t, b.RemoveRange(2, 2))
	assert.Equal(t, "Xab\ncd\n", string(b.Save()))
}

func TestOutOfRange(t *testing.T) {
	b := mustLoad(t, "ab")

	assert.ErrorIs(t, b.InsertChar(3, 'x'), ErrOutOfRange)
	assert.ErrorIs(t, b.InsertChar(-1, 'x'), ErrOutOfRange)
	assert.ErrorIs(t, b.InsertText(5, "x"), ErrOutOfRange)
	assert.ErrorIs(t, b.RemoveRange(1, 3), ErrOutOfRange)
	assert.ErrorIs(t, b.RemoveRange(2, 1), ErrOutOfRange)
	_, err := b.Slice(0, 9)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.OffsetOf(0, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.OffsetOf(3, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.PositionOf(3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Equal(t, "ab", b.String())
}

func TestOffsetOf(t *testing.T) {
	b := mustLoad(t, "ab\n\ncde\n")

	tests := []struct {
		col, row int
		want     int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{0, 1, 4},
		{0, 2, 6},
		{3, 2, 9},
		{0, 3, 11},
	}

	for _, tt := range tests {
		got, err := b.OffsetOf(tt.col, tt.row)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "OffsetOf(%d, %d)", tt.col, tt.row)
	}
}

func TestPositionOf_RoundTrip(t *testing.T) {
	for _, content := range []string{"", "a", "ab\ncd\n", "\n\nx\n\n", "héllo\nwörld"} {
		b := mustLoad(t, content)
		for o := 0; o <= b.Len(); o++ {
			pos, err := b.PositionOf(o)
			require.NoError(t, err)
			got, err := b.OffsetOf(pos.Col, pos.Row)
			require.NoError(t, err)
			assert.Equal(t, o, got, "content %q offset %d -> %+v", content, o, pos)
		}
	}
}

func TestLastRow(t *testing.T) {
	assert.Equal(t, 1, mustLoad(t, "ab\ncd\n").LastRow())
	assert.Equal(t, 1, mustLoad(t, "ab\ncd").LastRow())
	assert.Equal(t, 0, mustLoad(t, "\n").LastRow())
	assert.Equal(t, 1, mustLoad(t, "\n\n").LastRow())
}

func TestInsertThenReverse_RestoresContent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original := "package main\n\nfunc main() {\n}\n"

	for round := 0; round < 50; round++ {
		b := mustLoad(t, original)
		want := b.Save()

		type edit struct {
			offset int
			ch     rune
		}
		var edits []edit
		for i := 0; i < 1+rng.Intn(20); i++ {
			e := edit{offset: rng.Intn(b.Len() + 1), ch: rune('a' + rng.Intn(26))}
			require.NoError(t, b.InsertChar(e.offset, e.ch))
			edits = append(edits, e)
		}
		for i := len(edits) - 1; i >= 0; i-- {
			require.NoError(t, b.RemoveRange(edits[i].offset, edits[i].offset+1))
		}

		assert.Equal(t, want, b.Save())
	}
}

func TestModified(t *testing.T) {
	b := mustLoad(t, "x")
	assert.False(t, b.Modified())

	require.NoError(t, b.InsertChar(1, 'y'))
	assert.True(t, b.Modified())

	b.MarkSaved()
	assert.False(t, b.Modified())
}
