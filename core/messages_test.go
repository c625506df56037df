package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	assert.Equal(t, "changes saved: 6 bytes written to a.txt", Message(SaveSignal{path: "a.txt", bytes: 6}))
	assert.Empty(t, Message(QuitSignal{}))
	assert.Equal(t, "unsaved changes discarded", Message(QuitSignal{unsaved: true}))
	assert.Empty(t, Message(nil))
}
