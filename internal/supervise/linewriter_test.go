package supervise

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineWriterPrefixesLines(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	w := &lineWriter{prefix: "[intake] ", dst: &out}

	_, err := w.Write([]byte("listening on :41241\nready\n"))
	assert.NoError(t, err)
	assert.Equal(t, "[intake] listening on :41241\n[intake] ready\n", out.String())
}

func TestLineWriterBuffersPartialLines(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	w := &lineWriter{prefix: "[x] ", dst: &out}

	w.Write([]byte("par"))
	assert.Empty(t, out.String())

	w.Write([]byte("tial\nrest"))
	assert.Equal(t, "[x] partial\n", out.String())

	w.flush()
	assert.Equal(t, "[x] partial\n[x] rest\n", out.String())

	// Flushing with nothing buffered writes nothing.
	w.flush()
	assert.Equal(t, "[x] partial\n[x] rest\n", out.String())
}
