package supervise

import (
	"bytes"
	"io"
	"sync"
)

// lineWriter prefixes every line written through it so interleaved agent
// stderr stays attributable. Partial lines are buffered until their newline
// arrives or flush is called.
type lineWriter struct {
	prefix string
	dst    io.Writer

	mu  sync.Mutex
	buf []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			return len(p), nil
		}
		w.emit(w.buf[:i+1])
		w.buf = w.buf[i+1:]
	}
}

// flush writes any buffered partial line, terminating it.
func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) == 0 {
		return
	}
	w.emit(append(w.buf, '\n'))
	w.buf = nil
}

func (w *lineWriter) emit(line []byte) {
	// Child output must never fail the copy loop; drop on write errors.
	_, _ = io.WriteString(w.dst, w.prefix)
	_, _ = w.dst.Write(line)
}
