package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes events as they arrive. Writes are buffered; Flush
// and Close push them out.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		w:      w,
		buf:    bufio.NewWriter(w),
		level:  level,
		format: format,
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindPoint && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	// ошибки записи трейса не должны ронять прогон
	_, _ = t.buf.Write(data) //nolint:errcheck
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

// Close flushes and closes the writer if it implements io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
