package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter fans log lines out to buffered sinks from a single
// background goroutine, keeping the hot logging path non-blocking.
type asyncWriter struct {
	jobs     chan []byte
	flushCh  chan chan error
	drained  chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	sinks    []*bufio.Writer
	firstErr error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	sinks := make([]*bufio.Writer, 0, len(writers))
	for _, w := range writers {
		if w == nil {
			continue
		}
		sinks = append(sinks, bufio.NewWriterSize(w, bufSize))
	}
	aw := &asyncWriter{
		jobs:    make(chan []byte, 256),
		flushCh: make(chan chan error),
		drained: make(chan struct{}),
		sinks:   sinks,
	}
	go aw.run()
	return aw
}

func (w *asyncWriter) run() {
	for {
		select {
		case line, ok := <-w.jobs:
			if !ok {
				w.flushSinks()
				close(w.drained)
				return
			}
			if len(line) == 0 {
				continue
			}
			if err := w.fanOut(line); err != nil {
				w.recordErr(err)
			}
		case ack := <-w.flushCh:
			ack <- w.flushSinks()
		}
	}
}

// Write copies the line and hands it to the background goroutine. A full
// queue degrades to a blocking send; lines are never dropped.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.err(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.jobs <- line:
	default:
		w.jobs <- line
	}
	return nil
}

// Flush blocks until every sink has been flushed.
func (w *asyncWriter) Flush() error {
	if err := w.err(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushCh <- ack
	return <-ack
}

// Close drains pending lines and returns the first write error seen.
func (w *asyncWriter) Close() error {
	w.stopOnce.Do(func() {
		close(w.jobs)
	})
	<-w.drained
	return w.err()
}

func (w *asyncWriter) fanOut(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sink := range w.sinks {
		if sink == nil {
			continue
		}
		if _, err := sink.Write(line); err != nil {
			return err
		}
		if err := sink.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.firstErr
}

func (w *asyncWriter) recordErr(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.firstErr == nil {
		w.firstErr = err
	}
}
