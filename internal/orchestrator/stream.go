package orchestrator

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// SectionStream delivers one section's generated code as a lazy, finite,
// single-pass sequence of text chunks. It satisfies gateway.TokenStream.
// Close is cooperative: it stops further delivery but does not interrupt
// an in-flight gateway read.
type SectionStream struct {
	ch        chan string
	cancel    context.CancelFunc
	closeOnce sync.Once
	degraded  atomic.Bool
}

// Recv returns the next chunk, or io.EOF once the section is complete.
func (s *SectionStream) Recv() (string, error) {
	token, ok := <-s.ch
	if !ok {
		return "", io.EOF
	}
	return token, nil
}

// Close abandons the stream. Chunks already buffered are discarded.
func (s *SectionStream) Close() error {
	s.closeOnce.Do(s.cancel)
	return nil
}

// Degraded reports whether the stream's content came from (or ended in)
// fallback synthesis rather than a completed gateway response. Reliable
// once Recv has returned io.EOF.
func (s *SectionStream) Degraded() bool {
	return s.degraded.Load()
}

func (s *SectionStream) markDegraded() {
	s.degraded.Store(true)
}

// send delivers one chunk unless the stream was closed. Reports whether
// delivery happened.
func (s *SectionStream) send(ctx context.Context, token string) bool {
	select {
	case s.ch <- token:
		return true
	case <-ctx.Done():
		return false
	}
}
