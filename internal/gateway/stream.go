package gateway

import (
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"
)

// TokenStream is a lazy, finite, single-pass sequence of text chunks.
// Recv returns io.EOF once the gateway sends its terminator frame.
// Streams are not restartable; Close releases the underlying connection
// but does not guarantee interruption of an in-flight read.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// completionStream adapts a go-openai SSE stream (data-marked frames,
// literal [DONE] terminator) to a TokenStream of delta contents.
type completionStream struct {
	inner *openai.ChatCompletionStream
}

func (s *completionStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", &TransportError{Op: "stream recv", Err: err}
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			// Keep-alive, role-only, or finish frame; pull the next one.
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *completionStream) Close() error {
	s.inner.Close()
	return nil
}
