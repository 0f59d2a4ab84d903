package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/protoweb/protoweb/internal/gateway"
)

const editSystemPrompt = `You apply one small edit to a fragment of web markup. Respond with the
complete updated fragment and nothing else: no markdown fences, no
commentary. Preserve every attribute you are not asked to change,
especially id, class, and data-element attributes.`

// GenerateElementEdit asks the gateway for an updated rendition of one
// element's markup. Unlike the generation entry points this can fail:
// the returned error is the distinguished signal that the surgical path
// is unsuitable and the caller must fall back to full regeneration.
func (s *Service) GenerateElementEdit(ctx context.Context, elementContent, instruction string) (string, error) {
	req := gateway.Request{
		Messages: []gateway.Message{
			{Role: gateway.RoleSystem, Content: editSystemPrompt},
			{Role: gateway.RoleUser, Content: "Fragment:\n" + elementContent + "\n\nEdit: " + instruction},
		},
		Temperature: 0.2,
		MaxTokens:   2048,
	}

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		content, err := s.client.Complete(ctx, req)
		if err == nil {
			return stripCodeFences(content), nil
		}
		lastErr = err
		if attempt < 2 {
			s.sleep(s.backoffUnit * time.Duration(attempt))
		}
	}
	return "", lastErr
}

// stripCodeFences removes a surrounding markdown code fence if the model
// added one despite instructions.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
