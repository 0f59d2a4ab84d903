// Package orchestrator drives the generation pipeline against the LLM
// gateway: plan, per-section code streams, and documentation, each with
// retry, backoff, and deterministic fallback synthesis. Public entry
// points never return an error for expected failure modes; exhausted
// retries converge to a usable degraded result instead.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/protoweb/protoweb/internal/gateway"
	"github.com/protoweb/protoweb/internal/models"
)

// Service orchestrates gateway calls for one build pipeline.
type Service struct {
	client gateway.Client

	planRetries   int
	docRetries    int
	streamRetries int // extra attempts after the first

	backoffUnit   time.Duration // scaled by the retry schedules
	fallbackDelay time.Duration // per-character delay when emitting a synthesized section
	healthTimeout time.Duration

	sleep func(time.Duration)
}

// New builds a Service with the default retry schedules: three plan
// attempts with exponential backoff, two documentation attempts, and two
// extra stream attempts with linear backoff.
func New(client gateway.Client) *Service {
	return &Service{
		client:        client,
		planRetries:   3,
		docRetries:    2,
		streamRetries: 2,
		backoffUnit:   time.Second,
		fallbackDelay: 2 * time.Millisecond,
		healthTimeout: 5 * time.Second,
		sleep:         time.Sleep,
	}
}

// PlanResult is a tagged result: Degraded marks the hardcoded fallback
// plan returned when every gateway attempt failed.
type PlanResult struct {
	Plan     models.GenerationPlan
	Degraded bool
}

// GeneratePlan requests a structured plan for prompt. Transport and
// malformed-response failures are retried with exponential backoff
// (2^attempt seconds); once attempts are exhausted the hardcoded
// schema-valid fallback plan is returned. The pipeline always gets a
// usable plan.
func (s *Service) GeneratePlan(ctx context.Context, prompt string, prefs models.Preferences) PlanResult {
	req := gateway.Request{
		Messages: []gateway.Message{
			{Role: gateway.RoleSystem, Content: planSystemPrompt},
			{Role: gateway.RoleUser, Content: planUserPrompt(prompt, prefs)},
		},
		Temperature: prefs.Temperature,
		MaxTokens:   prefs.MaxTokens,
	}

	for attempt := 1; attempt <= s.planRetries; attempt++ {
		plan, err := s.requestPlan(ctx, req)
		if err == nil {
			return PlanResult{Plan: plan}
		}
		if attempt < s.planRetries {
			s.sleep(s.backoffUnit << uint(attempt))
		}
	}

	return PlanResult{Plan: FallbackPlan(prompt), Degraded: true}
}

func (s *Service) requestPlan(ctx context.Context, req gateway.Request) (models.GenerationPlan, error) {
	content, err := s.client.Complete(ctx, req)
	if err != nil {
		return models.GenerationPlan{}, err
	}

	raw, err := extractJSONObject(content)
	if err != nil {
		return models.GenerationPlan{}, &gateway.MalformedResponseError{Reason: err.Error()}
	}

	var plan models.GenerationPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return models.GenerationPlan{}, &gateway.MalformedResponseError{Reason: "plan JSON does not parse: " + err.Error()}
	}
	if err := plan.Validate(); err != nil {
		return models.GenerationPlan{}, &gateway.MalformedResponseError{Reason: err.Error()}
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	return plan, nil
}

// GenerateCodeStream opens a streaming completion scoped to one section
// of the plan. Failures to deliver any chunk are retried with linear
// backoff (backoffUnit × attempt, two extra attempts); if every attempt
// fails a deterministic fallback section is synthesized and emitted
// character by character so downstream consumers still observe live
// delivery. Each section is isolated: a failure here never aborts
// another section's stream.
func (s *Service) GenerateCodeStream(ctx context.Context, plan models.GenerationPlan, sectionName string, prefs models.Preferences) *SectionStream {
	req := gateway.Request{
		Messages: []gateway.Message{
			{Role: gateway.RoleSystem, Content: sectionSystemPrompt(prefs)},
			{Role: gateway.RoleUser, Content: sectionUserPrompt(plan, sectionName, prefs)},
		},
		Temperature: prefs.Temperature,
		MaxTokens:   prefs.MaxTokens,
	}

	streamCtx, cancel := context.WithCancel(ctx)
	out := &SectionStream{
		ch:     make(chan string, 16),
		cancel: cancel,
	}

	go s.produceSection(streamCtx, out, req, plan, sectionName, prefs)
	return out
}

func (s *Service) produceSection(ctx context.Context, out *SectionStream, req gateway.Request, plan models.GenerationPlan, sectionName string, prefs models.Preferences) {
	defer close(out.ch)

	delivered := false
	for attempt := 0; attempt <= s.streamRetries; attempt++ {
		if attempt > 0 {
			s.sleep(s.backoffUnit * time.Duration(attempt))
		}

		stream, err := s.client.Stream(ctx, req)
		if err != nil {
			continue
		}

		for {
			token, err := stream.Recv()
			if err == io.EOF {
				stream.Close()
				return
			}
			if err != nil {
				stream.Close()
				if delivered {
					// Tokens already reached the consumer; they cannot
					// be unseen, so end the stream degraded rather than
					// restart or synthesize on top of them.
					out.markDegraded()
					return
				}
				break
			}
			if !out.send(ctx, token) {
				stream.Close()
				return
			}
			delivered = true
		}
	}

	// Every attempt failed before the first chunk: synthesize.
	out.markDegraded()
	for _, r := range FallbackSection(sectionName, plan, prefs) {
		if !out.send(ctx, string(r)) {
			return
		}
		if s.fallbackDelay > 0 {
			s.sleep(s.fallbackDelay)
		}
	}
}

// DocResult is the documentation counterpart of PlanResult.
type DocResult struct {
	Documentation string
	Degraded      bool
}

// GenerateDocumentation requests a short documentation block for a
// generated component. Same retry pattern as GeneratePlan; the fallback
// is a templated text block, never an error.
func (s *Service) GenerateDocumentation(ctx context.Context, code, componentName string, prefs models.Preferences) DocResult {
	req := gateway.Request{
		Messages: []gateway.Message{
			{Role: gateway.RoleSystem, Content: docSystemPrompt},
			{Role: gateway.RoleUser, Content: docUserPrompt(code, componentName)},
		},
		Temperature: prefs.Temperature,
		MaxTokens:   1024,
	}

	for attempt := 1; attempt <= s.docRetries; attempt++ {
		content, err := s.client.Complete(ctx, req)
		if err == nil && strings.TrimSpace(content) != "" {
			return DocResult{Documentation: strings.TrimSpace(content)}
		}
		if attempt < s.docRetries {
			s.sleep(s.backoffUnit << uint(attempt))
		}
	}

	return DocResult{Documentation: FallbackDocumentation(componentName), Degraded: true}
}

// Health reports gateway reachability.
type Health struct {
	Status  string `json:"status"` // "healthy" or "unhealthy"
	Details string `json:"details"`
}

// HealthCheck issues one minimal completion with a short timeout. It
// never retries.
func (s *Service) HealthCheck(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.client.Complete(ctx, gateway.Request{
		Messages:  []gateway.Message{{Role: gateway.RoleUser, Content: "ping"}},
		MaxTokens: 8,
	})
	if err != nil {
		return Health{Status: "unhealthy", Details: err.Error()}
	}
	return Health{
		Status:  "healthy",
		Details: fmt.Sprintf("gateway responded in %s", time.Since(start).Round(time.Millisecond)),
	}
}

// extractJSONObject returns the first balanced JSON object found in text,
// tolerating prose or code fences around it.
func extractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in response")
}
