package orchestrator

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protoweb/protoweb/internal/gateway"
	"github.com/protoweb/protoweb/internal/models"
)

type fakeClient struct {
	completeFunc  func(ctx context.Context, req gateway.Request) (string, error)
	streamFunc    func(ctx context.Context, req gateway.Request) (gateway.TokenStream, error)
	completeCalls int
	streamCalls   int
}

func (f *fakeClient) Complete(ctx context.Context, req gateway.Request) (string, error) {
	f.completeCalls++
	return f.completeFunc(ctx, req)
}

func (f *fakeClient) Stream(ctx context.Context, req gateway.Request) (gateway.TokenStream, error) {
	f.streamCalls++
	return f.streamFunc(ctx, req)
}

// fakeStream yields its chunks, then err, or io.EOF when err is nil.
type fakeStream struct {
	chunks []string
	err    error
	pos    int
}

func (f *fakeStream) Recv() (string, error) {
	if f.pos < len(f.chunks) {
		chunk := f.chunks[f.pos]
		f.pos++
		return chunk, nil
	}
	if f.err != nil {
		return "", f.err
	}
	return "", io.EOF
}

func (f *fakeStream) Close() error { return nil }

func newTestService(client gateway.Client) *Service {
	s := New(client)
	s.backoffUnit = 0
	s.fallbackDelay = 0
	s.sleep = func(time.Duration) {}
	return s
}

const validPlanJSON = `{
	"id": "plan-1",
	"components": [
		{"id": "c1", "name": "hero", "type": "layout", "description": "Hero banner",
		 "features": ["headline"], "estimatedComplexity": "low"}
	],
	"architecture": {"structure": "single-page", "styling": "utility-first",
		"interactions": "minimal", "responsive": true},
	"timeline": {"totalMinutes": 5, "phases": {"plan": "1m"}},
	"dependencies": []
}`

func TestService_GeneratePlan_Success(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "Here is the plan:\n```json\n" + validPlanJSON + "\n```", nil
		},
	}
	s := newTestService(client)

	result := s.GeneratePlan(context.Background(), "a landing page", models.DefaultPreferences())
	assert.False(t, result.Degraded)
	assert.Equal(t, "plan-1", result.Plan.ID)
	require.Len(t, result.Plan.Components, 1)
	assert.Equal(t, "hero", result.Plan.Components[0].Name)
	assert.False(t, result.Plan.CreatedAt.IsZero())
	assert.Equal(t, 1, client.completeCalls)
}

func TestService_GeneratePlan_RetriesThenSucceeds(t *testing.T) {
	client := &fakeClient{}
	client.completeFunc = func(ctx context.Context, req gateway.Request) (string, error) {
		if client.completeCalls < 3 {
			return "", errors.New("gateway down")
		}
		return validPlanJSON, nil
	}
	s := newTestService(client)

	result := s.GeneratePlan(context.Background(), "a landing page", models.DefaultPreferences())
	assert.False(t, result.Degraded)
	assert.Equal(t, 3, client.completeCalls)
}

func TestService_GeneratePlan_AllAttemptsFailFallsBack(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "", errors.New("gateway down")
		},
	}
	s := newTestService(client)

	result := s.GeneratePlan(context.Background(), "a recipe site", models.DefaultPreferences())
	assert.True(t, result.Degraded)
	assert.NoError(t, result.Plan.Validate())
	assert.Equal(t, 3, client.completeCalls)
}

func TestService_GeneratePlan_MalformedResponseFallsBack(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "sorry, I cannot produce JSON today", nil
		},
	}
	s := newTestService(client)

	result := s.GeneratePlan(context.Background(), "anything", models.DefaultPreferences())
	assert.True(t, result.Degraded)
	assert.NoError(t, result.Plan.Validate())
}

func TestService_GeneratePlan_InvalidPlanIsRetried(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			// Parses but fails validation: no components.
			return `{"id": "p", "components": [], "architecture": {"structure": "s"}, "timeline": {"totalMinutes": 1}}`, nil
		},
	}
	s := newTestService(client)

	result := s.GeneratePlan(context.Background(), "anything", models.DefaultPreferences())
	assert.True(t, result.Degraded)
	assert.Equal(t, 3, client.completeCalls)
}

func collectStream(t *testing.T, stream *SectionStream) string {
	t.Helper()
	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sb.WriteString(chunk)
	}
	return sb.String()
}

func TestService_GenerateCodeStream_DeliversChunks(t *testing.T) {
	client := &fakeClient{
		streamFunc: func(ctx context.Context, req gateway.Request) (gateway.TokenStream, error) {
			return &fakeStream{chunks: []string{"<section>", "content", "</section>"}}, nil
		},
	}
	s := newTestService(client)

	stream := s.GenerateCodeStream(context.Background(), FallbackPlan("x"), "hero", models.DefaultPreferences())
	content := collectStream(t, stream)
	assert.Equal(t, "<section>content</section>", content)
	assert.False(t, stream.Degraded())
	assert.Equal(t, 1, client.streamCalls)
}

func TestService_GenerateCodeStream_TotalFailureSynthesizesFallback(t *testing.T) {
	client := &fakeClient{
		streamFunc: func(ctx context.Context, req gateway.Request) (gateway.TokenStream, error) {
			return nil, errors.New("gateway down")
		},
	}
	s := newTestService(client)
	plan := FallbackPlan("x")
	prefs := models.DefaultPreferences()

	stream := s.GenerateCodeStream(context.Background(), plan, "header", prefs)
	content := collectStream(t, stream)

	assert.True(t, stream.Degraded())
	assert.Equal(t, FallbackSection("header", plan, prefs), content)
	assert.Equal(t, 3, client.streamCalls)
}

func TestService_GenerateCodeStream_ErrorBeforeFirstChunkRetries(t *testing.T) {
	client := &fakeClient{}
	client.streamFunc = func(ctx context.Context, req gateway.Request) (gateway.TokenStream, error) {
		if client.streamCalls < 2 {
			return &fakeStream{err: errors.New("reset before first token")}, nil
		}
		return &fakeStream{chunks: []string{"ok"}}, nil
	}
	s := newTestService(client)

	stream := s.GenerateCodeStream(context.Background(), FallbackPlan("x"), "hero", models.DefaultPreferences())
	content := collectStream(t, stream)
	assert.Equal(t, "ok", content)
	assert.False(t, stream.Degraded())
	assert.Equal(t, 2, client.streamCalls)
}

func TestService_GenerateCodeStream_MidStreamFailureEndsDegraded(t *testing.T) {
	client := &fakeClient{
		streamFunc: func(ctx context.Context, req gateway.Request) (gateway.TokenStream, error) {
			return &fakeStream{chunks: []string{"<div>", "partial"}, err: errors.New("connection lost")}, nil
		},
	}
	s := newTestService(client)

	stream := s.GenerateCodeStream(context.Background(), FallbackPlan("x"), "hero", models.DefaultPreferences())
	content := collectStream(t, stream)

	assert.Equal(t, "<div>partial", content)
	assert.True(t, stream.Degraded())
	// Delivered chunks cannot be unseen; no retry, no synthesis on top.
	assert.Equal(t, 1, client.streamCalls)
}

func TestService_GenerateCodeStream_CloseStopsDelivery(t *testing.T) {
	client := &fakeClient{
		streamFunc: func(ctx context.Context, req gateway.Request) (gateway.TokenStream, error) {
			return &fakeStream{chunks: []string{strings.Repeat("x", 10), strings.Repeat("y", 10)}}, nil
		},
	}
	s := newTestService(client)

	stream := s.GenerateCodeStream(context.Background(), FallbackPlan("x"), "hero", models.DefaultPreferences())
	require.NoError(t, stream.Close())
	// After Close the producer stops; Recv drains whatever was buffered
	// and then reports EOF.
	for {
		_, err := stream.Recv()
		if err == io.EOF {
			break
		}
	}
}

func TestService_GenerateDocumentation_Success(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "  The hero section shows the headline.  ", nil
		},
	}
	s := newTestService(client)

	result := s.GenerateDocumentation(context.Background(), "<section>...</section>", "hero", models.DefaultPreferences())
	assert.False(t, result.Degraded)
	assert.Equal(t, "The hero section shows the headline.", result.Documentation)
}

func TestService_GenerateDocumentation_FallsBackAfterRetries(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "", errors.New("gateway down")
		},
	}
	s := newTestService(client)

	result := s.GenerateDocumentation(context.Background(), "<section/>", "hero", models.DefaultPreferences())
	assert.True(t, result.Degraded)
	assert.Equal(t, FallbackDocumentation("hero"), result.Documentation)
	assert.Equal(t, 2, client.completeCalls)
}

func TestService_HealthCheck_Healthy(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "pong", nil
		},
	}
	s := newTestService(client)

	health := s.HealthCheck(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Details, "gateway responded")
	assert.Equal(t, 1, client.completeCalls)
}

func TestService_HealthCheck_UnhealthyDoesNotRetry(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "", errors.New("401 unauthorized")
		},
	}
	s := newTestService(client)

	health := s.HealthCheck(context.Background())
	assert.Equal(t, "unhealthy", health.Status)
	assert.Contains(t, health.Details, "401")
	assert.Equal(t, 1, client.completeCalls)
}

func TestService_GenerateElementEdit_StripsFences(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "```html\n<button id=\"cta\">Submit</button>\n```", nil
		},
	}
	s := newTestService(client)

	content, err := s.GenerateElementEdit(context.Background(), "<button id=\"cta\">Go</button>", "change button text to Submit")
	require.NoError(t, err)
	assert.Equal(t, "<button id=\"cta\">Submit</button>", content)
}

func TestService_GenerateElementEdit_FailureSignalsRegeneration(t *testing.T) {
	client := &fakeClient{
		completeFunc: func(ctx context.Context, req gateway.Request) (string, error) {
			return "", errors.New("gateway down")
		},
	}
	s := newTestService(client)

	_, err := s.GenerateElementEdit(context.Background(), "<p>x</p>", "fix typo")
	assert.Error(t, err)
	assert.Equal(t, 2, client.completeCalls)
}

func TestExtractJSONObject(t *testing.T) {
	raw, err := extractJSONObject(`prose before {"a": {"b": "}"}} prose after`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": "}"}}`, raw)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, err := extractJSONObject("no braces here")
	assert.Error(t, err)
}

func TestExtractJSONObject_Unterminated(t *testing.T) {
	_, err := extractJSONObject(`{"open": true`)
	assert.Error(t, err)
}

func TestFallbackPlan_AlwaysValid(t *testing.T) {
	empty := FallbackPlan("")
	assert.NoError(t, empty.Validate())

	long := FallbackPlan(strings.Repeat("long prompt ", 50))
	assert.NoError(t, long.Validate())
}

func TestFallbackPlan_TruncatesPromptOnRuneBoundary(t *testing.T) {
	// The leading byte misaligns every later rune, so a byte-indexed
	// cut would split one in half.
	plan := FallbackPlan("x" + strings.Repeat("é", 100))
	assert.NoError(t, plan.Validate())
	for _, c := range plan.Components {
		assert.True(t, utf8.ValidString(c.Description), c.Name)
	}
}

func TestFallbackSection_ByType(t *testing.T) {
	plan := FallbackPlan("x")
	prefs := models.DefaultPreferences()

	css := FallbackSection(StyleSectionName, plan, prefs)
	assert.Contains(t, css, "body {")

	js := FallbackSection(ScriptSectionName, plan, prefs)
	assert.Contains(t, js, "DOMContentLoaded")

	html := FallbackSection("header", plan, prefs)
	assert.Contains(t, html, `data-element="header"`)
}

func TestSectionTypeFor(t *testing.T) {
	assert.Equal(t, models.SectionCSS, SectionTypeFor(StyleSectionName))
	assert.Equal(t, models.SectionJS, SectionTypeFor(ScriptSectionName))
	assert.Equal(t, models.SectionHTML, SectionTypeFor("hero"))
}
