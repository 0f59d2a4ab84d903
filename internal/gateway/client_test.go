package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	payload := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "test-model",
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"}},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func newTestClient(handler http.HandlerFunc) (*OpenAIClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewOpenAIClient("test-key", server.URL+"/v1", "test-model"), server
}

func TestOpenAIClient_Complete_Success(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("hello from the gateway"))
	})
	defer server.Close()

	content, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello from the gateway", content)
}

func TestOpenAIClient_Complete_TransportError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "completion", transportErr.Op)
}

func TestOpenAIClient_Complete_EmptyChoices(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "x", "object": "chat.completion", "choices": []}`)
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var malformed *MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}

func streamFrame(content string) string {
	payload := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion.chunk",
		"model":   "test-model",
		"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": content}}},
	}
	raw, _ := json.Marshal(payload)
	return "data: " + string(raw) + "\n\n"
}

func TestOpenAIClient_Stream_DeliversDeltas(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, streamFrame("<div>"))
		fmt.Fprint(w, streamFrame("hello"))
		// Role-only frame, delivered by some gateways mid-stream.
		fmt.Fprint(w, `data: {"id": "x", "object": "chat.completion.chunk", "choices": [{"index": 0, "delta": {"role": "assistant"}}]}`+"\n\n")
		fmt.Fprint(w, streamFrame("</div>"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	})
	defer server.Close()

	stream, err := client.Stream(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	defer stream.Close()

	var chunks []string
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	assert.Equal(t, []string{"<div>", "hello", "</div>"}, chunks)
}

func TestOpenAIClient_Stream_OpenFailure(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "model overloaded"}}`, http.StatusServiceUnavailable)
	})
	defer server.Close()

	_, err := client.Stream(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "stream open", transportErr.Op)
}
