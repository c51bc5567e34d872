package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanix-darker/revfix/internal/config"
	"github.com/sanix-darker/revfix/internal/provider"
)

func mockAnthropicServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		resp := apiResponse{
			ID:   "msg_test",
			Type: "message",
			Role: "assistant",
			Content: []apiContentBlock{
				{Type: "text", Text: "Claude response"},
			},
			Model:      "claude-sonnet-4-20250514",
			StopReason: "end_turn",
			Usage:      apiUsage{InputTokens: 12, OutputTokens: 7},
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestStore(serverURL string) *config.Store {
	v := config.NewStore()
	v.Set("api_key", "ak-test")
	v.Set("base_url", serverURL)
	v.Set("model", "claude-sonnet-4-20250514")
	v.Set("max_tokens", 100)
	v.Set("timeout", "10s")
	return v
}

func TestAnthropicComplete(t *testing.T) {
	server := mockAnthropicServer(t)
	defer server.Close()

	p, err := NewProvider(newTestStore(server.URL))
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: "Hello"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Claude response", resp.Content)
	assert.Equal(t, "msg_test", resp.ID)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 19, resp.Usage.TotalTokens)
}

func TestAnthropicComplete_SystemPromptLifted(t *testing.T) {
	var gotHeader string
	var gotBody apiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("x-api-key")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(apiResponse{
			Content: []apiContentBlock{{Type: "text", Text: "ok"}},
		})
	}))
	defer server.Close()

	p, err := NewProvider(newTestStore(server.URL))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "You are terse."},
			{Role: provider.RoleUser, Content: "Hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ak-test", gotHeader)
	// The system message becomes the top-level field, not a message.
	assert.Equal(t, "You are terse.", gotBody.System)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, 100, gotBody.MaxTokens)
}

func TestAnthropicComplete_AuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type": "error",
			"error": map[string]interface{}{
				"type":    "authentication_error",
				"message": "invalid x-api-key",
			},
		})
	}))
	defer server.Close()

	p, err := NewProvider(newTestStore(server.URL))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "Hello"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAuthentication)
}

func TestAnthropicValidate_EmptyAPIKey(t *testing.T) {
	p, err := NewProvider(config.NewStore())
	require.NoError(t, err)

	err = p.Validate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAuthentication)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestAnthropicInfo(t *testing.T) {
	p, err := NewProvider(config.NewStore())
	require.NoError(t, err)

	info := p.Info()
	assert.Equal(t, "anthropic", info.Name)
	assert.NotEmpty(t, info.DefaultModel)
}

func TestAnthropicMultipleTextBlocksConcatenated(t *testing.T) {
	r := &apiResponse{
		Content: []apiContentBlock{
			{Type: "text", Text: "part one "},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "part two"},
		},
	}
	resp := toCompletionResponse(r)
	assert.Equal(t, "part one part two", resp.Content)
}
