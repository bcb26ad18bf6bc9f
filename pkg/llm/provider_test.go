package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatBody struct {
	Model            string  `json:"model"`
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	Messages         []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, reply string, status int, seen *chatBody) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			assert.NoError(t, json.Unmarshal(body, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sampleRequest() CompletionRequest {
	return CompletionRequest{
		System:           "You are a gift advisor.",
		Prompt:           "Suggest gifts.",
		Temperature:      0.4,
		MaxTokens:        1000,
		PresencePenalty:  0.2,
		FrequencyPenalty: 0.5,
	}
}

func TestOpenAIProviderSendsSystemAndPrompt(t *testing.T) {
	var seen chatBody
	srv := chatServer(t, "  Gift 1:\nName: Mug\n", http.StatusOK, &seen)

	p := NewOpenAI("sk-test", "", srv.URL+"/v1")
	out, err := p.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Gift 1:\nName: Mug", out)
	assert.Equal(t, "gpt-4", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "You are a gift advisor.", seen.Messages[0].Content)
	assert.Equal(t, "Suggest gifts.", seen.Messages[1].Content)
	assert.Equal(t, 1000, seen.MaxTokens)
	assert.InDelta(t, 0.5, seen.FrequencyPenalty, 0.001)
}

func TestOpenAIProviderMapsFailures(t *testing.T) {
	srv := chatServer(t, "", http.StatusUnauthorized, nil)
	_, err := NewOpenAI("bad", "", srv.URL+"/v1").Generate(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrUnavailable)

	empty := chatServer(t, "   ", http.StatusOK, nil)
	_, err = NewOpenAI("sk", "", empty.URL+"/v1").Generate(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompatibleProvider(t *testing.T) {
	var seen chatBody
	srv := chatServer(t, "Gift 1:\nName: Book", http.StatusOK, &seen)

	p := NewCompatible(srv.URL+"/v1/", "", "llama")
	out, err := p.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Gift 1:\nName: Book", out)
	assert.Equal(t, "llama", seen.Model)
	assert.InDelta(t, 0.4, seen.Temperature, 0.001)
	assert.Equal(t, ProviderCompatible, p.Name())
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic(func(req CompletionRequest) string { return "echo: " + req.Prompt })
	out, err := p.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "echo: Suggest gifts.", out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Generate(ctx, sampleRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{ProviderOpenAI, ProviderGemini, ProviderArk} {
		_, err := New(ctx, Config{Provider: name})
		assert.ErrorIs(t, err, ErrNoCredentials, name)
	}

	_, err := New(ctx, Config{Provider: ProviderCompatible})
	assert.Error(t, err)

	_, err = New(ctx, Config{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)

	g, err := New(ctx, Config{Provider: " OpenAI ", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, g.Name())
}
