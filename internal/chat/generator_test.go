package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"uni-assistant/internal/chat"
	"uni-assistant/internal/database"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	} `json:"messages"`
}

func fakeCompletionServer(t *testing.T, reply string, status int, seen *completionRequest) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(seen))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`)) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   seen.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

var priorTurns = []chat.Turn{
	{Sender: database.SenderUser, Text: "earlier question"},
	{Sender: database.SenderAI, Text: "earlier answer"},
}

func TestOpenAIGenerator(t *testing.T) {
	var seen completionRequest
	server := fakeCompletionServer(t, "Visit MyVU.", http.StatusOK, &seen)

	gen := chat.NewOpenAIGenerator("test-key", "gpt-3.5-turbo", chat.DefaultSystemPrompt,
		option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))

	reply, err := gen.Generate(context.Background(), priorTurns, "Where are my results?")
	require.NoError(t, err)
	assert.Equal(t, "Visit MyVU.", reply)
	assert.Equal(t, "gpt-3.5-turbo", gen.Model())

	assert.Equal(t, "gpt-3.5-turbo", seen.Model)
	require.Len(t, seen.Messages, 4)
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, []string{
		seen.Messages[0].Role, seen.Messages[1].Role, seen.Messages[2].Role, seen.Messages[3].Role,
	})
	assert.Equal(t, "Where are my results?", seen.Messages[3].Content)
}

func TestOpenAIGeneratorError(t *testing.T) {
	var seen completionRequest
	server := fakeCompletionServer(t, "", http.StatusInternalServerError, &seen)

	gen := chat.NewOpenAIGenerator("test-key", "gpt-3.5-turbo", "",
		option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))

	_, err := gen.Generate(context.Background(), nil, "hi")
	assert.Error(t, err)
	require.Len(t, seen.Messages, 1)
}

func TestLangchainGenerator(t *testing.T) {
	var seen completionRequest
	server := fakeCompletionServer(t, "Footscray Park.", http.StatusOK, &seen)

	gen, err := chat.NewLangchainGenerator("test-key", "gpt-3.5-turbo", chat.DefaultSystemPrompt,
		lcopenai.WithBaseURL(server.URL))
	require.NoError(t, err)

	reply, err := gen.Generate(context.Background(), priorTurns, "Which campus?")
	require.NoError(t, err)
	assert.Equal(t, "Footscray Park.", reply)

	require.Len(t, seen.Messages, 4)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "assistant", seen.Messages[2].Role)
}
