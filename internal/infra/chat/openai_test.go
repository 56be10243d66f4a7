package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hogwarts-artifacts/config"
	"hogwarts-artifacts/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const systemPrompt = "Your task is to generate a short summary of a given JSON array in at most 100 words."

func TestOpenAIClientGenerate(t *testing.T) {
	var got struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-3.5-turbo",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"logprobs": null,
				"message": {"role": "assistant", "content": "The summary includes six artifacts owned by three different wizards.", "refusal": null}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key"})

	resp, err := client.Generate(context.Background(), Request{
		Model: "gpt-3.5-turbo",
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "A json array."},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	assert.Equal(t, "The summary includes six artifacts owned by three different wizards.", resp.Choices[0].Message.Content)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "A json array.", got.Messages[1].Content)
}

func TestOpenAIClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided: sk-xxx.", "type": "invalid_request_error", "param": null, "code": "invalid_api_key"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(config.AIConfig{BaseURL: srv.URL + "/", APIKey: "wrong"})

	_, err := client.Generate(context.Background(), Request{
		Model:    "gpt-3.5-turbo",
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindUpstream, appErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.NotEmpty(t, appErr.Data)
}
