package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsdigest/internal/config"
)

func TestOpenAIClient_SendsSingleUserMessage(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"75"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test", srv.URL, "llama3.1:8b", 5*time.Second)
	out, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "75", out)
	assert.Equal(t, "llama3.1:8b", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test", srv.URL, "m", 5*time.Second)
	_, err := c.Generate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test", srv.URL, "m", 5*time.Second)
	_, err := c.Generate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestNew_RequiresKeys(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: config.LLMOpenAI})
	assert.Error(t, err)

	_, err = New(context.Background(), config.LLMConfig{Provider: config.LLMGemini})
	assert.Error(t, err)

	_, err = New(context.Background(), config.LLMConfig{Provider: "bogus"})
	assert.Error(t, err)

	g, err := New(context.Background(), config.LLMConfig{Provider: config.LLMOllama, Model: "llama3.1:8b"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, g)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<html></html>", "<html></html>"},
		{"```html\n<html></html>\n```", "<html></html>"},
		{"```\n<p>x</p>\n```\n", "<p>x</p>"},
		{"  <p>y</p>  ", "<p>y</p>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFence(tt.in))
	}
}
