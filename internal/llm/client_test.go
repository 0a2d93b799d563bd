package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

func TestGenerateParsesCompletion(t *testing.T) {
	server := completionServer(t, `{"introduction": "Hello"}`)
	defer server.Close()

	client := NewClientWithOptions("test-key", server.URL, defaultModel, server.Client())

	content, err := client.Generate(context.Background(), "Build a site")
	require.NoError(t, err)

	var template map[string]string
	require.NoError(t, json.Unmarshal(content, &template))
	assert.Equal(t, "Hello", template["introduction"])
}

func TestGenerateStripsCodeFences(t *testing.T) {
	server := completionServer(t, "```json\n{\"introduction\": \"Hello\"}\n```")
	defer server.Close()

	client := NewClientWithOptions("test-key", server.URL, defaultModel, server.Client())

	content, err := client.Generate(context.Background(), "Build a site")
	require.NoError(t, err)
	assert.True(t, json.Valid(content))
}

func TestGenerateFallsBackOnInvalidJSON(t *testing.T) {
	server := completionServer(t, "sorry, I cannot produce JSON today")
	defer server.Close()

	client := NewClientWithOptions("test-key", server.URL, defaultModel, server.Client())

	content, err := client.Generate(context.Background(), "Build a site")
	require.NoError(t, err)

	var template map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &template))
	assert.Contains(t, template["understanding"], "Build a site")
}

func TestGenerateFallsBackOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithOptions("test-key", server.URL, defaultModel, server.Client())

	content, err := client.Generate(context.Background(), "Build a site")
	require.NoError(t, err)
	assert.True(t, json.Valid(content))
}

func TestGenerateWithoutAPIKeyUsesFallback(t *testing.T) {
	client := NewClientWithOptions("", "http://unused", defaultModel, nil)

	content, err := client.Generate(context.Background(), "Build a site")
	require.NoError(t, err)

	var template map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &template))
	assert.Contains(t, template, "introduction")
	assert.Contains(t, template, "budget")
}

func TestRegenerateFallbackAnnotatesRevision(t *testing.T) {
	client := NewClientWithOptions("", "http://unused", defaultModel, nil)

	current, _ := json.Marshal(map[string]string{"introduction": "Hello"})

	content, err := client.Regenerate(context.Background(), current, "tighten budget", "done")
	require.NoError(t, err)

	var template map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &template))
	assert.Equal(t, "Hello", template["introduction"])

	notes, ok := template["revision_notes"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "tighten budget", notes["admin_recommendations"])
	assert.Equal(t, "done", notes["bd_response"])
}
