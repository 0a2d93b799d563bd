// Package llm generates proposal template content through the Groq
// chat-completions API. Without an API key, or when the upstream call or JSON
// parse fails, it falls back to the built-in static template so proposal
// creation never depends on the LLM being reachable.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxResponseSize limits the completion response body to prevent memory
// exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama3-70b-8192"
)

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client from GROQ_API_KEY. An empty key is not an error;
// the client then serves only fallback templates.
func NewClient() *Client {
	return &Client{
		apiKey:     os.Getenv("GROQ_API_KEY"),
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
	}
}

// NewClientWithOptions is used by tests to point the client at a stub server.
func NewClientWithOptions(apiKey, baseURL, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     slog.Default(),
	}
}

// Generate produces the structured template JSON for a new proposal.
func (c *Client) Generate(ctx context.Context, projectDescription string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return fallbackTemplate(projectDescription), nil
	}

	prompt := fmt.Sprintf(`Generate a structured JSON template for an Upwork proposal based on this project description:
%s

The JSON should include sections for:
- introduction: A compelling opening paragraph
- understanding: Your understanding of the project requirements
- proposed_solution: Detailed solution approach with steps
- timeline: Estimated timeline with phases
- budget: Budget breakdown with justification
- why_choose_us: Why you're the best choice for this project
- portfolio_examples: Relevant experience or examples
- questions: Any clarifying questions for the client

Return only valid JSON without any additional text or markdown formatting.
Make it professional and tailored to the specific project description.`, projectDescription)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("template generation failed, using fallback", "error", err)
		return fallbackTemplate(projectDescription), nil
	}

	return content, nil
}

// Regenerate rewrites the template content of a proposal under revision,
// folding in the reviewer's recommendations and the owner's response.
func (c *Client) Regenerate(ctx context.Context, current json.RawMessage, recommendations, bdResponse string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return revisedFallback(current, recommendations, bdResponse), nil
	}

	prompt := fmt.Sprintf(`Based on the current proposal JSON: %s

Admin recommendations: %s
Business Developer recommendations: %s

Regenerate the proposal JSON incorporating both sets of recommendations while
keeping the same section structure. Return only valid JSON without any
additional text or markdown formatting.`, current, recommendations, bdResponse)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("template regeneration failed, using fallback", "error", err)
		return revisedFallback(current, recommendations, bdResponse), nil
	}

	return content, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete runs one chat completion and returns the response content as
// validated JSON.
func (c *Client) complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	requestID := uuid.NewString()

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", requestID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: upstream status %d", requestID, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("request %s: empty completion", requestID)
	}

	content := stripFences(parsed.Choices[0].Message.Content)

	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("request %s: completion is not valid JSON", requestID)
	}

	return json.RawMessage(content), nil
}

// stripFences removes a markdown code fence if the model wrapped its output
// in one despite instructions.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
