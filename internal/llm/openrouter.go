// Package llm provides the chat-completion client used to answer queries
// grounded in retrieved chunks.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ragserve/internal/domain"
)

// OpenRouterClient talks to an OpenRouter-compatible chat completions API.
type OpenRouterClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Config configures the OpenRouter client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewOpenRouterClient creates a client using the provided configuration.
// The API key is read from the environment variable named by APIKeyEnv.
func NewOpenRouterClient(cfg Config) (*OpenRouterClient, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistralai/mistral-7b-instruct"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &OpenRouterClient{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Complete sends the query with retrieved sources as grounding context and
// returns the model's answer. With no sources, the query is sent with a
// plain assistant instruction instead.
func (c *OpenRouterClient) Complete(ctx context.Context, query string, sources []domain.SearchResult) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	payload := struct {
		Model    string    `json:"model"`
		Messages []message `json:"messages"`
	}{
		Model:    c.model,
		Messages: []message{{Role: "user", Content: buildPrompt(query, sources)}},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode chat completion response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("chat completion failed: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// buildPrompt renders the query and its context chunks into a single user
// message instructing the model to answer from the context alone.
func buildPrompt(query string, sources []domain.SearchResult) string {
	var b strings.Builder
	if len(sources) == 0 {
		b.WriteString("You are a helpful AI assistant. Please answer the following query:\n\n")
		b.WriteString("Query: ")
		b.WriteString(query)
		b.WriteString("\n\nAnswer:")
		return b.String()
	}

	b.WriteString("You are a helpful AI assistant. Your task is to answer the user's query based solely on the provided context from documents. ")
	b.WriteString("Do not use any external knowledge. If the answer cannot be found within the provided context, clearly state that. ")
	b.WriteString("When formulating your answer, be concise and directly address the query.\n")
	b.WriteString("\n--- Context from Documents ---\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "Source %d:\n", i+1)
		fmt.Fprintf(&b, "  Document: %s\n", src.DocumentName)
		fmt.Fprintf(&b, "  Chunk: %d\n", src.ChunkNumber)
		fmt.Fprintf(&b, "  Text: %q\n", src.Text)
		b.WriteString("---\n")
	}
	b.WriteString("\n--- User Query ---\n")
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString("--- Answer ---\n")
	b.WriteString("Based on the provided context:\n")
	return b.String()
}
