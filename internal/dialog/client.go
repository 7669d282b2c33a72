// Package dialog is the gateway to the downstream dialogue generator. The
// generator itself is an external service; this package formats retrieval
// candidates into its context, calls it, and parses the structured reply.
package dialog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
)

// Generator produces the assistant reply for a turn.
type Generator interface {
	Generate(ctx context.Context, message string, history []catalog.Turn, productContext string) (string, error)
}

// Client calls an Anthropic-style messages endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	system      string
}

// Config holds dialog client configuration.
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	SystemPrompt string
}

// NewClient creates a dialog client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	system := cfg.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		system:      system,
	}, nil
}

const defaultSystemPrompt = `You are a garden equipment shopping assistant.
Answer in the user's language, recommending only products from the supplied
candidate list. Wrap your answer in <reply></reply> and list the ids of the
products you recommend, comma separated, in <products></products>. For
comparison requests you may add a <comparison></comparison> JSON table.`

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the turn to the generator and returns its raw reply. The
// product context rides inside the user message so the generator always sees
// candidates and conversation in one place.
func (c *Client) Generate(ctx context.Context, message string, history []catalog.Turn, productContext string) (string, error) {
	messages := make([]chatMessage, 0, len(history)+1)
	for _, t := range history {
		messages = append(messages, chatMessage{Role: t.Role, Content: t.Content})
	}

	content := message
	if productContext != "" {
		content = fmt.Sprintf("User message: %s\n\nCANDIDATE PRODUCTS:\n%s\n\nUse the exact ids from the JSON above in the <products> tag.",
			message, productContext)
	}
	messages = append(messages, chatMessage{Role: "user", Content: content})

	jsonBody, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		System:      c.system,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var msgResp messagesResponse
	if resp.StatusCode != http.StatusOK {
		if err := json.Unmarshal(body, &msgResp); err == nil && msgResp.Error != nil {
			return "", fmt.Errorf("dialog API error: %s (type: %s)", msgResp.Error.Message, msgResp.Error.Type)
		}
		return "", fmt.Errorf("dialog API error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(msgResp.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return msgResp.Content[0].Text, nil
}

// contextProduct is the candidate shape handed to the generator.
type contextProduct struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Price    string            `json:"price"`
	Specs    map[string]string `json:"specs,omitempty"`
	URL      string            `json:"url,omitempty"`
	Score    float64           `json:"score"`
}

// FormatCandidates renders ranked results as the JSON context block for the
// generator. Scores are rounded to three decimals; descriptions are left out,
// the generator works from name, category and specs.
func FormatCandidates(ranked []retrieval.RankedResult) (string, error) {
	products := make([]contextProduct, 0, len(ranked))
	for _, r := range ranked {
		products = append(products, contextProduct{
			ID:       r.Product.ID,
			Name:     r.Product.Name,
			Category: r.Product.Category,
			Price:    r.Product.Price,
			Specs:    r.Product.Specs,
			URL:      r.Product.URL,
			Score:    float64(int(r.Score*1000+0.5)) / 1000,
		})
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}
	return string(data), nil
}

var _ Generator = (*Client)(nil)
