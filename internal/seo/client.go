package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adamnowak/shop-api/internal/models"
)

const defaultBaseURL = "https://api.groq.com/openai/v1/chat/completions"

// Client generates short SEO product descriptions through the Groq
// chat-completions API.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
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
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Describe(ctx context.Context, product models.Product) (string, error) {
	if c == nil || c.APIKey == "" {
		return "", fmt.Errorf("seo: api key not configured")
	}

	payload := chatRequest{
		Model: "llama-3.1-8b-instant",
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are an SEO expert. You write plain-text product descriptions of at most 3 sentences.",
			},
			{
				Role: "user",
				Content: fmt.Sprintf(
					"Product name: %s\nOriginal description: %s\nCategory: %s\nPrice: %.2f\nWeight: %.2f\n\nWrite a persuasive SEO product description (at most 3 sentences).",
					product.Name, product.Description, product.CategoryName, product.PriceUnit, product.WeightUnit,
				),
			},
		},
		Temperature: 0.5,
		MaxTokens:   300,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("seo: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, &buf)
	if err != nil {
		return "", fmt.Errorf("seo: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("seo: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("seo: request failed with status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("seo: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("seo: empty completion")
	}
	return result.Choices[0].Message.Content, nil
}
