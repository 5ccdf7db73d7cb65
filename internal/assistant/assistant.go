// Package assistant answers portfolio questions through a Gemini model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"QuantPilot/internal/model"
)

var (
	ErrEmptyMessage  = errors.New("message is required")
	ErrEmptyResponse = errors.New("model returned no text")
	ErrNotConfigured = errors.New("AI assistant is not configured")
)

// Request is one chat turn with the portfolio context it refers to.
type Request struct {
	Message       string                `json:"message"`
	Portfolio     []model.Holding       `json:"portfolio"`
	SelectedStock string                `json:"selectedStock"`
	Latest        *model.IndicatorPoint `json:"-"`
}

// Assistant produces a reply to a chat request.
type Assistant interface {
	Chat(ctx context.Context, req Request) (string, error)
}

const temperature = 0.7

// GeminiAssistant implements Assistant on the Gemini API.
type GeminiAssistant struct {
	client *genai.Client
	model  string
}

// NewGeminiAssistant creates a client for the Gemini developer API.
func NewGeminiAssistant(ctx context.Context, apiKey, model string) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiAssistant{client: client, model: model}, nil
}

func (a *GeminiAssistant) Chat(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}
	temp := float32(temperature)
	config := &genai.GenerateContentConfig{
		Temperature:       &temp,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemPrompt(req)}}},
	}
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(req.Message), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// Unavailable answers every request with an error; used when no API key is configured.
type Unavailable struct{}

func (Unavailable) Chat(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}
