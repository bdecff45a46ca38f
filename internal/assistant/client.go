package assistant

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/rythu-saathi/backend/internal/svcerr"
)

// ErrUnconfigured indicates no Gemini API key is set.
var ErrUnconfigured = errors.New("assistant: api key not configured")

const (
	opClientNew = "assistant.client.new"
	opGenerate  = "assistant.generate"
)

// ClientConfig configures the Gemini client.
type ClientConfig struct {
	APIKey string
	Model  string
}

// Client wraps the Gemini SDK for text and vision generation.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs the Gemini client. A missing API key returns a nil
// client without error so callers can run in fallback mode.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, svcerr.New(opClientNew, "client_init_failed", err)
	}
	return &Client{client: client, model: model}, nil
}

// Configured reports whether the client can reach the model.
func (c *Client) Configured() bool {
	return c != nil && c.client != nil
}

// GenerateText sends a text prompt under the given system instruction.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrUnconfigured
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	response, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", svcerr.New(opGenerate, "text_generation_failed", err)
	}
	return response.Text(), nil
}

// GenerateFromImage sends an image plus an instruction prompt.
func (c *Client) GenerateFromImage(ctx context.Context, prompt string, imageData []byte, mimeType string) (string, error) {
	if !c.Configured() {
		return "", ErrUnconfigured
	}
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(imageData, mimeType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	response, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", svcerr.New(opGenerate, "vision_generation_failed", err)
	}
	return response.Text(), nil
}
