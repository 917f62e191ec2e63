// gemini.go implements the Gemini provider via the google.golang.org/genai
// SDK. Unlike Groq there is no OpenAI-compatible surface, so the SDK
// carries the wire format; this file only maps Options onto it.

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jpl-au/revdrill/internal/config"
	"google.golang.org/genai"
)

var _ Client = (*GeminiClient)(nil)

// GeminiClient talks to the Gemini API through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
}

// NewGemini creates a Gemini client from resolved options.
func NewGemini(opts Options) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: opts.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout * time.Second
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(opts.Temperature),
		maxTokens:   int32(opts.MaxTokens),
		timeout:     timeout,
	}, nil
}

// Model returns the model identifier.
func (c *GeminiClient) Model() string {
	return c.model
}

// Complete sends a prompt and returns the completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system instruction.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxTokens,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(user, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}
