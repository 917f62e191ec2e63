// groq.go implements the Groq provider over its OpenAI-compatible chat
// completions endpoint. Plain net/http: the wire format is three small
// structs and an SDK would only hide the retry behaviour we care about.
//
// Requests are paced at least 100ms apart and 429s retried with
// exponential backoff, since free-tier Groq rate limits are easy to hit
// during a regeneration loop.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jpl-au/revdrill/internal/config"
)

// DefaultGroqBaseURL is the OpenAI-compatible Groq endpoint.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

const (
	maxRetries  = 3
	minInterval = 100 * time.Millisecond
)

// chatMessage is one entry in the conversation sent to the API.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the OpenAI-compatible completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the OpenAI-compatible completion response body.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

var _ Client = (*GroqClient)(nil)

// GroqClient talks to the Groq chat completions API.
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// NewGroq creates a Groq client from resolved options.
func NewGroq(opts Options) *GroqClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultGroqModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout * time.Second
	}
	return &GroqClient{
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Model returns the model identifier.
func (c *GroqClient) Model() string {
	return c.model
}

// Complete sends a prompt and returns the completion.
func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *GroqClient) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	// Apply the client timeout when the caller brings no deadline of its own.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	// Pace requests to stay under per-second rate limits.
	c.mu.Lock()
	if elapsed := time.Since(c.lastRequest); elapsed < minInterval {
		time.Sleep(minInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	var messages []chatMessage
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// Retry loop for rate limits and transient transport failures.
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			case <-ctx.Done():
				return "", fmt.Errorf("groq request: %w", ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("groq request failed with status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(respBody)))
		}

		var parsed chatResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return "", fmt.Errorf("parse response: %w", err)
		}
		if parsed.Error != nil {
			return "", fmt.Errorf("groq error: %s", parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return "", ErrEmptyCompletion
		}

		out := strings.TrimSpace(parsed.Choices[0].Message.Content)
		if out == "" {
			return "", ErrEmptyCompletion
		}
		return out, nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}
