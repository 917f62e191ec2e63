// Package llm provides the language model clients behind exercise
// generation and review grading. Two providers are supported: Groq via its
// OpenAI-compatible chat completions API, and Google Gemini via the genai
// SDK. Callers depend on the Client interface so tests can substitute a
// stub.
//
// Each LLM role runs its own model and temperature: generation wants
// variety, grading wants consistency. Roles resolve their settings from
// config; unset models fall back to the provider default.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jpl-au/revdrill/internal/config"
)

var (
	// ErrNoAPIKey is returned when neither config nor the provider's
	// environment variable supplies a key.
	ErrNoAPIKey = errors.New("no API key configured")
	// ErrUnknownProvider is returned for providers other than groq/gemini.
	ErrUnknownProvider = errors.New("unknown LLM provider")
	// ErrEmptyCompletion is returned when the provider answers with no text.
	ErrEmptyCompletion = errors.New("no completion returned")
)

// Client is the completion interface the rest of revdrill depends on.
type Client interface {
	// Complete sends a prompt and returns the completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithSystem sends a prompt with a system message.
	CompleteWithSystem(ctx context.Context, system, user string) (string, error)

	// Model returns the model identifier, for logging and status output.
	Model() string
}

// Role selects which model/temperature pair a call runs with.
type Role string

const (
	// RoleGenerative writes exercise code. High temperature for variety.
	RoleGenerative Role = "generative"
	// RoleReview grades code and reviews. Low temperature for consistency.
	RoleReview Role = "review"
	// RoleSummary condenses feedback into guidance.
	RoleSummary Role = "summary"
	// RoleComparison writes the final teaching report.
	RoleComparison Role = "comparison"
)

// Provider default models.
const (
	DefaultGroqModel   = "llama3-8b-8192"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Options carries the resolved settings for one client.
type Options struct {
	Provider    string
	APIKey      string
	BaseURL     string // empty means provider default
	Model       string // empty means provider default
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// FromConfig resolves Options for a role from configuration.
func FromConfig(cfg *config.Config, role Role) Options {
	return Options{
		Provider:    cfg.Provider(),
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.BaseURL(),
		Model:       cfg.ModelFor(string(role)),
		Temperature: cfg.TemperatureFor(string(role)),
		MaxTokens:   cfg.MaxTokens(),
		Timeout:     cfg.Timeout(),
	}
}

// New returns a provider client for the options.
func New(opts Options) (Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrNoAPIKey, opts.Provider)
	}
	switch opts.Provider {
	case "", "groq":
		return NewGroq(opts), nil
	case "gemini":
		return NewGemini(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}

// ForRole builds the client for a role straight from configuration.
func ForRole(cfg *config.Config, role Role) (Client, error) {
	return New(FromConfig(cfg, role))
}

// Ping verifies connectivity with a tiny completion. Used by `revdrill llm
// check` so a bad key or endpoint surfaces before an exercise burns a real
// generation call.
func Ping(ctx context.Context, c Client) error {
	out, err := c.Complete(ctx, "test")
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		return ErrEmptyCompletion
	}
	return nil
}
