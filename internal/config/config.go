// Package config provides reading and writing of revdrill configuration.
// Supports both global (~/.revdrill/config.yaml) and local (.revdrill/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.revdrill/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .revdrill/config.yaml
	ScopeLocal
)

// User identifies the account the CLI acts as. Set by `revdrill login`.
type User struct {
	Name    string `yaml:"name,omitempty"`
	Display string `yaml:"display,omitempty"`
}

// Role holds the model and sampling temperature for one LLM role. Each
// role runs at its own temperature: code generation wants variety, review
// grading wants consistency.
type Role struct {
	Model       string   `yaml:"model,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// LLM holds provider connection settings and the per-role models.
type LLM struct {
	Provider   string `yaml:"provider,omitempty"` // groq or gemini
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	MaxTokens  *int   `yaml:"max_tokens,omitempty"`
	Timeout    *int   `yaml:"timeout,omitempty"` // seconds per request
	Generative Role   `yaml:"generative,omitempty"`
	Review     Role   `yaml:"review,omitempty"`
	Summary    Role   `yaml:"summary,omitempty"`
	Comparison Role   `yaml:"comparison,omitempty"`
}

// Exercise holds default settings for generated exercises.
type Exercise struct {
	Difficulty  string   `yaml:"difficulty,omitempty"`
	Length      string   `yaml:"length,omitempty"`
	ErrorCount  *int     `yaml:"error_count,omitempty"`
	MaxAttempts *int     `yaml:"max_attempts,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
	Taxonomy    string   `yaml:"taxonomy,omitempty"` // external catalog file
}

// Limits holds size limit configuration options.
type Limits struct {
	MaxReview       *int64 `yaml:"max_review,omitempty"`
	MaxCode         *int64 `yaml:"max_code,omitempty"`
	LeaderboardSize *int   `yaml:"leaderboard_size,omitempty"`
}

// Defaults applied when not configured. Per-role models default to the
// provider's own default model, resolved in the llm package.
const (
	DefaultProvider    = "groq"
	DefaultMaxTokens   = 4096
	DefaultTimeout     = 120 // seconds
	DefaultDifficulty  = "medium"
	DefaultLength      = "medium"
	DefaultErrorCount  = 4
	DefaultMaxAttempts = 3
	DefaultMaxReview   = 1024 * 1024       // 1 MB
	DefaultMaxCode     = 256 * 1024        // 256 KB
	DefaultLeaderboard = 10
)

// Default role temperatures.
const (
	DefaultGenerativeTemp = 0.8
	DefaultReviewTemp     = 0.3
	DefaultSummaryTemp    = 0.4
	DefaultComparisonTemp = 0.5
)

// Validation bounds for configuration values.
const (
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
	MinMaxTokens       = 1
	MaxMaxTokens       = 128 * 1024
	MinTimeout         = 1
	MaxTimeout         = 3600
	MinErrorCount      = 1
	MaxErrorCount      = 10
	MinMaxAttempts     = 1
	MaxMaxAttempts     = 10
	MinLimit           = 1
	MaxLimitBytes      = 64 * 1024 * 1024 // 64 MB upper bound for text limits
	MinLeaderboardSize = 1
	MaxLeaderboardSize = 100
)

// Config contains configuration for revdrill.
type Config struct {
	User     User     `yaml:"user,omitempty"`
	LLM      LLM      `yaml:"llm,omitempty"`
	Exercise Exercise `yaml:"exercise,omitempty"`
	Limits   Limits   `yaml:"limits,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "", "groq", "gemini":
	default:
		return fmt.Errorf("%w: llm.provider must be groq or gemini, got %q",
			ErrInvalidValue, c.LLM.Provider)
	}
	for _, r := range []struct {
		name string
		role Role
	}{
		{"generative", c.LLM.Generative},
		{"review", c.LLM.Review},
		{"summary", c.LLM.Summary},
		{"comparison", c.LLM.Comparison},
	} {
		if r.role.Temperature != nil {
			v := *r.role.Temperature
			if v < MinTemperature || v > MaxTemperature {
				return fmt.Errorf("%w: llm.%s.temperature must be between %g and %g, got %g",
					ErrInvalidValue, r.name, MinTemperature, MaxTemperature, v)
			}
		}
	}
	if c.LLM.MaxTokens != nil {
		v := *c.LLM.MaxTokens
		if v < MinMaxTokens || v > MaxMaxTokens {
			return fmt.Errorf("%w: llm.max_tokens must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxTokens, MaxMaxTokens, v)
		}
	}
	if c.LLM.Timeout != nil {
		v := *c.LLM.Timeout
		if v < MinTimeout || v > MaxTimeout {
			return fmt.Errorf("%w: llm.timeout must be between %d and %d seconds, got %d",
				ErrInvalidValue, MinTimeout, MaxTimeout, v)
		}
	}
	switch c.Exercise.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: exercise.difficulty must be easy, medium or hard, got %q",
			ErrInvalidValue, c.Exercise.Difficulty)
	}
	switch c.Exercise.Length {
	case "", "short", "medium", "long":
	default:
		return fmt.Errorf("%w: exercise.length must be short, medium or long, got %q",
			ErrInvalidValue, c.Exercise.Length)
	}
	if c.Exercise.ErrorCount != nil {
		v := *c.Exercise.ErrorCount
		if v < MinErrorCount || v > MaxErrorCount {
			return fmt.Errorf("%w: exercise.error_count must be between %d and %d, got %d",
				ErrInvalidValue, MinErrorCount, MaxErrorCount, v)
		}
	}
	if c.Exercise.MaxAttempts != nil {
		v := *c.Exercise.MaxAttempts
		if v < MinMaxAttempts || v > MaxMaxAttempts {
			return fmt.Errorf("%w: exercise.max_attempts must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxAttempts, MaxMaxAttempts, v)
		}
	}
	if c.Limits.MaxReview != nil {
		v := *c.Limits.MaxReview
		if v < MinLimit || v > MaxLimitBytes {
			return fmt.Errorf("%w: limits.max_review must be between %d and %d, got %d",
				ErrInvalidValue, MinLimit, MaxLimitBytes, v)
		}
	}
	if c.Limits.MaxCode != nil {
		v := *c.Limits.MaxCode
		if v < MinLimit || v > MaxLimitBytes {
			return fmt.Errorf("%w: limits.max_code must be between %d and %d, got %d",
				ErrInvalidValue, MinLimit, MaxLimitBytes, v)
		}
	}
	if c.Limits.LeaderboardSize != nil {
		v := *c.Limits.LeaderboardSize
		if v < MinLeaderboardSize || v > MaxLeaderboardSize {
			return fmt.Errorf("%w: limits.leaderboard_size must be between %d and %d, got %d",
				ErrInvalidValue, MinLeaderboardSize, MaxLeaderboardSize, v)
		}
	}
	return nil
}

// Username returns the logged-in account name, empty when logged out.
func (c *Config) Username() string {
	return c.User.Name
}

// Provider returns the configured LLM provider (defaults to groq).
func (c *Config) Provider() string {
	if c.LLM.Provider == "" {
		return DefaultProvider
	}
	return c.LLM.Provider
}

// APIKey returns the configured key, falling back to the provider's
// conventional environment variable (GROQ_API_KEY or GEMINI_API_KEY).
func (c *Config) APIKey() string {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey
	}
	switch c.Provider() {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("GROQ_API_KEY")
	}
}

// BaseURL returns the configured endpoint, empty when the provider default
// applies.
func (c *Config) BaseURL() string {
	return c.LLM.BaseURL
}

// MaxTokens returns the response token budget (defaults to 4096).
func (c *Config) MaxTokens() int {
	if c.LLM.MaxTokens == nil {
		return DefaultMaxTokens
	}
	return *c.LLM.MaxTokens
}

// Timeout returns the per-request timeout (defaults to 120s).
func (c *Config) Timeout() time.Duration {
	if c.LLM.Timeout == nil {
		return DefaultTimeout * time.Second
	}
	return time.Duration(*c.LLM.Timeout) * time.Second
}

// ModelFor returns the configured model for an LLM role name (generative,
// review, summary, comparison). Empty when unset; the llm package resolves
// the provider default.
func (c *Config) ModelFor(role string) string {
	r := c.roleFor(role)
	if r == nil {
		return ""
	}
	return r.Model
}

// TemperatureFor returns the sampling temperature for an LLM role name.
func (c *Config) TemperatureFor(role string) float64 {
	r := c.roleFor(role)
	if r != nil && r.Temperature != nil {
		return *r.Temperature
	}
	switch role {
	case "generative":
		return DefaultGenerativeTemp
	case "review":
		return DefaultReviewTemp
	case "summary":
		return DefaultSummaryTemp
	case "comparison":
		return DefaultComparisonTemp
	default:
		return DefaultReviewTemp
	}
}

func (c *Config) roleFor(role string) *Role {
	switch role {
	case "generative":
		return &c.LLM.Generative
	case "review":
		return &c.LLM.Review
	case "summary":
		return &c.LLM.Summary
	case "comparison":
		return &c.LLM.Comparison
	default:
		return nil
	}
}

// Difficulty returns the default exercise difficulty (defaults to medium).
func (c *Config) Difficulty() string {
	if c.Exercise.Difficulty == "" {
		return DefaultDifficulty
	}
	return c.Exercise.Difficulty
}

// Length returns the default generated-code length (defaults to medium).
func (c *Config) Length() string {
	if c.Exercise.Length == "" {
		return DefaultLength
	}
	return c.Exercise.Length
}

// ErrorCount returns the base number of errors per exercise (defaults to 4).
// Difficulty adjustment happens at selection time, not here.
func (c *Config) ErrorCount() int {
	if c.Exercise.ErrorCount == nil {
		return DefaultErrorCount
	}
	return *c.Exercise.ErrorCount
}

// MaxAttempts returns the generation retry budget (defaults to 3).
func (c *Config) MaxAttempts() int {
	if c.Exercise.MaxAttempts == nil {
		return DefaultMaxAttempts
	}
	return *c.Exercise.MaxAttempts
}

// Categories returns the default category selection. Empty means all
// catalog categories.
func (c *Config) Categories() []string {
	return c.Exercise.Categories
}

// TaxonomyFile returns the external catalog path, empty when the embedded
// catalog applies.
func (c *Config) TaxonomyFile() string {
	return c.Exercise.Taxonomy
}

// MaxReview returns the maximum review size in bytes (defaults to 1 MB).
func (c *Config) MaxReview() int64 {
	if c.Limits.MaxReview == nil {
		return DefaultMaxReview
	}
	return *c.Limits.MaxReview
}

// MaxCode returns the maximum stored code size in bytes (defaults to 256 KB).
func (c *Config) MaxCode() int64 {
	if c.Limits.MaxCode == nil {
		return DefaultMaxCode
	}
	return *c.Limits.MaxCode
}

// LeaderboardSize returns the number of leaderboard rows (defaults to 10).
func (c *Config) LeaderboardSize() int {
	if c.Limits.LeaderboardSize == nil {
		return DefaultLeaderboard
	}
	return *c.Limits.LeaderboardSize
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(".revdrill", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.revdrill/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".revdrill", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	// Check if local config exists
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	// Fall back to global
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
