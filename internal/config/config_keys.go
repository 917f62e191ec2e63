// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic. This separation allows config.go to focus on YAML structure
// and loading, while this file handles the MCP and CLI interface where config
// is accessed by string keys (e.g., "llm.review.temperature").
//
// Design: Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero". This enables proper
// defaulting - we only apply defaults when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// roleKeys are the LLM roles addressable as llm.<role>.model and
// llm.<role>.temperature.
var roleKeys = []string{"generative", "review", "summary", "comparison"}

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	keys := []string{
		"user.name", "user.display",
		"llm.provider", "llm.api_key", "llm.base_url", "llm.max_tokens", "llm.timeout",
	}
	for _, r := range roleKeys {
		keys = append(keys, "llm."+r+".model", "llm."+r+".temperature")
	}
	keys = append(keys,
		"exercise.difficulty", "exercise.length", "exercise.error_count",
		"exercise.max_attempts", "exercise.categories", "exercise.taxonomy",
		"limits.max_review", "limits.max_code", "limits.leaderboard_size",
	)
	return keys
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// roleKey splits an llm.<role>.<field> key, returning nil when the key is
// not role-shaped.
func (c *Config) roleKey(key string) (*Role, string) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "llm" || !slices.Contains(roleKeys, parts[1]) {
		return nil, ""
	}
	return c.roleFor(parts[1]), parts[2]
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	if r, field := c.roleKey(key); r != nil {
		switch field {
		case "model":
			return r.Model, nil
		case "temperature":
			return strconv.FormatFloat(c.TemperatureFor(strings.Split(key, ".")[1]), 'g', -1, 64), nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	switch key {
	case "user.name":
		return c.User.Name, nil
	case "user.display":
		return c.User.Display, nil
	case "llm.provider":
		return c.Provider(), nil
	case "llm.api_key":
		return c.LLM.APIKey, nil
	case "llm.base_url":
		return c.LLM.BaseURL, nil
	case "llm.max_tokens":
		return strconv.Itoa(c.MaxTokens()), nil
	case "llm.timeout":
		return strconv.Itoa(int(c.Timeout().Seconds())), nil
	case "exercise.difficulty":
		return c.Difficulty(), nil
	case "exercise.length":
		return c.Length(), nil
	case "exercise.error_count":
		return strconv.Itoa(c.ErrorCount()), nil
	case "exercise.max_attempts":
		return strconv.Itoa(c.MaxAttempts()), nil
	case "exercise.categories":
		return strings.Join(c.Exercise.Categories, ","), nil
	case "exercise.taxonomy":
		return c.Exercise.Taxonomy, nil
	case "limits.max_review":
		return strconv.FormatInt(c.MaxReview(), 10), nil
	case "limits.max_code":
		return strconv.FormatInt(c.MaxCode(), 10), nil
	case "limits.leaderboard_size":
		return strconv.Itoa(c.LeaderboardSize()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	if r, field := c.roleKey(key); r != nil {
		switch field {
		case "model":
			r.Model = value
			return nil
		case "temperature":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f < MinTemperature || f > MaxTemperature {
				return fmt.Errorf("%w: %s must be a number between %g and %g",
					ErrInvalidValue, key, MinTemperature, MaxTemperature)
			}
			r.Temperature = &f
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	switch key {
	case "user.name":
		c.User.Name = value
	case "user.display":
		c.User.Display = value
	case "llm.provider":
		v := strings.ToLower(value)
		if v != "groq" && v != "gemini" {
			return fmt.Errorf("%w: llm.provider must be groq or gemini", ErrInvalidValue)
		}
		c.LLM.Provider = v
	case "llm.api_key":
		c.LLM.APIKey = value
	case "llm.base_url":
		c.LLM.BaseURL = value
	case "llm.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxTokens || n > MaxMaxTokens {
			return fmt.Errorf("%w: llm.max_tokens must be a positive integer", ErrInvalidValue)
		}
		c.LLM.MaxTokens = &n
	case "llm.timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinTimeout || n > MaxTimeout {
			return fmt.Errorf("%w: llm.timeout must be seconds between %d and %d",
				ErrInvalidValue, MinTimeout, MaxTimeout)
		}
		c.LLM.Timeout = &n
	case "exercise.difficulty":
		v := strings.ToLower(value)
		if v != "easy" && v != "medium" && v != "hard" {
			return fmt.Errorf("%w: exercise.difficulty must be easy, medium or hard", ErrInvalidValue)
		}
		c.Exercise.Difficulty = v
	case "exercise.length":
		v := strings.ToLower(value)
		if v != "short" && v != "medium" && v != "long" {
			return fmt.Errorf("%w: exercise.length must be short, medium or long", ErrInvalidValue)
		}
		c.Exercise.Length = v
	case "exercise.error_count":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinErrorCount || n > MaxErrorCount {
			return fmt.Errorf("%w: exercise.error_count must be between %d and %d",
				ErrInvalidValue, MinErrorCount, MaxErrorCount)
		}
		c.Exercise.ErrorCount = &n
	case "exercise.max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxAttempts || n > MaxMaxAttempts {
			return fmt.Errorf("%w: exercise.max_attempts must be between %d and %d",
				ErrInvalidValue, MinMaxAttempts, MaxMaxAttempts)
		}
		c.Exercise.MaxAttempts = &n
	case "exercise.categories":
		if value == "" {
			c.Exercise.Categories = nil
			return nil
		}
		var cats []string
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				return fmt.Errorf("%w: exercise.categories has an empty entry", ErrInvalidValue)
			}
			cats = append(cats, part)
		}
		c.Exercise.Categories = cats
	case "exercise.taxonomy":
		c.Exercise.Taxonomy = value
	case "limits.max_review":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < MinLimit || n > MaxLimitBytes {
			return fmt.Errorf("%w: limits.max_review must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxReview = &n
	case "limits.max_code":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < MinLimit || n > MaxLimitBytes {
			return fmt.Errorf("%w: limits.max_code must be a positive integer", ErrInvalidValue)
		}
		c.Limits.MaxCode = &n
	case "limits.leaderboard_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinLeaderboardSize || n > MaxLeaderboardSize {
			return fmt.Errorf("%w: limits.leaderboard_size must be between %d and %d",
				ErrInvalidValue, MinLeaderboardSize, MaxLeaderboardSize)
		}
		c.Limits.LeaderboardSize = &n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(ValidKeys()))
	for _, key := range ValidKeys() {
		v, err := c.Get(key)
		if err != nil {
			continue
		}
		out[key] = v
	}
	return out
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	if r, field := c.roleKey(key); r != nil {
		switch field {
		case "model":
			return r.Model != ""
		case "temperature":
			return r.Temperature != nil
		}
		return false
	}

	switch key {
	case "user.name":
		return c.User.Name != ""
	case "user.display":
		return c.User.Display != ""
	case "llm.provider":
		return c.LLM.Provider != ""
	case "llm.api_key":
		return c.LLM.APIKey != ""
	case "llm.base_url":
		return c.LLM.BaseURL != ""
	case "llm.max_tokens":
		return c.LLM.MaxTokens != nil
	case "llm.timeout":
		return c.LLM.Timeout != nil
	case "exercise.difficulty":
		return c.Exercise.Difficulty != ""
	case "exercise.length":
		return c.Exercise.Length != ""
	case "exercise.error_count":
		return c.Exercise.ErrorCount != nil
	case "exercise.max_attempts":
		return c.Exercise.MaxAttempts != nil
	case "exercise.categories":
		return len(c.Exercise.Categories) > 0
	case "exercise.taxonomy":
		return c.Exercise.Taxonomy != ""
	case "limits.max_review":
		return c.Limits.MaxReview != nil
	case "limits.max_code":
		return c.Limits.MaxCode != nil
	case "limits.leaderboard_size":
		return c.Limits.LeaderboardSize != nil
	default:
		return false
	}
}
