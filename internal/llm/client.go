package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers. The returned text is
// whatever the model produced: there is no guarantee of valid JSON,
// consistent field names, or absence of explanatory prose.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for constructing an LLM client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}
