package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
)

// createLLMConfig builds the LLM configuration from viper. Shared by the
// serve and chat commands.
func createLLMConfig() (llm.Config, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "gemini" // default provider
	}

	config := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}

	// Set defaults if not specified
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 60 // requests per minute
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	// Get API key based on provider
	var envVar string
	switch provider {
	case "gemini":
		envVar = "GEMINI_API_KEY"
	case "openai":
		envVar = "OPENAI_API_KEY"
	case "anthropic":
		envVar = "ANTHROPIC_API_KEY"
	default:
		return llm.Config{}, fmt.Errorf("unknown LLM provider: %s", provider)
	}

	apiKey := viper.GetString("llm." + provider + "_api_key")
	if apiKey == "" {
		apiKey = os.Getenv(envVar)
	}
	if apiKey == "" {
		return llm.Config{}, fmt.Errorf("%s API key not found in config or %s environment variable", provider, envVar)
	}
	config.APIKey = apiKey

	return config, nil
}
