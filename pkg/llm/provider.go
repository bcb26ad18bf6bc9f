// Package llm is the boundary to text-generation services. Callers send one system
// instruction and one prompt and get plain text back.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderArk        = "ark"
	ProviderCompatible = "compatible"
	ProviderStatic     = "static"
)

var (
	// ErrUnavailable wraps transport, auth and quota failures of a provider.
	ErrUnavailable   = errors.New("text generation unavailable")
	ErrEmptyResponse = errors.New("text generation returned no content")
	ErrNoCredentials = errors.New("no credentials configured for provider")
)

type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	System           string
	Prompt           string
	Model            string
	Temperature      float64
	MaxTokens        int
	PresencePenalty  float64
	FrequencyPenalty float64
}

type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

func unavailable(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, provider, err)
}

func content(provider, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrEmptyResponse)
	}
	return text, nil
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
