package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  pick(model, defaultOpenAIModel),
	}
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: pick(req.Model, p.model),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature:      float32(req.Temperature),
		MaxTokens:        req.MaxTokens,
		PresencePenalty:  float32(req.PresencePenalty),
		FrequencyPenalty: float32(req.FrequencyPenalty),
	})
	if err != nil {
		return "", unavailable(ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return content(ProviderOpenAI, resp.Choices[0].Message.Content)
}
