package llm

import (
	"context"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultCompatibleModel = "local-model"

// CompatibleProvider targets any server speaking the OpenAI chat API, such as llama.cpp.
type CompatibleProvider struct {
	client openai.Client
	model  string
}

func NewCompatible(baseURL, apiKey, model string) *CompatibleProvider {
	return &CompatibleProvider{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(pick(apiKey, "dummy")),
			option.WithMaxRetries(0),
		),
		model: pick(model, defaultCompatibleModel),
	}
}

func (p *CompatibleProvider) Name() string { return ProviderCompatible }

func (p *CompatibleProvider) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Model:            pick(req.Model, p.model),
		Temperature:      openai.Float(req.Temperature),
		PresencePenalty:  openai.Float(req.PresencePenalty),
		FrequencyPenalty: openai.Float(req.FrequencyPenalty),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", unavailable(ProviderCompatible, err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return content(ProviderCompatible, completion.Choices[0].Message.Content)
}
