package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	mdl "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ArkProvider talks to a Volcengine Ark chat endpoint. model is the endpoint id.
type ArkProvider struct {
	chatModel *ark.ChatModel
}

func NewArk(ctx context.Context, apiKey, model, baseURL string) (*ArkProvider, error) {
	if model == "" {
		return nil, fmt.Errorf("ark provider requires a model endpoint id")
	}
	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
	})
	if err != nil {
		return nil, fmt.Errorf("init ark chat model: %w", err)
	}
	return &ArkProvider{chatModel: cm}, nil
}

func (p *ArkProvider) Name() string { return ProviderArk }

func (p *ArkProvider) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	opts := []mdl.Option{mdl.WithTemperature(float32(req.Temperature))}
	if req.MaxTokens > 0 {
		opts = append(opts, mdl.WithMaxTokens(req.MaxTokens))
	}

	msg, err := p.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(req.System),
		schema.UserMessage(req.Prompt),
	}, opts...)
	if err != nil {
		return "", unavailable(ProviderArk, err)
	}
	if msg == nil {
		return "", ErrEmptyResponse
	}
	return content(ProviderArk, msg.Content)
}
