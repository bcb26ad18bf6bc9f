package llm

import "context"

// StaticProvider answers every request with a canned reply. It stands in for a real
// provider when no credentials are configured.
type StaticProvider struct {
	reply func(CompletionRequest) string
}

func NewStatic(reply func(CompletionRequest) string) *StaticProvider {
	return &StaticProvider{reply: reply}
}

func (p *StaticProvider) Name() string { return ProviderStatic }

func (p *StaticProvider) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", unavailable(ProviderStatic, err)
	}
	return content(ProviderStatic, p.reply(req))
}
