package giftprompt

import (
	"gifty/internal/models/request_models"
	"gifty/internal/presets"
	"gifty/pkg/llm"
	"gifty/pkg/region"
)

const presencePenalty = 0.2

// Profile binds a wizard flow to its reply grammar and sampling parameters.
type Profile struct {
	Format           Format
	Build            func(request_models.GiftRequest, region.Settings) string
	Parser           SuggestionParser
	Temperature      float64
	FrequencyPenalty float64
}

var profiles = map[string]Profile{
	presets.FlowPerfect: {
		Format:           Primary,
		Build:            Build,
		Parser:           NewPrimaryParser(),
		Temperature:      0.4,
		FrequencyPenalty: 0.5,
	},
	presets.FlowQuick: {
		Format:           Quick,
		Build:            BuildQuick,
		Parser:           NewQuickParser(1),
		Temperature:      0.3,
		FrequencyPenalty: 0.4,
	},
}

func ProfileFor(flow string) (Profile, bool) {
	p, ok := profiles[flow]
	return p, ok
}

// Completion renders the generator request for req. Model and MaxTokens are left to the caller.
func (p Profile) Completion(req request_models.GiftRequest, settings region.Settings) llm.CompletionRequest {
	return llm.CompletionRequest{
		System:           SystemInstruction(p.Format),
		Prompt:           p.Build(req, settings),
		Temperature:      p.Temperature,
		PresencePenalty:  presencePenalty,
		FrequencyPenalty: p.FrequencyPenalty,
	}
}

// SampleGenerator answers every request with the sample reply of the matching format.
func SampleGenerator() *llm.StaticProvider {
	return llm.NewStatic(func(req llm.CompletionRequest) string {
		return SampleFor(req.System)
	})
}
