package giftprompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifty/internal/presets"
	"gifty/pkg/region"
)

func TestProfileForFlows(t *testing.T) {
	perfect, ok := ProfileFor(presets.FlowPerfect)
	require.True(t, ok)
	assert.Equal(t, Primary.Name, perfect.Format.Name)

	quick, ok := ProfileFor(presets.FlowQuick)
	require.True(t, ok)
	assert.Equal(t, Quick.Name, quick.Format.Name)

	_, ok = ProfileFor("express")
	assert.False(t, ok)
}

func TestProfileCompletion(t *testing.T) {
	p, _ := ProfileFor(presets.FlowPerfect)
	rs := region.For(region.US)

	req := p.Completion(birthdayRequest(), rs)
	assert.Equal(t, SystemInstruction(Primary), req.System)
	assert.Equal(t, Build(birthdayRequest(), rs), req.Prompt)
	assert.Equal(t, 0.4, req.Temperature)
	assert.Empty(t, req.Model)
	assert.Zero(t, req.MaxTokens)
}

func TestSampleGeneratorRoundTrip(t *testing.T) {
	for _, flow := range []string{presets.FlowPerfect, presets.FlowQuick} {
		p, _ := ProfileFor(flow)
		text, err := SampleGenerator().Generate(context.Background(), p.Completion(birthdayRequest(), region.For(region.IN)))
		require.NoError(t, err, flow)

		suggestions, err := p.Parser.Parse(text)
		require.NoError(t, err, flow)
		assert.GreaterOrEqual(t, len(suggestions), p.Format.Min, flow)
	}
}
