package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gifty/internal/giftprompt"
	"gifty/internal/models/response_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/pkg/llm"
	"gifty/pkg/logger"
	"gifty/pkg/metrics"
	"gifty/pkg/utils"
	"gifty/pkg/wizard"
)

const (
	assistantGreeting = "Hi! I'll help you find the perfect gift. Tell me about what you're looking for!"
	assistantDone     = "Perfect! Let me search for gift suggestions based on what you've told me."
	assistantRetry    = "Sorry, I had trouble understanding. Could you try again?"
)

// AssistantServiceInterface is the conversational front of the perfect-gift wizard. Each
// utterance is mined for request parameters until the required ones are known.
type AssistantServiceInterface interface {
	Greet(ctx context.Context, sessionID string) (*response_models.AssistantReply, error)
	Assist(ctx context.Context, sessionID, text string) (*response_models.AssistantReply, error)
}

type AssistantOptions struct {
	Model     string
	MaxTokens int
}

type AssistantService struct {
	slots     repositories.SlotStore
	regions   RegionServiceInterface
	wizards   WizardServiceInterface
	generator llm.TextGenerator
	metrics   *metrics.SuggestionMetrics
	log       *logger.Logger
	opts      AssistantOptions
}

func NewAssistantService(
	slots repositories.SlotStore,
	regions RegionServiceInterface,
	wizards WizardServiceInterface,
	generator llm.TextGenerator,
	m *metrics.SuggestionMetrics,
	log *logger.Logger,
	opts AssistantOptions,
) AssistantServiceInterface {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 500
	}
	return &AssistantService{
		slots:     slots,
		regions:   regions,
		wizards:   wizards,
		generator: generator,
		metrics:   m,
		log:       log,
		opts:      opts,
	}
}

// Greet forgets everything heard so far and opens a new conversation.
func (s *AssistantService) Greet(ctx context.Context, sessionID string) (*response_models.AssistantReply, error) {
	if err := s.slots.Delete(ctx, sessionID, repositories.SlotAssistant); err != nil {
		return nil, err
	}
	return &response_models.AssistantReply{
		Reply:   assistantGreeting,
		Missing: giftprompt.VoiceParams{}.Missing(),
	}, nil
}

// Assist folds one utterance into the collected parameters. While a required parameter is
// unknown it answers with the question for the first one. Once all are known the answers
// are submitted through the perfect-gift wizard and the conversation is cleared.
func (s *AssistantService) Assist(ctx context.Context, sessionID, text string) (*response_models.AssistantReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.ErrEmptyText
	}
	settings, err := s.regions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	known, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	req := giftprompt.VoiceCompletion(text, known, settings)
	req.Model = s.opts.Model
	req.MaxTokens = s.opts.MaxTokens
	reply, err := s.generator.Generate(ctx, req)
	s.metrics.IncExternal("assistant", err)
	if err != nil {
		return nil, err
	}

	heard, err := giftprompt.ParseVoiceReply(reply)
	if err != nil {
		s.log.Zerolog(ctx).Warn().Err(err).Msg("assistant reply could not be parsed")
		return &response_models.AssistantReply{Reply: assistantRetry, Missing: known.Missing()}, nil
	}

	params := known.Merge(heard)
	if err := s.save(ctx, sessionID, params); err != nil {
		return nil, err
	}
	if missing := params.Missing(); len(missing) > 0 {
		return &response_models.AssistantReply{
			Reply:   giftprompt.FollowUp(missing[0]),
			Missing: missing,
		}, nil
	}

	gift, err := s.wizards.Fill(ctx, sessionID, presets.FlowPerfect, wizard.State{
		Occasion:              params.Occasion,
		Recipient:             params.Recipient,
		Interests:             params.Interests,
		Budget:                params.Budget,
		GiftPreference:        params.GiftPreference,
		AdditionalPreferences: params.AdditionalPreferences,
	})
	if err != nil {
		return nil, err
	}
	if err := s.slots.Delete(ctx, sessionID, repositories.SlotAssistant); err != nil {
		return nil, err
	}
	return &response_models.AssistantReply{Reply: assistantDone, Missing: []string{}, Done: true, Request: gift}, nil
}

func (s *AssistantService) load(ctx context.Context, sessionID string) (giftprompt.VoiceParams, error) {
	raw, err := s.slots.Get(ctx, sessionID, repositories.SlotAssistant)
	if errors.Is(err, utils.ErrSlotNotFound) {
		return giftprompt.VoiceParams{}, nil
	}
	if err != nil {
		return giftprompt.VoiceParams{}, err
	}
	var p giftprompt.VoiceParams
	if json.Unmarshal(raw, &p) != nil {
		return giftprompt.VoiceParams{}, nil
	}
	return p, nil
}

func (s *AssistantService) save(ctx context.Context, sessionID string, p giftprompt.VoiceParams) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.slots.Put(ctx, sessionID, repositories.SlotAssistant, raw)
}
