package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gifty/internal/giftprompt"
	"gifty/internal/models/request_models"
	"gifty/internal/models/response_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/pkg/llm"
	"gifty/pkg/logger"
	"gifty/pkg/memcache"
	"gifty/pkg/metrics"
	"gifty/pkg/region"
	"gifty/pkg/sequence"
	"gifty/pkg/utils"
	"gifty/pkg/validation"
)

const (
	refineFailedMessage   = "Could not refine suggestions, please try again"
	fallbackShownMessage  = "Suggestions unavailable right now, showing popular ideas instead"
	defaultSuggestionsTTL = time.Hour
)

type SuggestionServiceInterface interface {
	Current(ctx context.Context, sessionID, flow string) (*response_models.SuggestionView, error)
	Refine(ctx context.Context, sessionID, flow, preference string) (*response_models.SuggestionView, error)
	Retry(ctx context.Context, sessionID, flow string) (*response_models.SuggestionView, error)
}

type SuggestionOptions struct {
	Model     string
	MaxTokens int
	CacheTTL  time.Duration
}

type SuggestionService struct {
	slots     repositories.SlotStore
	regions   RegionServiceInterface
	generator llm.TextGenerator
	tokens    sequence.Generator
	cache     memcache.Store[[]response_models.GiftSuggestion]
	metrics   *metrics.SuggestionMetrics
	log       *logger.Logger
	opts      SuggestionOptions
	now       func() time.Time

	inflight singleflight.Group

	mu     sync.Mutex
	latest map[string]int64
	writes [64]sync.Mutex
}

func NewSuggestionService(
	slots repositories.SlotStore,
	regions RegionServiceInterface,
	generator llm.TextGenerator,
	tokens sequence.Generator,
	cache memcache.Store[[]response_models.GiftSuggestion],
	m *metrics.SuggestionMetrics,
	log *logger.Logger,
	opts SuggestionOptions,
) SuggestionServiceInterface {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultSuggestionsTTL
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1000
	}
	return &SuggestionService{
		slots:     slots,
		regions:   regions,
		generator: generator,
		tokens:    tokens,
		cache:     cache,
		metrics:   m,
		log:       log,
		opts:      opts,
		now:       time.Now,
		latest:    make(map[string]int64),
	}
}

// Current returns the view for the stored request, generating it only when the request or
// region changed since the last render. Concurrent callers share one generation.
func (s *SuggestionService) Current(ctx context.Context, sessionID, flow string) (*response_models.SuggestionView, error) {
	p, ok := giftprompt.ProfileFor(flow)
	if !ok {
		return nil, presets.ErrUnknownFlow
	}
	req, settings, fp, err := s.request(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	previous := s.loadView(ctx, sessionID, flow)
	if previous != nil && previous.Fingerprint == fp {
		return previous, nil
	}

	v, err, _ := s.inflight.Do(sessionID+"|"+flow+"|"+fp, func() (any, error) {
		return s.cycle(context.WithoutCancel(ctx), sessionID, flow, p, req, settings, fp, nil)
	})
	if err != nil {
		return nil, err
	}
	return v.(*response_models.SuggestionView), nil
}

// Refine overwrites only the additional preference of the stored request and regenerates.
// On failure the previous suggestions stay and the view carries an error message.
func (s *SuggestionService) Refine(ctx context.Context, sessionID, flow, preference string) (*response_models.SuggestionView, error) {
	p, ok := giftprompt.ProfileFor(flow)
	if !ok {
		return nil, presets.ErrUnknownFlow
	}
	preference = strings.TrimSpace(preference)
	if preference == "" {
		return nil, validation.Field("preference", "is required")
	}

	req, settings, _, err := s.request(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	req.AdditionalPreferences = preference
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := s.slots.Put(ctx, sessionID, repositories.SlotUserInput, raw); err != nil {
		return nil, err
	}

	previous := s.loadView(ctx, sessionID, flow)
	return s.cycle(ctx, sessionID, flow, p, req, settings, fingerprint(raw, settings), previous)
}

// Retry regenerates for the unchanged request, bypassing the fetch guard.
func (s *SuggestionService) Retry(ctx context.Context, sessionID, flow string) (*response_models.SuggestionView, error) {
	p, ok := giftprompt.ProfileFor(flow)
	if !ok {
		return nil, presets.ErrUnknownFlow
	}
	req, settings, fp, err := s.request(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	previous := s.loadView(ctx, sessionID, flow)
	if previous != nil && previous.Fallback {
		previous = nil
	}
	return s.cycle(ctx, sessionID, flow, p, req, settings, fp, previous)
}

// cycle runs one tokened prompt/response round trip. Only the newest cycle of a session and
// flow may store its view; older ones end with utils.ErrStaleResponse.
func (s *SuggestionService) cycle(
	ctx context.Context,
	sessionID, flow string,
	p giftprompt.Profile,
	req request_models.GiftRequest,
	settings region.Settings,
	fp string,
	previous *response_models.SuggestionView,
) (*response_models.SuggestionView, error) {
	key := sessionID + "|" + flow
	token := s.tokens.Next()
	s.mu.Lock()
	s.latest[key] = token
	s.mu.Unlock()

	suggestions, genErr := s.generate(ctx, flow, p, req, settings)

	view := &response_models.SuggestionView{
		Flow:        flow,
		Token:       token,
		Region:      settings,
		Fingerprint: fp,
		UpdatedAt:   s.now().UTC(),
	}
	switch {
	case genErr == nil:
		view.Suggestions = suggestions
	case previous != nil:
		s.log.Zerolog(ctx).Warn().Err(genErr).Str("flow", flow).Msg("refinement failed, keeping previous suggestions")
		view.Suggestions = previous.Suggestions
		view.Fallback = previous.Fallback
		view.Error = refineFailedMessage
	default:
		fallback, err := p.Parser.Parse(giftprompt.FallbackReply(p.Format))
		if err != nil {
			return nil, fmt.Errorf("fallback reply for %s: %w", flow, err)
		}
		s.log.Zerolog(ctx).Warn().Err(genErr).Str("flow", flow).Msg("generation failed, serving fallback suggestions")
		s.metrics.IncOutcome(s.generator.Name(), flow, metrics.OutcomeFallback)
		view.Suggestions = fallback
		view.Fallback = true
		view.Error = fallbackShownMessage
	}

	raw, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	// A newer cycle can register its token while this one writes, but it cannot write
	// before this one releases the key.
	lock := s.writeLock(key)
	lock.Lock()
	defer lock.Unlock()
	if !s.isLatest(key, token) {
		s.metrics.IncOutcome(s.generator.Name(), flow, metrics.OutcomeStale)
		return nil, utils.ErrStaleResponse
	}
	if err := s.slots.Put(ctx, sessionID, repositories.SuggestionsSlot(flow), raw); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.latest[key] == token {
		delete(s.latest, key)
	}
	s.mu.Unlock()
	return view, nil
}

func (s *SuggestionService) isLatest(key string, token int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == token
}

// writeLock picks the stripe guarding writes for a session and flow.
func (s *SuggestionService) writeLock(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.writes[h.Sum32()%uint32(len(s.writes))]
}

// generate builds the prompt, asks the generator once and parses the reply. Parsed replies
// are cached by prompt.
func (s *SuggestionService) generate(
	ctx context.Context,
	flow string,
	p giftprompt.Profile,
	req request_models.GiftRequest,
	settings region.Settings,
) ([]response_models.GiftSuggestion, error) {
	completion := p.Completion(req, settings)
	completion.Model = s.opts.Model
	completion.MaxTokens = s.opts.MaxTokens
	cacheKey := utils.Fingerprint(completion.System, completion.Prompt)
	provider := s.generator.Name()

	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncOutcome(provider, flow, metrics.OutcomeCached)
		return append([]response_models.GiftSuggestion(nil), cached...), nil
	}

	start := s.now()
	text, err := s.generator.Generate(ctx, completion)
	s.metrics.ObserveGeneration(provider, flow, s.now().Sub(start))
	if err != nil {
		s.metrics.IncOutcome(provider, flow, metrics.OutcomeError)
		return nil, err
	}

	suggestions, err := p.Parser.Parse(text)
	if err != nil {
		var perr *giftprompt.ParseError
		if errors.As(err, &perr) {
			s.metrics.IncParseFailure(flow, string(perr.Kind))
		}
		s.metrics.IncOutcome(provider, flow, metrics.OutcomeBadFormat)
		return nil, err
	}

	s.cache.Set(cacheKey, suggestions, s.opts.CacheTTL)
	s.metrics.IncOutcome(provider, flow, metrics.OutcomeOK)
	return suggestions, nil
}

// request loads the submitted request. A missing or unreadable slot means the user has to
// start over.
func (s *SuggestionService) request(ctx context.Context, sessionID string) (request_models.GiftRequest, region.Settings, string, error) {
	var req request_models.GiftRequest
	raw, err := s.slots.Get(ctx, sessionID, repositories.SlotUserInput)
	if errors.Is(err, utils.ErrSlotNotFound) {
		return req, region.Settings{}, "", utils.ErrNoGiftRequest
	}
	if err != nil {
		return req, region.Settings{}, "", err
	}
	if json.Unmarshal(raw, &req) != nil {
		return req, region.Settings{}, "", utils.ErrNoGiftRequest
	}

	settings, err := s.regions.Get(ctx, sessionID)
	if err != nil {
		return req, region.Settings{}, "", err
	}
	req.Region = settings.Region
	canonical, err := json.Marshal(req)
	if err != nil {
		return req, region.Settings{}, "", err
	}
	return req, settings, fingerprint(canonical, settings), nil
}

func (s *SuggestionService) loadView(ctx context.Context, sessionID, flow string) *response_models.SuggestionView {
	raw, err := s.slots.Get(ctx, sessionID, repositories.SuggestionsSlot(flow))
	if err != nil {
		return nil
	}
	var v response_models.SuggestionView
	if json.Unmarshal(raw, &v) != nil || len(v.Suggestions) == 0 {
		return nil
	}
	return &v
}

func fingerprint(request []byte, settings region.Settings) string {
	return utils.Fingerprint(string(request), settings.Region.String())
}
