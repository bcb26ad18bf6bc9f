package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gifty/internal/models/request_models"
	"gifty/internal/models/response_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/pkg/utils"
	"gifty/pkg/wizard"
)

type WizardServiceInterface interface {
	State(ctx context.Context, sessionID, flow string) (*response_models.WizardView, error)
	Start(ctx context.Context, sessionID, flow string) (*response_models.WizardView, error)
	Seed(ctx context.Context, sessionID, flow, recipient string, interests []string) (*response_models.WizardView, error)
	Apply(ctx context.Context, sessionID, flow string, action request_models.WizardActionRequest) (*response_models.WizardView, error)
	Submit(ctx context.Context, sessionID, flow string) (*request_models.GiftRequest, error)
	Fill(ctx context.Context, sessionID, flow string, values wizard.State) (*request_models.GiftRequest, error)
}

type WizardService struct {
	catalog *presets.Catalog
	slots   repositories.SlotStore
	regions RegionServiceInterface
}

func NewWizardService(catalog *presets.Catalog, slots repositories.SlotStore, regions RegionServiceInterface) WizardServiceInterface {
	return &WizardService{catalog: catalog, slots: slots, regions: regions}
}

// State returns the stored run for the flow, starting a fresh one when none is stored.
func (s *WizardService) State(ctx context.Context, sessionID, flow string) (*response_models.WizardView, error) {
	engine, err := s.catalog.Engine(flow)
	if err != nil {
		return nil, err
	}
	state, err := s.load(ctx, sessionID, engine)
	if err != nil {
		return nil, err
	}
	return view(engine, state)
}

func (s *WizardService) Start(ctx context.Context, sessionID, flow string) (*response_models.WizardView, error) {
	engine, err := s.catalog.Engine(flow)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, sessionID, engine, engine.Start())
}

func (s *WizardService) Seed(ctx context.Context, sessionID, flow, recipient string, interests []string) (*response_models.WizardView, error) {
	engine, err := s.catalog.Engine(flow)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, sessionID, engine, engine.Seed(recipient, interests))
}

func (s *WizardService) Apply(ctx context.Context, sessionID, flow string, action request_models.WizardActionRequest) (*response_models.WizardView, error) {
	engine, err := s.catalog.Engine(flow)
	if err != nil {
		return nil, err
	}
	state, err := s.load(ctx, sessionID, engine)
	if err != nil {
		return nil, err
	}

	var next wizard.State
	switch action.Action {
	case request_models.WizardSelect:
		next, err = engine.Select(state, action.Value)
	case request_models.WizardCustom:
		next, err = engine.Custom(state, action.Value)
	case request_models.WizardToggle:
		next, err = engine.Toggle(state, action.Value)
	case request_models.WizardNext:
		next, err = engine.Next(state)
	case request_models.WizardBack:
		next, err = engine.Back(state)
	case request_models.WizardDetails:
		next, err = engine.SetDetails(state, wizard.Details{
			Budget:                action.Budget,
			GiftPreference:        action.GiftPreference,
			Age:                   action.Age,
			AdditionalPreferences: action.AdditionalPreferences,
		})
	default:
		return nil, fmt.Errorf("%w: unknown action %q", utils.ErrInvalidInput, action.Action)
	}
	if err != nil {
		return nil, err
	}
	return s.save(ctx, sessionID, engine, next)
}

// Submit emits the request into the user_input slot and drops every rendered suggestion
// view. Nothing is written when validation fails.
func (s *WizardService) Submit(ctx context.Context, sessionID, flow string) (*request_models.GiftRequest, error) {
	engine, err := s.catalog.Engine(flow)
	if err != nil {
		return nil, err
	}
	state, err := s.load(ctx, sessionID, engine)
	if err != nil {
		return nil, err
	}
	settings, err := s.regions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, req, err := engine.Submit(state, settings.Region)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := s.slots.Put(ctx, sessionID, repositories.SlotUserInput, raw); err != nil {
		return nil, err
	}
	for _, name := range s.catalog.Names() {
		if err := s.slots.Delete(ctx, sessionID, repositories.SuggestionsSlot(name)); err != nil {
			return nil, err
		}
	}
	if _, err := s.save(ctx, sessionID, engine, next); err != nil {
		return nil, err
	}
	return &req, nil
}

// Fill replaces the stored run with one carrying values and submits it. When submission
// fails the filled run stays stored so the wizard can finish it.
func (s *WizardService) Fill(ctx context.Context, sessionID, flow string, values wizard.State) (*request_models.GiftRequest, error) {
	engine, err := s.catalog.Engine(flow)
	if err != nil {
		return nil, err
	}
	state, err := engine.Fill(values)
	if err != nil {
		return nil, err
	}
	if _, err := s.save(ctx, sessionID, engine, state); err != nil {
		return nil, err
	}
	return s.Submit(ctx, sessionID, flow)
}

func (s *WizardService) load(ctx context.Context, sessionID string, engine *wizard.Engine) (wizard.State, error) {
	raw, err := s.slots.Get(ctx, sessionID, repositories.WizardSlot(engine.Flow().Name))
	if errors.Is(err, utils.ErrSlotNotFound) {
		return engine.Start(), nil
	}
	if err != nil {
		return wizard.State{}, err
	}
	var state wizard.State
	if json.Unmarshal(raw, &state) != nil || state.Flow != engine.Flow().Name {
		return engine.Start(), nil
	}
	if _, err := engine.Current(state); err != nil {
		return engine.Start(), nil
	}
	return state, nil
}

func (s *WizardService) save(ctx context.Context, sessionID string, engine *wizard.Engine, state wizard.State) (*response_models.WizardView, error) {
	v, err := view(engine, state)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	if err := s.slots.Put(ctx, sessionID, repositories.WizardSlot(engine.Flow().Name), raw); err != nil {
		return nil, err
	}
	return v, nil
}

func view(engine *wizard.Engine, state wizard.State) (*response_models.WizardView, error) {
	step, err := engine.Current(state)
	if err != nil {
		return nil, err
	}
	flow := engine.Flow()
	return &response_models.WizardView{
		Flow:      flow.Name,
		Title:     flow.Title,
		StepIndex: state.Step,
		StepCount: len(flow.Steps),
		IsFinal:   engine.IsFinal(state),
		Step:      step,
		State:     state,
	}, nil
}
