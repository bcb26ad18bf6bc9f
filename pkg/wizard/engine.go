package wizard

import (
	"errors"
	"strings"

	"gifty/internal/models/request_models"
	"gifty/pkg/region"
	"gifty/pkg/validation"
)

var (
	ErrInvalidStep      = errors.New("step index out of range")
	ErrAtFirstStep      = errors.New("already at the first step")
	ErrAtLastStep       = errors.New("already at the last step")
	ErrNotFinalStep     = errors.New("submit is only available on the last step")
	ErrWrongStepKind    = errors.New("action not available on this step")
	ErrEmptyValue       = errors.New("value must not be empty")
	ErrUnknownOption    = errors.New("value is not one of the step options")
	ErrAlreadySubmitted = errors.New("request already submitted")
)

type ValidationError = validation.Error

// State is the serialisable progress of one wizard run.
type State struct {
	Flow                  string   `json:"flow"`
	Step                  int      `json:"step"`
	Occasion              string   `json:"occasion"`
	Recipient             string   `json:"recipient"`
	Interests             []string `json:"interests"`
	Budget                string   `json:"budget"`
	GiftPreference        string   `json:"giftPreference"`
	Age                   string   `json:"age,omitempty"`
	AdditionalPreferences string   `json:"additionalPreferences,omitempty"`
	Submitted             bool     `json:"submitted"`
}

func (s State) clone() State {
	out := s
	out.Interests = append([]string{}, s.Interests...)
	return out
}

type Details struct {
	Budget                string `json:"budget"`
	GiftPreference        string `json:"giftPreference"`
	Age                   string `json:"age"`
	AdditionalPreferences string `json:"additionalPreferences"`
}

// Engine applies actions to a State. It holds no per-run data and is safe to share.
type Engine struct {
	flow Flow
}

func NewEngine(flow Flow) (*Engine, error) {
	if err := flow.Check(); err != nil {
		return nil, err
	}
	return &Engine{flow: flow}, nil
}

func (e *Engine) Flow() Flow { return e.flow }

func (e *Engine) Start() State {
	return State{
		Flow:           e.flow.Name,
		Interests:      []string{},
		GiftPreference: string(request_models.GiftPreferencePhysical),
	}
}

// Seed starts a run with the recipient and interests already filled in.
func (e *Engine) Seed(recipient string, interests []string) State {
	s := e.Start()
	s.Recipient = strings.TrimSpace(recipient)
	for _, interest := range interests {
		s.Interests = addUnique(s.Interests, interest)
	}
	return s
}

func (e *Engine) Current(s State) (Step, error) {
	if s.Step < 0 || s.Step >= len(e.flow.Steps) {
		return Step{}, ErrInvalidStep
	}
	return e.flow.Steps[s.Step], nil
}

func (e *Engine) IsFinal(s State) bool {
	return s.Step == len(e.flow.Steps)-1
}

// Select picks a preset. On single-choice steps it sets the field and moves on; on the
// interests step it toggles membership.
func (e *Engine) Select(s State, value string) (State, error) {
	step, err := e.active(s)
	if err != nil {
		return s, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return s, ErrEmptyValue
	}
	i := indexOf(step.Options, value)
	if i < 0 {
		return s, ErrUnknownOption
	}
	value = step.Options[i]

	switch step.Kind {
	case KindSingle:
		return e.commit(s, step, value), nil
	case KindMulti:
		return e.Toggle(s, value)
	}
	return s, ErrWrongStepKind
}

// Custom commits free text. It behaves like Select on single-choice steps and adds the
// interest (once) on the interests step.
func (e *Engine) Custom(s State, value string) (State, error) {
	step, err := e.active(s)
	if err != nil {
		return s, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return s, ErrEmptyValue
	}

	switch step.Kind {
	case KindSingle:
		return e.commit(s, step, value), nil
	case KindMulti:
		next := s.clone()
		next.Interests = addUnique(next.Interests, value)
		return next, nil
	}
	return s, ErrWrongStepKind
}

func (e *Engine) Toggle(s State, value string) (State, error) {
	step, err := e.active(s)
	if err != nil {
		return s, err
	}
	if step.Kind != KindMulti {
		return s, ErrWrongStepKind
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return s, ErrEmptyValue
	}

	next := s.clone()
	if i := indexOf(next.Interests, value); i >= 0 {
		next.Interests = append(next.Interests[:i], next.Interests[i+1:]...)
		return next, nil
	}
	next.Interests = append(next.Interests, value)
	return next, nil
}

func (e *Engine) SetDetails(s State, d Details) (State, error) {
	step, err := e.active(s)
	if err != nil {
		return s, err
	}
	if step.Kind != KindDetails {
		return s, ErrWrongStepKind
	}

	next := s.clone()
	if step.shows(DetailBudget) {
		next.Budget = strings.TrimSpace(d.Budget)
	}
	if step.shows(DetailGiftPreference) {
		next.GiftPreference = strings.TrimSpace(d.GiftPreference)
		if next.GiftPreference == "" {
			next.GiftPreference = string(request_models.GiftPreferencePhysical)
		}
	}
	if step.shows(DetailAge) {
		next.Age = strings.TrimSpace(d.Age)
	}
	if step.shows(DetailAdditionalPreferences) {
		next.AdditionalPreferences = strings.TrimSpace(d.AdditionalPreferences)
	}
	return next, nil
}

func (e *Engine) Next(s State) (State, error) {
	step, err := e.active(s)
	if err != nil {
		return s, err
	}
	if e.IsFinal(s) {
		return s, ErrAtLastStep
	}
	if err := checkStep(step, s); err != nil {
		return s, err
	}
	next := s.clone()
	next.Step++
	return next, nil
}

func (e *Engine) Back(s State) (State, error) {
	if _, err := e.active(s); err != nil {
		return s, err
	}
	if s.Step == 0 {
		return s, ErrAtFirstStep
	}
	next := s.clone()
	next.Step--
	return next, nil
}

// Submit validates the collected values and emits the request. It succeeds once per run.
func (e *Engine) Submit(s State, r region.Region) (State, request_models.GiftRequest, error) {
	if _, err := e.active(s); err != nil {
		return s, request_models.GiftRequest{}, err
	}
	if !e.IsFinal(s) {
		return s, request_models.GiftRequest{}, ErrNotFinalStep
	}

	req := request_models.GiftRequest{
		Occasion:              s.Occasion,
		Recipient:             s.Recipient,
		Interests:             append([]string{}, s.Interests...),
		Budget:                s.Budget,
		GiftPreference:        request_models.GiftPreference(s.GiftPreference),
		Age:                   s.Age,
		AdditionalPreferences: s.AdditionalPreferences,
		Region:                r,
	}
	if req.GiftPreference == "" {
		req.GiftPreference = request_models.GiftPreferencePhysical
	}
	if err := validation.Struct(req); err != nil {
		return s, request_models.GiftRequest{}, err
	}

	next := s.clone()
	next.Submitted = true
	return next, req, nil
}

// Fill walks a fresh run through every step with the values of v and stops on the last
// step, ready for Submit. Interests are committed as free text.
func (e *Engine) Fill(v State) (State, error) {
	s := e.Start()
	for {
		step, err := e.Current(s)
		if err != nil {
			return s, err
		}
		switch step.Kind {
		case KindSingle:
			value := v.Occasion
			if step.Field == FieldRecipient {
				value = v.Recipient
			}
			if s, err = e.Custom(s, value); err != nil {
				return s, validation.Field(string(step.Field), "is required")
			}
		case KindMulti:
			for _, interest := range v.Interests {
				if next, err := e.Custom(s, interest); err == nil {
					s = next
				}
			}
			if s, err = e.Next(s); err != nil {
				return s, err
			}
		case KindDetails:
			return e.SetDetails(s, Details{
				Budget:                v.Budget,
				GiftPreference:        v.GiftPreference,
				Age:                   v.Age,
				AdditionalPreferences: v.AdditionalPreferences,
			})
		}
	}
}

func (e *Engine) active(s State) (Step, error) {
	if s.Submitted {
		return Step{}, ErrAlreadySubmitted
	}
	return e.Current(s)
}

func (e *Engine) commit(s State, step Step, value string) State {
	next := s.clone()
	switch step.Field {
	case FieldOccasion:
		next.Occasion = value
	case FieldRecipient:
		next.Recipient = value
	}
	if !e.IsFinal(next) {
		next.Step++
	}
	return next
}

func checkStep(step Step, s State) error {
	switch step.Field {
	case FieldOccasion:
		if strings.TrimSpace(s.Occasion) == "" {
			return validation.Field("occasion", "is required")
		}
	case FieldRecipient:
		if strings.TrimSpace(s.Recipient) == "" {
			return validation.Field("recipient", "is required")
		}
	case FieldInterests:
		if len(s.Interests) == 0 {
			return validation.Field("interests", "select at least one interest")
		}
	case FieldDetails:
		if !validation.IsBudget(s.Budget) {
			return validation.Field("budget", "must be a non-negative number")
		}
	}
	return nil
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func indexOf(list []string, v string) int {
	n := normalize(v)
	for i, item := range list {
		if normalize(item) == n {
			return i
		}
	}
	return -1
}

func addUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" || indexOf(list, v) >= 0 {
		return list
	}
	return append(list, v)
}
