// Package tui is the terminal front end of the gift wizard.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gifty/internal/giftprompt"
	"gifty/internal/models/request_models"
	"gifty/internal/models/response_models"
	"gifty/internal/presets"
	"gifty/pkg/llm"
	"gifty/pkg/logger"
	"gifty/pkg/region"
	"gifty/pkg/validation"
	"gifty/pkg/wizard"
)

type view int

const (
	viewWizard view = iota
	viewResults
	viewRefine
)

const (
	refineFailedMessage  = "Could not refine suggestions, please try again"
	fallbackShownMessage = "Suggestions unavailable right now, showing popular ideas instead"

	customPlaceholder = "or type your own and press enter"
	refinePlaceholder = "e.g. something handmade, under 30"

	defaultTimeout = time.Minute
)

type Options struct {
	Engine    *wizard.Engine
	Region    region.Region
	Generator llm.TextGenerator
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Log       *logger.Logger
}

// suggestionsMsg carries the outcome of one generation. Results whose token is not the
// latest one are dropped.
type suggestionsMsg struct {
	token       int64
	suggestions []response_models.GiftSuggestion
	err         error
}

type detailInput struct {
	name  string
	label string
	input textinput.Model
}

type App struct {
	width    int
	height   int
	view     view
	opts     Options
	engine   *wizard.Engine
	profile  giftprompt.Profile
	settings region.Settings
	help     help.Model

	state   wizard.State
	cursor  int
	input   textinput.Model
	details []detailInput
	focus   int

	request     request_models.GiftRequest
	suggestions []response_models.GiftSuggestion
	fallback    bool
	token       int64
	loading     bool
	keep        bool
	status      string
	quitting    bool
}

func NewApp(opts Options) (*App, error) {
	if opts.Engine == nil || opts.Generator == nil {
		return nil, errors.New("tui: engine and generator are required")
	}
	profile, ok := giftprompt.ProfileFor(opts.Engine.Flow().Name)
	if !ok {
		return nil, presets.ErrUnknownFlow
	}
	if !opts.Region.Valid() {
		return nil, region.ErrUnknownRegion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	input := textinput.New()
	input.Placeholder = customPlaceholder
	input.CharLimit = 120
	input.Width = 50
	input.Focus()

	a := &App{
		opts:     opts,
		engine:   opts.Engine,
		profile:  profile,
		settings: region.For(opts.Region),
		help:     help.New(),
		input:    input,
	}
	a.restart()
	return a, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case suggestionsMsg:
		a.receive(msg)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}
		switch a.view {
		case viewWizard:
			return a, a.handleWizardKey(msg)
		case viewResults:
			return a, a.handleResultsKey(msg)
		case viewRefine:
			return a, a.handleRefineKey(msg)
		}
	}

	var cmd tea.Cmd
	if a.view == viewWizard && len(a.details) > 0 {
		a.details[a.focus].input, cmd = a.details[a.focus].input.Update(msg)
	} else {
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

func (a *App) handleWizardKey(msg tea.KeyMsg) tea.Cmd {
	step, err := a.engine.Current(a.state)
	if err != nil {
		a.status = err.Error()
		return nil
	}
	if step.Kind == wizard.KindDetails {
		return a.handleDetailsKey(msg)
	}

	typing := a.input.Value() != ""
	switch {
	case key.Matches(msg, keys.Back):
		if typing {
			a.input.Reset()
			return nil
		}
		a.apply(a.engine.Back(a.state))
		return nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return nil

	case key.Matches(msg, keys.Down):
		if a.cursor < len(step.Options)-1 {
			a.cursor++
		}
		return nil

	case key.Matches(msg, keys.Next):
		a.apply(a.engine.Next(a.state))
		return nil

	case key.Matches(msg, keys.Toggle) && !typing && step.Kind == wizard.KindMulti:
		if len(step.Options) > 0 {
			a.apply(a.engine.Toggle(a.state, step.Options[a.cursor]))
		}
		return nil

	case key.Matches(msg, keys.Enter):
		if value := strings.TrimSpace(a.input.Value()); value != "" {
			a.input.Reset()
			a.apply(a.engine.Custom(a.state, value))
			return nil
		}
		if step.Kind == wizard.KindMulti {
			a.apply(a.engine.Next(a.state))
			return nil
		}
		if len(step.Options) > 0 {
			a.apply(a.engine.Select(a.state, step.Options[a.cursor]))
		}
		return nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

func (a *App) handleDetailsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		a.apply(a.engine.Back(a.state))
		return nil
	case key.Matches(msg, keys.Up):
		return a.focusDetail(a.focus - 1)
	case key.Matches(msg, keys.Down), key.Matches(msg, keys.Next):
		return a.focusDetail(a.focus + 1)
	case key.Matches(msg, keys.Enter):
		return a.submit()
	}

	if len(a.details) == 0 {
		return nil
	}
	var cmd tea.Cmd
	a.details[a.focus].input, cmd = a.details[a.focus].input.Update(msg)
	return cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Restart):
		a.restart()
		return nil
	case a.loading:
		return nil
	case key.Matches(msg, keys.Refine):
		a.view = viewRefine
		a.status = ""
		a.resetInput(refinePlaceholder)
		return nil
	case key.Matches(msg, keys.Retry):
		return a.generate(!a.fallback)
	}
	return nil
}

func (a *App) handleRefineKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		a.view = viewResults
		a.resetInput(customPlaceholder)
		return nil

	case key.Matches(msg, keys.Enter):
		preference := strings.TrimSpace(a.input.Value())
		if preference == "" {
			a.status = "Tell us what to change first"
			return nil
		}
		a.request.AdditionalPreferences = preference
		a.view = viewResults
		a.resetInput(customPlaceholder)
		return a.generate(true)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

// apply takes the outcome of an engine action. Errors leave the state as it was.
func (a *App) apply(next wizard.State, err error) {
	if err != nil {
		a.status = describe(err)
		return
	}
	moved := next.Step != a.state.Step
	a.state = next
	a.status = ""
	if moved {
		a.enterStep()
	}
}

func (a *App) enterStep() {
	a.cursor = 0
	a.details = nil
	a.focus = 0
	a.resetInput(customPlaceholder)

	step, err := a.engine.Current(a.state)
	if err != nil {
		return
	}
	switch step.Kind {
	case wizard.KindSingle:
		if i := indexOf(step.Options, a.value(step.Field)); i >= 0 {
			a.cursor = i
		}
	case wizard.KindDetails:
		a.details = a.newDetails(step)
	}
}

func (a *App) newDetails(step wizard.Step) []detailInput {
	names := step.Inputs()
	out := make([]detailInput, 0, len(names))
	for i, name := range names {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 40
		label, placeholder, value := a.detailText(name)
		ti.Placeholder = placeholder
		ti.SetValue(value)
		if i == 0 {
			ti.Focus()
		}
		out = append(out, detailInput{name: name, label: label, input: ti})
	}
	return out
}

func (a *App) detailText(name string) (label, placeholder, value string) {
	switch name {
	case wizard.DetailBudget:
		return "Budget (" + a.settings.CurrencySymbol + ")", "50", a.state.Budget
	case wizard.DetailGiftPreference:
		return "Gift type", "physical or experience", a.state.GiftPreference
	case wizard.DetailAge:
		return "Age", "optional", a.state.Age
	case wizard.DetailAdditionalPreferences:
		return "Anything else?", "optional", a.state.AdditionalPreferences
	}
	return name, "", ""
}

func (a *App) focusDetail(i int) tea.Cmd {
	if len(a.details) == 0 {
		return nil
	}
	i = (i + len(a.details)) % len(a.details)
	for j := range a.details {
		a.details[j].input.Blur()
	}
	a.focus = i
	return a.details[i].input.Focus()
}

func (a *App) detailValues() wizard.Details {
	var d wizard.Details
	for _, in := range a.details {
		value := in.input.Value()
		switch in.name {
		case wizard.DetailBudget:
			d.Budget = value
		case wizard.DetailGiftPreference:
			d.GiftPreference = value
		case wizard.DetailAge:
			d.Age = value
		case wizard.DetailAdditionalPreferences:
			d.AdditionalPreferences = value
		}
	}
	return d
}

func (a *App) submit() tea.Cmd {
	state, err := a.engine.SetDetails(a.state, a.detailValues())
	if err != nil {
		a.status = describe(err)
		return nil
	}
	a.state = state

	state, req, err := a.engine.Submit(a.state, a.settings.Region)
	if err != nil {
		a.status = describe(err)
		return nil
	}
	a.state = state
	a.request = req
	a.suggestions = nil
	a.fallback = false
	a.view = viewResults
	a.resetInput(customPlaceholder)
	return a.generate(false)
}

// generate starts one prompt/response round trip for the current request. When keep is set
// a failure leaves the cards on screen instead of replacing them with fallback ideas.
func (a *App) generate(keep bool) tea.Cmd {
	a.token++
	a.loading = true
	a.keep = keep
	a.status = ""

	token := a.token
	completion := a.profile.Completion(a.request, a.settings)
	completion.Model = a.opts.Model
	completion.MaxTokens = a.opts.MaxTokens
	generator, parser, timeout := a.opts.Generator, a.profile.Parser, a.opts.Timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		text, err := generator.Generate(ctx, completion)
		if err != nil {
			return suggestionsMsg{token: token, err: err}
		}
		suggestions, err := parser.Parse(text)
		return suggestionsMsg{token: token, suggestions: suggestions, err: err}
	}
}

func (a *App) receive(msg suggestionsMsg) {
	if msg.token != a.token {
		return
	}
	a.loading = false
	log := a.opts.Log.Zerolog(context.Background())

	switch {
	case msg.err == nil:
		a.suggestions = msg.suggestions
		a.fallback = false
		a.status = ""
	case a.keep && len(a.suggestions) > 0:
		log.Warn().Err(msg.err).Msg("refinement failed, keeping previous suggestions")
		a.status = refineFailedMessage
	default:
		log.Warn().Err(msg.err).Msg("generation failed, showing fallback suggestions")
		fallback, err := a.profile.Parser.Parse(giftprompt.FallbackReply(a.profile.Format))
		if err != nil {
			a.status = err.Error()
			return
		}
		a.suggestions = fallback
		a.fallback = true
		a.status = fallbackShownMessage
	}
}

func (a *App) restart() {
	a.token++
	a.loading = false
	a.keep = false
	a.view = viewWizard
	a.state = a.engine.Start()
	a.request = request_models.GiftRequest{}
	a.suggestions = nil
	a.fallback = false
	a.status = ""
	a.enterStep()
}

func (a *App) resetInput(placeholder string) {
	a.input.Reset()
	a.input.Placeholder = placeholder
	a.input.Focus()
}

func (a *App) value(field wizard.Field) string {
	switch field {
	case wizard.FieldOccasion:
		return a.state.Occasion
	case wizard.FieldRecipient:
		return a.state.Recipient
	}
	return ""
}

func describe(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return strings.TrimPrefix(verr.Error(), "validation failed: ")
	}
	return err.Error()
}

func indexOf(list []string, v string) int {
	v = strings.TrimSpace(v)
	for i, item := range list {
		if strings.EqualFold(item, v) {
			return i
		}
	}
	return -1
}
