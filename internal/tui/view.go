package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"gifty/internal/models/response_models"
	"gifty/pkg/wizard"
)

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("gifty"))
	b.WriteString(styleSubtitle.Render(fmt.Sprintf("  %s · %s (%s)", a.engine.Flow().Title, a.settings.Country, a.settings.Currency)))
	b.WriteString("\n\n")

	switch a.view {
	case viewWizard:
		b.WriteString(a.viewWizard())
	case viewResults, viewRefine:
		b.WriteString(a.viewResults())
	}

	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(styleError.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(a.help.ShortHelpView(a.bindings()))
	return b.String()
}

func (a *App) viewWizard() string {
	step, err := a.engine.Current(a.state)
	if err != nil {
		return styleError.Render(err.Error())
	}

	var b strings.Builder
	b.WriteString(styleSubtitle.Render(fmt.Sprintf("Step %d of %d", a.state.Step+1, len(a.engine.Flow().Steps))))
	b.WriteString("\n")
	b.WriteString(styleTitle.Render(step.Title))
	if step.Description != "" {
		b.WriteString("  ")
		b.WriteString(styleSubtitle.Render(step.Description))
	}
	b.WriteString("\n\n")

	if step.Kind == wizard.KindDetails {
		for _, d := range a.details {
			b.WriteString(d.label)
			b.WriteString("\n")
			b.WriteString(d.input.View())
			b.WriteString("\n\n")
		}
		return b.String()
	}

	for i, option := range step.Options {
		cursor := "  "
		if i == a.cursor {
			cursor = styleCursor.Render("> ")
		}
		line := option
		chosen := false
		if step.Kind == wizard.KindMulti {
			chosen = indexOf(a.state.Interests, option) >= 0
			mark := "[ ] "
			if chosen {
				mark = "[x] "
			}
			line = mark + option
		} else {
			chosen = strings.EqualFold(a.value(step.Field), option)
		}
		if chosen {
			line = styleChosen.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	if extra := a.customValues(step); len(extra) > 0 {
		b.WriteString("\n")
		b.WriteString(styleChosen.Render("Also: " + strings.Join(extra, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(a.input.View())
	b.WriteString("\n")
	return b.String()
}

// customValues are the typed values of the step that are not among its presets.
func (a *App) customValues(step wizard.Step) []string {
	var values []string
	if step.Kind == wizard.KindMulti {
		values = a.state.Interests
	} else if v := a.value(step.Field); v != "" {
		values = []string{v}
	}

	var out []string
	for _, v := range values {
		if indexOf(step.Options, v) < 0 {
			out = append(out, v)
		}
	}
	return out
}

func (a *App) viewResults() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Gift ideas for your %s", strings.ToLower(a.request.Recipient))))
	b.WriteString(styleSubtitle.Render("  " + a.request.Occasion))
	b.WriteString("\n\n")

	if a.loading {
		if len(a.suggestions) == 0 {
			b.WriteString(styleSubtitle.Render("Finding gift ideas..."))
			b.WriteString("\n")
			return b.String()
		}
		b.WriteString(styleSubtitle.Render("Refining..."))
		b.WriteString("\n\n")
	}

	for i, s := range a.suggestions {
		b.WriteString(a.card(i+1, s))
		b.WriteString("\n")
	}

	if a.view == viewRefine {
		b.WriteString("What should change?\n")
		b.WriteString(a.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) card(n int, s response_models.GiftSuggestion) string {
	var b strings.Builder
	b.WriteString(styleCardTitle.Render(fmt.Sprintf("%d. %s", n, s.Name)))
	if s.Price != "" {
		b.WriteString("  ")
		b.WriteString(stylePrice.Render(s.Price))
	}
	b.WriteString("\n")
	b.WriteString(s.Description)
	if s.Reason != "" {
		b.WriteString("\n")
		b.WriteString(styleSubtitle.Render("Why: " + s.Reason))
	}
	if s.WhereToBuy != "" {
		b.WriteString("\n")
		b.WriteString(styleSubtitle.Render("Where: " + s.WhereToBuy))
	}

	style := styleCard
	if a.width > 8 {
		style = style.Width(min(a.width-4, 80))
	}
	return style.Render(b.String())
}

func (a *App) bindings() []key.Binding {
	switch a.view {
	case viewResults:
		if a.loading {
			return []key.Binding{keys.Restart, keys.Quit}
		}
		return []key.Binding{keys.Refine, keys.Retry, keys.Restart, keys.Quit}
	case viewRefine:
		enter := keys.Enter
		enter.SetHelp("enter", "refine")
		return []key.Binding{enter, keys.Back, keys.Quit}
	}

	step, err := a.engine.Current(a.state)
	if err != nil {
		return []key.Binding{keys.Quit}
	}
	switch step.Kind {
	case wizard.KindDetails:
		enter := keys.Enter
		enter.SetHelp("enter", "get ideas")
		return []key.Binding{keys.Next, enter, keys.Back, keys.Quit}
	case wizard.KindMulti:
		return []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Next, keys.Back, keys.Quit}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Enter, keys.Back, keys.Quit}
}
