// Package wizard is a step-indexed input collector for gift requests. One Engine runs every
// flow; flows differ only by their step configuration.
package wizard

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindSingle  Kind = "single"
	KindMulti   Kind = "multi"
	KindDetails Kind = "details"
)

type Field string

const (
	FieldOccasion  Field = "occasion"
	FieldRecipient Field = "recipient"
	FieldInterests Field = "interests"
	FieldDetails   Field = "details"
)

// Detail inputs a details step can show.
const (
	DetailBudget                = "budget"
	DetailGiftPreference        = "giftPreference"
	DetailAge                   = "age"
	DetailAdditionalPreferences = "additionalPreferences"
)

type Step struct {
	Key          string   `json:"key" yaml:"key"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Field        Field    `json:"field" yaml:"field"`
	Kind         Kind     `json:"kind" yaml:"kind"`
	Options      []string `json:"options,omitempty" yaml:"options"`
	DetailFields []string `json:"detail_fields,omitempty" yaml:"detail_fields"`
}

type Flow struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
	Steps []Step `json:"steps" yaml:"steps"`
}

var errInvalidFlow = errors.New("invalid wizard flow")

// Check verifies that the flow can produce a complete gift request: each field is collected
// by exactly one step of the matching kind and the details step comes last.
func (f Flow) Check() error {
	if f.Name == "" {
		return fmt.Errorf("%w: missing name", errInvalidFlow)
	}
	if len(f.Steps) == 0 {
		return fmt.Errorf("%w: %s has no steps", errInvalidFlow, f.Name)
	}

	want := map[Field]Kind{
		FieldOccasion:  KindSingle,
		FieldRecipient: KindSingle,
		FieldInterests: KindMulti,
		FieldDetails:   KindDetails,
	}
	seen := map[Field]bool{}
	for i, step := range f.Steps {
		kind, ok := want[step.Field]
		if !ok {
			return fmt.Errorf("%w: %s step %d has unknown field %q", errInvalidFlow, f.Name, i, step.Field)
		}
		if step.Kind != kind {
			return fmt.Errorf("%w: %s step %d collects %s with kind %q", errInvalidFlow, f.Name, i, step.Field, step.Kind)
		}
		if seen[step.Field] {
			return fmt.Errorf("%w: %s collects %s twice", errInvalidFlow, f.Name, step.Field)
		}
		seen[step.Field] = true
	}
	for field := range want {
		if !seen[field] {
			return fmt.Errorf("%w: %s never collects %s", errInvalidFlow, f.Name, field)
		}
	}
	if f.Steps[len(f.Steps)-1].Kind != KindDetails {
		return fmt.Errorf("%w: %s must end with the details step", errInvalidFlow, f.Name)
	}
	return nil
}

// Inputs lists the detail inputs a details step shows, in display order.
func (s Step) Inputs() []string {
	if len(s.DetailFields) == 0 {
		return []string{DetailBudget, DetailGiftPreference}
	}
	return s.DetailFields
}

func (s Step) shows(detail string) bool {
	for _, d := range s.Inputs() {
		if d == detail {
			return true
		}
	}
	return false
}
