package response_models

import "gifty/pkg/wizard"

type WizardView struct {
	Flow      string       `json:"flow"`
	Title     string       `json:"title"`
	StepIndex int          `json:"step_index"`
	StepCount int          `json:"step_count"`
	IsFinal   bool         `json:"is_final"`
	Step      wizard.Step  `json:"step"`
	State     wizard.State `json:"state"`
}
