package request_models

import "gifty/pkg/region"

type GiftPreference string

const (
	GiftPreferencePhysical   GiftPreference = "physical"
	GiftPreferenceExperience GiftPreference = "experience"
)

// GiftRequest is what the wizard emits and what the prompt builder consumes.
// It is stored as JSON in the "user_input" slot.
type GiftRequest struct {
	Occasion              string         `json:"occasion" validate:"required"`
	Recipient             string         `json:"recipient" validate:"required"`
	Interests             []string       `json:"interests" validate:"required,min=1,dive,required"`
	Budget                string         `json:"budget" validate:"required,budget"`
	GiftPreference        GiftPreference `json:"giftPreference" validate:"required,oneof=physical experience"`
	AdditionalPreferences string         `json:"additionalPreferences,omitempty"`
	Age                   string         `json:"age,omitempty" validate:"omitempty,numeric"`
	Region                region.Region  `json:"region" validate:"required,oneof=IN US"`
}

// Clone returns a copy that does not share the interests slice.
func (r GiftRequest) Clone() GiftRequest {
	out := r
	out.Interests = append([]string(nil), r.Interests...)
	return out
}

type RefineRequest struct {
	Preference string `json:"preference" binding:"required"`
}

type RegionRequest struct {
	Region string `json:"region" binding:"required"`
}

const (
	WizardSelect  = "select"
	WizardCustom  = "custom"
	WizardToggle  = "toggle"
	WizardNext    = "next"
	WizardBack    = "back"
	WizardDetails = "details"
)

type WizardActionRequest struct {
	Action                string `json:"action" binding:"required,oneof=select custom toggle next back details"`
	Value                 string `json:"value"`
	Budget                string `json:"budget"`
	GiftPreference        string `json:"giftPreference"`
	Age                   string `json:"age"`
	AdditionalPreferences string `json:"additionalPreferences"`
}
