package response_models

import (
	"time"

	"gifty/pkg/region"
)

type GiftSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
	Reason      string `json:"reason,omitempty"`
	WhereToBuy  string `json:"whereToBuy,omitempty"`
}

// SuggestionView is the last rendered state of a suggestion screen for one session and flow.
type SuggestionView struct {
	Flow        string           `json:"flow"`
	Token       int64            `json:"token,string"`
	Suggestions []GiftSuggestion `json:"suggestions"`
	Error       string           `json:"error,omitempty"`
	Fallback    bool             `json:"fallback,omitempty"`
	Region      region.Settings  `json:"region"`
	Fingerprint string           `json:"fingerprint"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
