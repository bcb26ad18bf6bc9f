package request_models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ParticipantRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

type CreateGroupGiftRequest struct {
	Title           string               `json:"title" validate:"required,max=200"`
	Recipient       string               `json:"recipient" validate:"required"`
	Occasion        string               `json:"occasion" validate:"required"`
	TargetAmount    decimal.Decimal      `json:"target_amount"`
	MinContribution decimal.Decimal      `json:"min_contribution"`
	Deadline        time.Time            `json:"deadline" validate:"required"`
	Organizer       string               `json:"organizer" validate:"required"`
	Participants    []ParticipantRequest `json:"participants" validate:"dive"`
	Options         []GiftOptionRequest  `json:"gift_options" validate:"dive"`
}

type ContributeRequest struct {
	ParticipantID string          `json:"participant_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
}

type VoteRequest struct {
	ParticipantID string `json:"participant_id" validate:"required,uuid"`
	OptionID      string `json:"option_id" validate:"required,uuid"`
}

type GiftOptionRequest struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image" validate:"omitempty,url"`
	URL         string          `json:"url" validate:"omitempty,url"`
	SuggestedBy string          `json:"suggested_by"`
}

type GroupMessageRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Content  string `json:"content" validate:"required,max=2000"`
}
