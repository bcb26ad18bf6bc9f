package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	GroupGiftActive    = "active"
	GroupGiftCompleted = "completed"

	ParticipantInvited  = "invited"
	ParticipantJoined   = "joined"
	ParticipantDeclined = "declined"

	MessageChat         = "chat"
	MessageSystem       = "system"
	MessageContribution = "contribution"
	MessageVote         = "vote"
)

type GroupGift struct {
	BaseModel
	SessionID       string          `gorm:"index;size:64;not null" json:"-"`
	Title           string          `gorm:"not null" json:"title"`
	Recipient       string          `json:"recipient"`
	Occasion        string          `json:"occasion"`
	TargetAmount    decimal.Decimal `gorm:"type:numeric(12,2)" json:"target_amount"`
	CurrentAmount   decimal.Decimal `gorm:"type:numeric(12,2)" json:"current_amount"`
	MinContribution decimal.Decimal `gorm:"type:numeric(12,2)" json:"min_contribution"`
	Currency        string          `gorm:"size:3" json:"currency"`
	Deadline        time.Time       `json:"deadline"`
	Organizer       string          `json:"organizer"`
	Status          string          `gorm:"size:16;default:active" json:"status"`

	Participants []Participant  `gorm:"foreignKey:GroupGiftID" json:"participants"`
	Options      []GiftOption   `gorm:"foreignKey:GroupGiftID" json:"gift_options"`
	Messages     []GroupMessage `gorm:"foreignKey:GroupGiftID" json:"messages"`
}

// Remaining is how much is still needed to reach the target, never negative.
func (g GroupGift) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

type Participant struct {
	BaseModel
	GroupGiftID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"group_gift_id"`
	Name          string          `gorm:"not null" json:"name"`
	Email         string          `json:"email"`
	Contribution  decimal.Decimal `gorm:"type:numeric(12,2)" json:"contribution"`
	Status        string          `gorm:"size:16;default:invited" json:"status"`
	VotedOptionID *uuid.UUID      `gorm:"type:uuid" json:"voted_option_id,omitempty"`
}

type GiftOption struct {
	BaseModel
	GroupGiftID uuid.UUID       `gorm:"type:uuid;index;not null" json:"group_gift_id"`
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image"`
	URL         string          `json:"url"`
	Votes       int             `json:"votes"`
	SuggestedBy string          `json:"suggested_by"`
}

type GroupMessage struct {
	BaseModel
	GroupGiftID uuid.UUID `gorm:"type:uuid;index;not null" json:"group_gift_id"`
	UserName    string    `json:"user_name"`
	Content     string    `json:"content"`
	Type        string    `gorm:"size:16" json:"type"`
}
