package utils

import "errors"

var (
	ErrSessionRequired = errors.New("session token required")
	ErrInvalidSession  = errors.New("invalid session token")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDatabaseError   = errors.New("database error")

	ErrNoGiftRequest   = errors.New("no gift request")
	ErrStaleResponse   = errors.New("response superseded by a newer request")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrEmptyAudio      = errors.New("audio is empty")
	ErrAudioTooLarge   = errors.New("audio exceeds 25MB")
	ErrEmptyText       = errors.New("text is empty")
	ErrFeatureDisabled = errors.New("feature not configured")

	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrGroupGiftNotFound    = errors.New("group gift not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrGiftOptionNotFound   = errors.New("gift option not found")
	ErrGroupGiftClosed      = errors.New("group gift is completed")
	ErrContributionTooLow   = errors.New("contribution below minimum")
	ErrContributionTooHigh  = errors.New("contribution exceeds remaining amount")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrDeadlinePassed       = errors.New("deadline must be in the future")
	ErrParticipantsRequired = errors.New("at least one participant is required")
	ErrAlreadyVoted         = errors.New("participant already voted for this option")
)
