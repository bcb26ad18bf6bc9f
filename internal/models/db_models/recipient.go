package db_models

import "github.com/lib/pq"

type Recipient struct {
	BaseModel
	SessionID    string         `gorm:"index;size:64;not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Relationship string         `json:"relationship"`
	Birthdate    string         `gorm:"size:10" json:"birthdate"`
	Interests    pq.StringArray `gorm:"type:text[]" json:"interests"`
	Notes        string         `json:"notes,omitempty"`
	NotifyEmail  string         `json:"notify_email,omitempty"`
}
