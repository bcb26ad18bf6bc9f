package db_models

// Slot is one durable key/value entry owned by a browser session.
type Slot struct {
	SessionID string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"column:slot_key;primaryKey;size:128"`
	Value     []byte
	ExpiresAt int64 `gorm:"index"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}
