package response_models

type BirthdayEvent struct {
	RecipientID  string `json:"recipient_id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Date         string `json:"date"`
	DaysUntil    int    `json:"days_until"`
	TurningAge   int    `json:"turning_age"`
}

type ReminderResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
