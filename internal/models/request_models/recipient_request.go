package request_models

type RecipientRequest struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Relationship string   `json:"relationship" validate:"max=60"`
	Birthdate    string   `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Interests    []string `json:"interests" validate:"dive,required"`
	Notes        string   `json:"notes" validate:"max=2000"`
	NotifyEmail  string   `json:"notify_email" validate:"omitempty,email"`
}

type RecipientWizardRequest struct {
	Flow string `json:"flow"`
}
