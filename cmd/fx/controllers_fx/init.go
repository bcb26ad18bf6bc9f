package controllers_fx

import (
	"go.uber.org/fx"

	"gifty/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewSessionController),
	fx.Provide(controllers.NewWizardController),
	fx.Provide(controllers.NewSuggestionController),
	fx.Provide(controllers.NewMediaController),
	fx.Provide(controllers.NewAssistantController),
	fx.Provide(controllers.NewRecipientController),
	fx.Provide(controllers.NewGroupGiftController))
