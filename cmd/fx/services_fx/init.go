package services_fx

import (
	"go.uber.org/fx"

	"gifty/internal/config"
	"gifty/internal/repositories"
	"gifty/internal/services"
)

var Module = fx.Provide(
	services.NewSessionService,
	provideRegionService,
	services.NewWizardService,
	services.NewRecipientService,
	services.NewGroupGiftService,
)

func provideRegionService(cfg *config.Config, slots repositories.SlotStore) services.RegionServiceInterface {
	return services.NewRegionService(slots, cfg.App.Region())
}
