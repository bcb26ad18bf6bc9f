package mail_fx

import (
	"context"

	"go.uber.org/fx"

	"gifty/internal/config"
	"gifty/internal/services"
	"gifty/pkg/logger"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *logger.Logger) services.IMailService {
	if !cfg.Mail.Enabled() {
		log.Warn(context.Background(), "GIFTY_SMTP_HOST not set, invitations and reminders are disabled")
	}
	return services.NewSMTPMailService(cfg.Mail)
}
