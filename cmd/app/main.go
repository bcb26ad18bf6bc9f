package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"gifty/cmd/fx/config_fx"
	"gifty/cmd/fx/controllers_fx"
	"gifty/cmd/fx/db_fx"
	"gifty/cmd/fx/integrations_fx"
	"gifty/cmd/fx/mail_fx"
	"gifty/cmd/fx/memcache_fx"
	"gifty/cmd/fx/prompt_fx"
	"gifty/cmd/fx/services_fx"
	"gifty/cmd/fx/slots_fx"
	"gifty/internal/api"
	"gifty/internal/config"
	"gifty/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		slots_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		prompt_fx.Module,
		integrations_fx.Module,
		services_fx.Module,
		controllers_fx.Module,

		fx.Provide(api.NewRouter),
		fx.Invoke(StartServer),
		fx.NopLogger,
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Zerolog(ctx).Info().Str("addr", srv.Addr).Msg("starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error(context.Background(), "http server stopped", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info(ctx, "stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
