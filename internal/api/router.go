package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"gifty/internal/api/controllers"
	"gifty/internal/config"
	"gifty/pkg/logger"
	"gifty/pkg/middleware"
	"gifty/pkg/utils"
)

type RouterParams struct {
	fx.In

	Config   *config.Config
	Logger   *logger.Logger
	Tokens   *utils.SessionTokens
	Registry *prometheus.Registry
	DB       *gorm.DB `optional:"true"`

	Sessions    *controllers.SessionController
	Wizards     *controllers.WizardController
	Suggestions *controllers.SuggestionController
	Media       *controllers.MediaController
	Assistant   *controllers.AssistantController
	Recipients  *controllers.RecipientController
	GroupGifts  *controllers.GroupGiftController
}

func NewRouter(p RouterParams) *gin.Engine {
	if !p.Config.App.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.CORSMiddleware(p.Config.App.CORSOrigins))

	RegisterRoutes(r, p)
	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/healthz", healthz(p.DB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))

	r.POST("/sessions", p.Sessions.CreateSession)
	r.GET("/regions", p.Sessions.ListRegions)
	r.GET("/presets", p.Wizards.ListFlows)
	r.GET("/presets/:flow", p.Wizards.GetPresets)

	auth := r.Group("/")
	auth.Use(middleware.SessionMiddleware(p.Tokens, p.Logger))

	auth.GET("/region", p.Sessions.GetRegion)
	auth.PUT("/region", p.Sessions.SetRegion)

	wizardGroup := auth.Group("/wizard/:flow")
	wizardGroup.GET("", p.Wizards.GetWizard)
	wizardGroup.POST("/start", p.Wizards.StartWizard)
	wizardGroup.POST("/actions", p.Wizards.ApplyAction)
	wizardGroup.POST("/submit", p.Wizards.SubmitWizard)

	suggestionGroup := auth.Group("/suggestions/:flow")
	suggestionGroup.GET("", p.Suggestions.GetSuggestions)
	suggestionGroup.POST("/refine", p.Suggestions.RefineSuggestions)
	suggestionGroup.POST("/retry", p.Suggestions.RetrySuggestions)

	auth.POST("/voice/transcribe", p.Media.Transcribe)
	auth.POST("/voice/speak", p.Media.Speak)
	auth.POST("/voice/assistant", p.Assistant.Assist)
	auth.DELETE("/voice/assistant", p.Assistant.StartAssistant)
	auth.GET("/images", p.Media.FindImage)
	auth.GET("/stores/nearby", p.Media.NearbyStores)

	recipientGroup := auth.Group("/recipients")
	recipientGroup.POST("", p.Recipients.CreateRecipient)
	recipientGroup.GET("", p.Recipients.ListRecipients)
	recipientGroup.GET("/:id", p.Recipients.GetRecipient)
	recipientGroup.PUT("/:id", p.Recipients.UpdateRecipient)
	recipientGroup.DELETE("/:id", p.Recipients.DeleteRecipient)
	recipientGroup.POST("/:id/wizard", p.Recipients.StartWizardForRecipient)

	calendarGroup := auth.Group("/calendar")
	calendarGroup.GET("/upcoming", p.Recipients.UpcomingBirthdays)
	calendarGroup.GET("/month", p.Recipients.MonthBirthdays)
	calendarGroup.POST("/reminders", p.Recipients.SendReminders)

	groupGiftGroup := auth.Group("/group-gifts")
	groupGiftGroup.POST("", p.GroupGifts.CreateGroupGift)
	groupGiftGroup.GET("", p.GroupGifts.ListGroupGifts)
	groupGiftGroup.GET("/:id", p.GroupGifts.GetGroupGift)
	groupGiftGroup.POST("/:id/contributions", p.GroupGifts.Contribute)
	groupGiftGroup.POST("/:id/votes", p.GroupGifts.Vote)
	groupGiftGroup.POST("/:id/options", p.GroupGifts.AddOption)
	groupGiftGroup.POST("/:id/messages", p.GroupGifts.AddMessage)
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				err = sqlDB.PingContext(ctx)
				cancel()
			}
			if err != nil {
				utils.RespondError(c, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
	}
}
