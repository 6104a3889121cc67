package campaign

import (
	"art_contest_admin/internal/domain/campaign/handler"
	"art_contest_admin/internal/domain/campaign/repository"
	"art_contest_admin/internal/domain/campaign/service"
	"art_contest_admin/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CampaignModule 活动、投稿与评奖
type CampaignModule struct{}

func init() {
	registry.Register(&CampaignModule{})
}

func (m *CampaignModule) Name() string {
	return "campaign"
}

func (m *CampaignModule) Priority() int {
	return 10
}

func (m *CampaignModule) Init(ctx *registry.ModuleContext) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	opts := service.Options{
		ParticipationPoints: ctx.Config.Rewards.ParticipationPoints,
		Logger:              ctx.ModuleLogger("campaign"),
	}
	if ctx.Notifier != nil {
		opts.Notifier = ctx.Notifier
	}
	if ctx.Metrics != nil {
		opts.Metrics = ctx.Metrics
	}

	campaignRepo := repository.NewCampaignRepository(ctx.DB)
	statsRepo := repository.NewStatsRepository(ctx.Reporting)
	campaignService := service.NewCampaignService(campaignRepo, statsRepo, ctx.Cache, opts)
	campaignHandler := handler.NewCampaignHandler(campaignService, ctx.ModuleLogger("campaign"))

	setupRoutes(api, campaignHandler)
	return nil
}

func setupRoutes(api *gin.RouterGroup, h *handler.CampaignHandler) {
	admin := api.Group("/campaigns/admin")
	{
		admin.GET("/all", h.ListCampaigns)
		admin.GET("/stats", h.Stats)
		admin.POST("/create", h.CreateCampaign)
		admin.POST("/distribute-prizes", h.DistributePrizes)
		admin.PUT("/submission/:id/rate", h.RateSubmission)
		admin.GET("/:id", h.GetCampaign)
		admin.PUT("/:id", h.UpdateCampaign)
		admin.PATCH("/:id/status", h.ChangeStatus)
		admin.DELETE("/:id", h.DeleteCampaign)
	}

	api.GET("/campaigns/:id/participants", h.ListParticipants)
}
