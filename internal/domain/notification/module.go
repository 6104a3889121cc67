package notification

import (
	"time"

	"art_contest_admin/internal/domain/notification/handler"
	"art_contest_admin/internal/domain/notification/repository"
	"art_contest_admin/internal/domain/notification/service"
	"art_contest_admin/internal/pkg/push"
	"art_contest_admin/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

const reminderJobName = "campaign-deadline-reminder"

// NotificationModule 后台推送与截稿提醒
type NotificationModule struct{}

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	return 40
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	log := ctx.ModuleLogger("notification")
	pusher := ctx.Pusher
	if pusher == nil {
		pusher = push.NewLogPushService(log)
	}

	opts := service.Options{
		ReminderWindow: time.Duration(ctx.Config.Scheduler.ReminderWindowHours) * time.Hour,
		Logger:         log,
	}
	if ctx.Metrics != nil {
		opts.Metrics = ctx.Metrics
	}

	notificationRepo := repository.NewNotificationRepository(ctx.DB)
	notificationService := service.NewNotificationService(notificationRepo, pusher, opts)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	if ctx.Scheduler != nil {
		if err := ctx.Scheduler.AddJob(reminderJobName, ctx.Config.Scheduler.ReminderSpec, notificationService.SendDeadlineReminders); err != nil {
			return err
		}
	}

	setupRoutes(api, notificationHandler)
	return nil
}

func setupRoutes(api *gin.RouterGroup, h *handler.NotificationHandler) {
	g := api.Group("/push")
	{
		g.POST("/broadcast", h.Broadcast)
		g.POST("/send-to-user", h.SendToUser)
		g.POST("/send-to-campaign-participants", h.SendToCampaignParticipants)
		g.GET("/stats", h.Stats)
		g.GET("/history", h.History)
	}
}
