package handler

import (
	"errors"
	"net/http"

	"art_contest_admin/internal/domain/notification/service"
	"art_contest_admin/internal/pkg/middleware"
	"art_contest_admin/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service service.NotificationService, log *zap.Logger) *NotificationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationHandler{service: service, log: log}
}

// PushRequest 推送内容，按接口附带 user_id 或 campaign_id
type PushRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Icon       string `json:"icon"`
	URL        string `json:"url"`
	UserID     string `json:"user_id"`
	CampaignID string `json:"campaign_id"`
}

func (h *NotificationHandler) bind(c *gin.Context) (*PushRequest, service.Message, bool) {
	var req PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return nil, service.Message{}, false
	}
	msg := service.Message{
		Title:  req.Title,
		Body:   req.Body,
		Icon:   req.Icon,
		URL:    req.URL,
		SentBy: c.GetString(middleware.ContextUsername),
	}
	return &req, msg, true
}

func (h *NotificationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMessage):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrTargetRequired):
		response.Error(c, http.StatusBadRequest, response.ErrPushTargetRequired, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, err.Error())
	case errors.Is(err, service.ErrCampaignNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCampaignNotFound, err.Error())
	default:
		h.log.Error("push request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

func (h *NotificationHandler) respond(c *gin.Context, res *service.Result, err error) {
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Notification sent", res)
}

// Broadcast 全量推送
// @Summary 全量推送
// @Tags Push
// @Security ApiKeyAuth
// @Accept json
// @Param input body PushRequest true "Message"
// @Success 200 {object} response.Response{data=pool.FanOutStats}
// @Router /api/push/broadcast [post]
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	_, msg, ok := h.bind(c)
	if !ok {
		return
	}
	res, err := h.service.Broadcast(c.Request.Context(), msg)
	h.respond(c, res, err)
}

// SendToUser 推送给单个用户
// @Summary 推送给用户
// @Tags Push
// @Security ApiKeyAuth
// @Accept json
// @Param input body PushRequest true "Message with user_id"
// @Success 200 {object} response.Response{data=pool.FanOutStats}
// @Router /api/push/send-to-user [post]
func (h *NotificationHandler) SendToUser(c *gin.Context) {
	req, msg, ok := h.bind(c)
	if !ok {
		return
	}
	res, err := h.service.SendToUser(c.Request.Context(), req.UserID, msg)
	h.respond(c, res, err)
}

// SendToCampaignParticipants 推送给活动参与者
// @Summary 推送给活动参与者
// @Tags Push
// @Security ApiKeyAuth
// @Accept json
// @Param input body PushRequest true "Message with campaign_id"
// @Success 200 {object} response.Response{data=pool.FanOutStats}
// @Router /api/push/send-to-campaign-participants [post]
func (h *NotificationHandler) SendToCampaignParticipants(c *gin.Context) {
	req, msg, ok := h.bind(c)
	if !ok {
		return
	}
	res, err := h.service.SendToCampaignParticipants(c.Request.Context(), req.CampaignID, msg)
	h.respond(c, res, err)
}

// Stats 有效订阅数
// @Summary 订阅统计
// @Tags Push
// @Security ApiKeyAuth
// @Success 200 {object} response.Response{data=service.Stats}
// @Router /api/push/stats [get]
func (h *NotificationHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, stats)
}

// History 最近推送记录
// @Summary 推送记录
// @Tags Push
// @Security ApiKeyAuth
// @Success 200 {object} response.Response{data=[]model.Notification}
// @Router /api/push/history [get]
func (h *NotificationHandler) History(c *gin.Context) {
	logs, err := h.service.History(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, logs)
}
