package handler

import (
	"errors"
	"net/http"

	"art_contest_admin/internal/domain/campaign/model"
	"art_contest_admin/internal/domain/campaign/service"
	"art_contest_admin/pkg/response"
	"art_contest_admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	service service.CampaignService
	log     *zap.Logger
}

func NewCampaignHandler(service service.CampaignService, log *zap.Logger) *CampaignHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CampaignHandler{service: service, log: log}
}

// CampaignRequest 创建/编辑活动
type CampaignRequest struct {
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	ReferenceImage     string               `json:"reference_image"`
	Category           string               `json:"category"`
	AgeGroup           string               `json:"age_group"`
	CampaignType       model.CampaignType   `json:"campaign_type"`
	MaxParticipants    int                  `json:"max_participants"`
	EntryFee           model.EntryFee       `json:"entry_fee"`
	PointsRequired     int64                `json:"points_required"`
	Prizes             model.Prizes         `json:"prizes"`
	Rules              string               `json:"rules"`
	StartDate          utils.Date           `json:"start_date"`
	EndDate            utils.Date           `json:"end_date"`
	SubmissionDeadline utils.Date           `json:"submission_deadline"`
	ResultDate         utils.Date           `json:"result_date"`
	SubmissionType     model.SubmissionType `json:"submission_type"`
}

func (r CampaignRequest) toInput() service.CampaignInput {
	return service.CampaignInput{
		Name:               r.Name,
		Description:        r.Description,
		ReferenceImage:     r.ReferenceImage,
		Category:           r.Category,
		AgeGroup:           r.AgeGroup,
		CampaignType:       r.CampaignType,
		MaxParticipants:    r.MaxParticipants,
		EntryFee:           r.EntryFee,
		PointsRequired:     r.PointsRequired,
		Prizes:             r.Prizes,
		Rules:              r.Rules,
		StartDate:          r.StartDate.Time,
		EndDate:            r.EndDate.Time,
		SubmissionDeadline: r.SubmissionDeadline.Time,
		ResultDate:         r.ResultDate.Time,
		SubmissionType:     r.SubmissionType,
	}
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RateRequest struct {
	Rating        *float64 `json:"rating" binding:"required"`
	Notes         string   `json:"notes"`
	PrizePosition *string  `json:"prize_position"`
}

type DistributeRequest struct {
	CampaignID     string `json:"campaign_id" binding:"required"`
	FirstWinnerID  string `json:"first_winner_id"`
	SecondWinnerID string `json:"second_winner_id"`
}

// handleError 业务错误映射到响应码
func (h *CampaignHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCampaignNotFound, err.Error())
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.Error(c, http.StatusNotFound, response.ErrSubmissionNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCampaign),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidPrizePosition),
		errors.Is(err, service.ErrWinnerRequired):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrSameWinner):
		response.Error(c, http.StatusBadRequest, response.ErrSameWinner, err.Error())
	case errors.Is(err, service.ErrWinnerNotInCampaign):
		response.Error(c, http.StatusBadRequest, response.ErrWinnerNotInCampaign, err.Error())
	case errors.Is(err, service.ErrNoSubmissions):
		response.Error(c, http.StatusConflict, response.ErrNoSubmissions, err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrConcurrentUpdate),
		errors.Is(err, service.ErrCampaignNotActive):
		response.Error(c, http.StatusConflict, response.ErrInvalidTransition, err.Error())
	case errors.Is(err, service.ErrAlreadyDistributed):
		response.Error(c, http.StatusConflict, response.ErrAlreadyDistributed, err.Error())
	case errors.Is(err, service.ErrCampaignClosed):
		response.Error(c, http.StatusConflict, response.ErrCampaignClosed, err.Error())
	case errors.Is(err, service.ErrCampaignHasSubmissions):
		response.Error(c, http.StatusConflict, response.ErrCampaignHasSubmissions, err.Error())
	default:
		h.log.Error("campaign request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// ListCampaigns 活动列表
// @Summary 活动列表
// @Tags Campaign
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "draft/active/completed/cancelled/all"
// @Success 200 {object} response.Response{data=[]model.Campaign}
// @Router /api/campaigns/admin/all [get]
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.service.ListCampaigns(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, campaigns)
}

// GetCampaign 活动详情（含投稿）
// @Summary 活动详情
// @Tags Campaign
// @Security ApiKeyAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Response{data=service.CampaignDetail}
// @Router /api/campaigns/admin/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	detail, err := h.service.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, detail)
}

type ParticipantsResponse struct {
	Participants []model.Submission `json:"participants"`
	Total        int                `json:"total"`
}

// ListParticipants 活动投稿列表
// @Summary 活动参与者
// @Tags Campaign
// @Security ApiKeyAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Response{data=ParticipantsResponse}
// @Router /api/campaigns/{id}/participants [get]
func (h *CampaignHandler) ListParticipants(c *gin.Context) {
	submissions, err := h.service.ListParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, ParticipantsResponse{Participants: submissions, Total: len(submissions)})
}

// CreateCampaign 创建活动
// @Summary 创建活动
// @Tags Campaign
// @Security ApiKeyAuth
// @Accept json
// @Param input body CampaignRequest true "Campaign"
// @Success 200 {object} response.Response{data=model.Campaign}
// @Router /api/campaigns/admin/create [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	campaign, err := h.service.CreateCampaign(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Campaign created successfully", campaign)
}

// UpdateCampaign 编辑活动
// @Summary 编辑活动
// @Tags Campaign
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "Campaign ID"
// @Param input body CampaignRequest true "Campaign"
// @Success 200 {object} response.Response{data=model.Campaign}
// @Router /api/campaigns/admin/{id} [put]
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	campaign, err := h.service.UpdateCampaign(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Campaign updated successfully", campaign)
}

// ChangeStatus 切换活动状态
// @Summary 切换活动状态
// @Tags Campaign
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "Campaign ID"
// @Param input body StatusRequest true "Status"
// @Success 200 {object} response.Response{data=model.Campaign}
// @Failure 409 {object} response.Response "completion gate"
// @Router /api/campaigns/admin/{id}/status [patch]
func (h *CampaignHandler) ChangeStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "status is required")
		return
	}

	id := c.Param("id")
	campaign, err := h.service.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrWinnersNotSelected) {
			// 引导后台跳转到评审页
			response.ErrorWithData(c, http.StatusConflict, response.ErrWinnersNotSelected, err.Error(), gin.H{
				"review_required": true,
				"review_path":     "/submissions/" + id,
			})
			return
		}
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Campaign status updated", campaign)
}

// DeleteCampaign 删除活动
// @Summary 删除活动
// @Tags Campaign
// @Security ApiKeyAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Response
// @Router /api/campaigns/admin/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	if err := h.service.DeleteCampaign(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Campaign deleted successfully", nil)
}

// RateSubmission 评分并设置名次
// @Summary 投稿评分
// @Tags Campaign
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "Submission ID"
// @Param input body RateRequest true "Rating"
// @Success 200 {object} response.Response{data=model.Submission}
// @Router /api/campaigns/admin/submission/{id}/rate [put]
func (h *CampaignHandler) RateSubmission(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "rating is required")
		return
	}

	input := service.RateInput{Rating: req.Rating, Notes: req.Notes}
	if req.PrizePosition != nil {
		input.PrizePosition = *req.PrizePosition
	}

	submission, err := h.service.RateSubmission(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Submission rated successfully", submission)
}

// DistributePrizes 评奖并发放奖金与参与积分
// @Summary 发放奖金
// @Tags Campaign
// @Security ApiKeyAuth
// @Accept json
// @Param input body DistributeRequest true "Winners"
// @Success 200 {object} response.Response{data=model.DistributionResult}
// @Router /api/campaigns/admin/distribute-prizes [post]
func (h *CampaignHandler) DistributePrizes(c *gin.Context) {
	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "campaign_id is required")
		return
	}

	result, err := h.service.DistributePrizes(c.Request.Context(), service.DistributeInput{
		CampaignID:     req.CampaignID,
		FirstWinnerID:  req.FirstWinnerID,
		SecondWinnerID: req.SecondWinnerID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Prizes distributed successfully", gin.H{"results": result})
}

// Stats 后台首页统计
// @Summary 首页统计
// @Tags Campaign
// @Security ApiKeyAuth
// @Success 200 {object} response.Response{data=model.Stats}
// @Router /api/campaigns/admin/stats [get]
func (h *CampaignHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, stats)
}
