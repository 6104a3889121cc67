package handler

import (
	"errors"
	"net/http"

	"art_contest_admin/internal/domain/withdrawal/service"
	"art_contest_admin/internal/pkg/middleware"
	"art_contest_admin/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WithdrawalHandler struct {
	service service.WithdrawalService
	log     *zap.Logger
}

func NewWithdrawalHandler(service service.WithdrawalService, log *zap.Logger) *WithdrawalHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WithdrawalHandler{service: service, log: log}
}

type ProcessRequest struct {
	Status          string `json:"status" binding:"required"`
	AdminNotes      string `json:"admin_notes"`
	RejectionReason string `json:"rejection_reason"`
}

func (h *WithdrawalHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWithdrawalNotFound):
		response.Error(c, http.StatusNotFound, response.ErrWithdrawalNotFound, err.Error())
	case errors.Is(err, service.ErrRejectionReasonRequired):
		response.Error(c, http.StatusBadRequest, response.ErrRejectionReasonRequired, err.Error())
	case errors.Is(err, service.ErrInvalidDecision), errors.Is(err, service.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrAlreadyProcessed):
		response.Error(c, http.StatusConflict, response.ErrAlreadyProcessed, err.Error())
	default:
		h.log.Error("withdrawal request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// ListWithdrawals 提现列表
// @Summary 提现列表
// @Tags Withdrawal
// @Security ApiKeyAuth
// @Param status query string false "pending/completed/rejected/cancelled/all"
// @Success 200 {object} response.Response{data=[]model.Withdrawal}
// @Router /api/withdrawals/admin/all [get]
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	withdrawals, err := h.service.ListWithdrawals(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, withdrawals)
}

// GetWithdrawal 提现详情
// @Summary 提现详情
// @Tags Withdrawal
// @Security ApiKeyAuth
// @Param id path string true "Withdrawal ID"
// @Success 200 {object} response.Response{data=model.Withdrawal}
// @Router /api/withdrawals/admin/{id} [get]
func (h *WithdrawalHandler) GetWithdrawal(c *gin.Context) {
	withdrawal, err := h.service.GetWithdrawal(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, withdrawal)
}

// ProcessWithdrawal 审核提现
// @Summary 审核提现
// @Tags Withdrawal
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "Withdrawal ID"
// @Param input body ProcessRequest true "Decision"
// @Success 200 {object} response.Response{data=model.Withdrawal}
// @Failure 409 {object} response.Response "already processed"
// @Router /api/withdrawals/admin/{id}/process [put]
func (h *WithdrawalHandler) ProcessWithdrawal(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "status is required")
		return
	}

	withdrawal, err := h.service.ProcessWithdrawal(c.Request.Context(), c.Param("id"), service.ProcessInput{
		Status:          req.Status,
		AdminNotes:      req.AdminNotes,
		RejectionReason: req.RejectionReason,
	}, c.GetString(middleware.ContextAdminID))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Withdrawal "+string(withdrawal.Status), withdrawal)
}
