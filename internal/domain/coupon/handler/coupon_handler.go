package handler

import (
	"errors"
	"net/http"

	"art_contest_admin/internal/domain/coupon/model"
	"art_contest_admin/internal/domain/coupon/service"
	"art_contest_admin/pkg/response"
	"art_contest_admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CouponHandler struct {
	service service.CouponService
	log     *zap.Logger
}

func NewCouponHandler(service service.CouponService, log *zap.Logger) *CouponHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CouponHandler{service: service, log: log}
}

// CouponRequest 创建/编辑优惠券
type CouponRequest struct {
	Code                string             `json:"code"`
	Description         string             `json:"description"`
	DiscountType        model.DiscountType `json:"discount_type"`
	DiscountValue       float64            `json:"discount_value"`
	MinPurchaseAmount   float64            `json:"min_purchase_amount"`
	MaxDiscountAmount   *float64           `json:"max_discount_amount"`
	ExpiryDate          utils.Date         `json:"expiry_date"`
	UsageLimit          *int               `json:"usage_limit"`
	ApplicableCampaigns []string           `json:"applicable_campaigns"`
	IsActive            *bool              `json:"is_active"`
}

func (r CouponRequest) toInput() service.CouponInput {
	return service.CouponInput{
		Code:                r.Code,
		Description:         r.Description,
		DiscountType:        r.DiscountType,
		DiscountValue:       r.DiscountValue,
		MinPurchaseAmount:   r.MinPurchaseAmount,
		MaxDiscountAmount:   r.MaxDiscountAmount,
		ExpiryDate:          r.ExpiryDate.Time,
		UsageLimit:          r.UsageLimit,
		ApplicableCampaigns: r.ApplicableCampaigns,
		IsActive:            r.IsActive,
	}
}

// RedeemRequest 校验/核销
type RedeemRequest struct {
	Code           string  `json:"code" binding:"required"`
	CampaignID     string  `json:"campaign_id"`
	PurchaseAmount float64 `json:"purchase_amount" binding:"required"`
}

func (h *CouponHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCouponNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCoupon):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrCouponCodeTaken):
		response.Error(c, http.StatusConflict, response.ErrCouponCodeTaken, err.Error())
	case errors.Is(err, service.ErrCouponUnavailable):
		response.Error(c, http.StatusConflict, response.ErrCouponUnavailable, err.Error())
	case errors.Is(err, service.ErrCouponNotApplicable):
		response.Error(c, http.StatusBadRequest, response.ErrCouponNotApplicable, err.Error())
	default:
		h.log.Error("coupon request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// ListCoupons 优惠券列表
// @Summary 优惠券列表
// @Tags Coupon
// @Security ApiKeyAuth
// @Success 200 {object} response.Response{data=[]model.Coupon}
// @Router /api/coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.service.ListCoupons(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, coupons)
}

// GetCoupon 优惠券详情
// @Summary 优惠券详情
// @Tags Coupon
// @Security ApiKeyAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} response.Response{data=model.Coupon}
// @Router /api/coupons/{id} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.service.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, coupon)
}

// CreateCoupon 创建优惠券
// @Summary 创建优惠券
// @Tags Coupon
// @Security ApiKeyAuth
// @Accept json
// @Param input body CouponRequest true "Coupon"
// @Success 200 {object} response.Response{data=model.Coupon}
// @Router /api/coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.CreateCoupon(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Coupon created successfully", coupon)
}

// UpdateCoupon 编辑优惠券
// @Summary 编辑优惠券
// @Tags Coupon
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "Coupon ID"
// @Param input body CouponRequest true "Coupon"
// @Success 200 {object} response.Response{data=model.Coupon}
// @Router /api/coupons/{id} [put]
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.UpdateCoupon(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Coupon updated successfully", coupon)
}

// DeleteCoupon 删除优惠券
// @Summary 删除优惠券
// @Tags Coupon
// @Security ApiKeyAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} response.Response
// @Router /api/coupons/{id} [delete]
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.service.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Coupon deleted successfully", nil)
}

// ToggleStatus 启用/停用
// @Summary 启用/停用优惠券
// @Tags Coupon
// @Security ApiKeyAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} response.Response{data=model.Coupon}
// @Router /api/coupons/{id}/toggle-status [patch]
func (h *CouponHandler) ToggleStatus(c *gin.Context) {
	coupon, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Coupon status updated", coupon)
}

// Validate 试算优惠，不占用次数
// @Summary 校验优惠券
// @Tags Coupon
// @Security ApiKeyAuth
// @Accept json
// @Param input body RedeemRequest true "Redeem"
// @Success 200 {object} response.Response{data=service.Quote}
// @Router /api/coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "code and purchase_amount are required")
		return
	}

	quote, err := h.service.Validate(c.Request.Context(), service.RedeemInput(req))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, quote)
}

// Redeem 核销优惠券
// @Summary 核销优惠券
// @Tags Coupon
// @Security ApiKeyAuth
// @Accept json
// @Param input body RedeemRequest true "Redeem"
// @Success 200 {object} response.Response{data=service.Quote}
// @Router /api/coupons/redeem [post]
func (h *CouponHandler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "code and purchase_amount are required")
		return
	}

	quote, err := h.service.Redeem(c.Request.Context(), service.RedeemInput(req))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Coupon redeemed", quote)
}
