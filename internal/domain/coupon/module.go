package coupon

import (
	"art_contest_admin/internal/domain/coupon/handler"
	"art_contest_admin/internal/domain/coupon/repository"
	"art_contest_admin/internal/domain/coupon/service"
	"art_contest_admin/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CouponModule 优惠券管理与核销
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 30
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	var recorder service.RedemptionRecorder
	if ctx.Metrics != nil {
		recorder = ctx.Metrics
	}

	couponRepo := repository.NewCouponRepository(ctx.DB)
	couponService := service.NewCouponService(couponRepo, recorder, ctx.ModuleLogger("coupon"))
	couponHandler := handler.NewCouponHandler(couponService, ctx.ModuleLogger("coupon"))

	setupRoutes(api, couponHandler)
	return nil
}

func setupRoutes(api *gin.RouterGroup, h *handler.CouponHandler) {
	g := api.Group("/coupons")
	{
		g.GET("", h.ListCoupons)
		g.POST("", h.CreateCoupon)
		g.POST("/validate", h.Validate)
		g.POST("/redeem", h.Redeem)
		g.GET("/:id", h.GetCoupon)
		g.PUT("/:id", h.UpdateCoupon)
		g.DELETE("/:id", h.DeleteCoupon)
		g.PATCH("/:id/toggle-status", h.ToggleStatus)
	}
}
