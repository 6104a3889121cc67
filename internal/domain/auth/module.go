package auth

import (
	"time"

	"art_contest_admin/internal/domain/auth/handler"
	"art_contest_admin/internal/domain/auth/service"
	"art_contest_admin/internal/pkg/middleware"
	"art_contest_admin/internal/pkg/registry"

	"golang.org/x/time/rate"
)

// AuthModule 管理员认证模块
type AuthModule struct{}

func init() {
	registry.Register(&AuthModule{})
}

func (m *AuthModule) Name() string {
	return "auth"
}

func (m *AuthModule) Priority() int {
	// 其他模块的路由依赖会话校验
	return 1
}

func (m *AuthModule) Init(ctx *registry.ModuleContext) error {
	authService := service.NewAuthService(ctx.Config.Admin, ctx.Cache, ctx.ModuleLogger("auth"))
	authHandler := handler.NewAuthHandler(authService, ctx.ModuleLogger("auth"))

	ctx.Sessions = authService

	admin := ctx.Router.Group("/api/admin")
	// 登录接口单独限流，防止暴力破解
	loginLimiter := middleware.NewIPRateLimiter(rate.Every(time.Second), 5)
	admin.POST("/login", middleware.RateLimitMiddleware(loginLimiter), authHandler.Login)

	protected := admin.Group("", middleware.AuthMiddleware(authService), middleware.AdminMiddleware())
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", authHandler.Me)
	}

	return nil
}
