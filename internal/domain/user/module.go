package user

import (
	"art_contest_admin/internal/domain/user/handler"
	"art_contest_admin/internal/domain/user/repository"
	"art_contest_admin/internal/domain/user/service"
	"art_contest_admin/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户查询模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	return 5
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	api, err := ctx.API()
	if err != nil {
		return err
	}

	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo)
	if ctx.Cache != nil {
		userService = service.NewCachedUserService(userService, ctx.Cache, ctx.ModuleLogger("user"))
	}
	userHandler := handler.NewUserHandler(userService, ctx.ModuleLogger("user"))

	// 2. 路由注册
	setupRoutes(api, userHandler)
	return nil
}

func setupRoutes(api *gin.RouterGroup, h *handler.UserHandler) {
	users := api.Group("/users")
	{
		users.GET("", h.GetUsers)
		users.GET("/search", h.SearchUsers)
		users.GET("/:id", h.GetUser)
		users.GET("/:id/submissions", h.GetUserSubmissions)
	}
}
