package registry

import (
	"fmt"
	"sort"
	"sync"

	"art_contest_admin/internal/pkg/config"
	"art_contest_admin/internal/pkg/middleware"
	"art_contest_admin/internal/pkg/push"
	"art_contest_admin/internal/pkg/uploader"
	"art_contest_admin/internal/pkg/worker"
	"art_contest_admin/internal/scheduler"
	"art_contest_admin/pkg/cache"
	"art_contest_admin/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB        *gorm.DB
	Reporting *sqlx.DB
	Redis     *redis.Client
	Router    *gin.Engine
	Config    *config.Config
	Logger    *zap.Logger
	Cache     cache.CacheService
	Uploader  uploader.Uploader
	Pusher    push.PushService
	Notifier  *worker.WorkerPool
	Metrics   *metrics.MetricsCollector
	Scheduler *scheduler.Scheduler

	// Sessions 由 auth 模块设置，后续模块用它保护路由
	Sessions middleware.SessionVerifier
}

// API 返回需要管理员会话的 /api 路由组
func (ctx *ModuleContext) API() (*gin.RouterGroup, error) {
	if ctx.Sessions == nil {
		return nil, fmt.Errorf("session verifier not initialized, auth module must init first")
	}
	return ctx.Router.Group("/api", middleware.AuthMiddleware(ctx.Sessions), middleware.AdminMiddleware()), nil
}

// ModuleLogger 带模块名的日志
func (ctx *ModuleContext) ModuleLogger(name string) *zap.Logger {
	if ctx.Logger == nil {
		return zap.NewNop()
	}
	return ctx.Logger.Named(name)
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// 例如：auth 模块必须先于其他模块初始化
	Priority() int
}

var (
	mu             sync.Mutex
	moduleRegistry = make(map[string]Module)
)

// Register 注册模块
func Register(module Module) {
	mu.Lock()
	defer mu.Unlock()
	moduleRegistry[module.Name()] = module
}

// GetModules 按优先级返回所有已注册的模块
func GetModules() []Module {
	mu.Lock()
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	mu.Unlock()

	// 优先级相同时按名称排序，保证顺序稳定
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})
	return modules
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	for _, module := range GetModules() {
		if err := module.Init(ctx); err != nil {
			return fmt.Errorf("init module %s: %w", module.Name(), err)
		}
		ctx.ModuleLogger("registry").Info("module initialized",
			zap.String("module", module.Name()),
			zap.Int("priority", module.Priority()),
		)
	}

	return nil
}
