// @title Art Contest Admin API
// @version 1.0
// @description 艺术比赛后台管理接口
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"art_contest_admin/docs"
	_ "art_contest_admin/internal/domain/auth"
	_ "art_contest_admin/internal/domain/campaign"
	_ "art_contest_admin/internal/domain/coupon"
	_ "art_contest_admin/internal/domain/notification"
	_ "art_contest_admin/internal/domain/upload"
	_ "art_contest_admin/internal/domain/user"
	_ "art_contest_admin/internal/domain/withdrawal"
	"art_contest_admin/internal/pkg/config"
	"art_contest_admin/internal/pkg/middleware"
	"art_contest_admin/internal/pkg/push"
	"art_contest_admin/internal/pkg/registry"
	"art_contest_admin/internal/pkg/uploader"
	"art_contest_admin/internal/pkg/worker"
	"art_contest_admin/internal/scheduler"
	"art_contest_admin/pkg/cache"
	"art_contest_admin/pkg/database"
	"art_contest_admin/pkg/logger"
	"art_contest_admin/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	pushWorkers     = 5
	pushQueueSize   = 1000
	shutdownTimeout = 10 * time.Second
)

func main() {
	// 1. 配置与日志
	config.LoadConfig()
	cfg := &config.GlobalConfig

	log, err := logger.Init(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	gin.SetMode(cfg.Server.Mode)

	// 2. 存储
	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal("connect database failed", zap.Error(err))
	}
	reporting, err := database.NewReportingDB(db)
	if err != nil {
		log.Fatal("open reporting connection failed", zap.Error(err))
	}
	rdb, err := database.InitRedis(cfg.Redis, log)
	if err != nil {
		log.Fatal("connect redis failed", zap.Error(err))
	}
	defer rdb.Close()

	// 3. 基础设施
	collector := metrics.GetGlobalCollector()
	pusher := push.NewPushService(cfg.Push, log.Named("push"))
	pool := worker.NewWorkerPool(pusher, pushWorkers, pushQueueSize, log.Named("worker"))
	pool.Start()

	var up uploader.Uploader
	if oss, err := uploader.NewAliyunOSSUploader(cfg.OSS); err != nil {
		log.Warn("oss uploader disabled", zap.Error(err))
	} else {
		up = oss
	}

	loc, err := time.LoadLocation(cfg.Database.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	jobs := scheduler.New(loc, log.Named("scheduler"))

	// 4. 路由与中间件
	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware(log),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(log),
		middleware.MetricsMiddleware(collector),
		middleware.SecurityHeadersMiddleware(),
		middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(20), 50)),
		cors.New(corsConfig(cfg.CORS)),
	)

	r.GET("/health", healthHandler(db))
	r.GET("/metrics", gin.WrapH(collector.Handler()))
	if cfg.App.Env != "prod" {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 5. 模块初始化
	moduleCtx := &registry.ModuleContext{
		DB:        db,
		Reporting: reporting,
		Redis:     rdb,
		Router:    r,
		Config:    cfg,
		Logger:    log,
		Cache:     cache.NewRedisCache(rdb, cfg.App.Env),
		Uploader:  up,
		Pusher:    pusher,
		Notifier:  pool,
		Metrics:   collector,
		Scheduler: jobs,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		log.Fatal("init modules failed", zap.Error(err))
	}
	jobs.Start()

	// 6. 启动与优雅退出
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	jobs.Stop(ctx)
	pool.Stop()
	log.Info("server exited")
}

func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowOrigins = c.AllowOrigins
	cc.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID", "X-Request-ID"}
	cc.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cc.ExposeHeaders = []string{"X-Trace-ID"}
	cc.AllowCredentials = true
	return cc
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
