package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultJobTimeout = 2 * time.Minute

// JobFunc 定时任务，ctx 带超时
type JobFunc func(ctx context.Context) error

// Scheduler 对 cron 的薄封装：统一超时、panic 恢复和日志
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

func New(loc *time.Location, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		logger:  logger,
		timeout: defaultJobTimeout,
	}
}

// AddJob 注册任务，spec 支持 @every 1h 这类描述符
func (s *Scheduler) AddJob(name, spec string, fn JobFunc) error {
	if fn == nil {
		return fmt.Errorf("scheduler job %s has no func", name)
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, fn)
	})
	if err != nil {
		return fmt.Errorf("register job %s (%s): %w", name, spec, err)
	}

	s.logger.Info("scheduler job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, fn JobFunc) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("scheduler job panic recovered",
				zap.String("job", name),
				zap.Any("panic", recovered),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.Warn("scheduler job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Debug("scheduler job finished", zap.String("job", name), zap.Duration("cost", time.Since(start)))
}

// Entries 已注册任务数
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 等待正在运行的任务结束，最多等到 ctx 取消
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}
