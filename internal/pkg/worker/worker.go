package worker

import (
	"context"
	"sync"
	"time"

	"art_contest_admin/internal/pkg/push"

	"go.uber.org/zap"
)

// PushTask 异步推送任务 (获奖通知、提现结果通知等)
type PushTask struct {
	UserID  string
	Message push.Message
	Retry   int // 重试次数
}

type WorkerPool struct {
	TaskQueue  chan PushTask
	RetryQueue chan PushTask // 重试队列
	Pusher     push.PushService
	WorkerNum  int
	MaxRetry   int // 最大重试次数
	RetryDelay time.Duration

	log     *zap.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex // 保护 closed 与 TaskQueue 的关闭
	closed  bool
	stopped chan struct{}
	once    sync.Once
}

func NewWorkerPool(pusher push.PushService, workerNum int, bufferSize int, log *zap.Logger) *WorkerPool {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkerPool{
		TaskQueue:  make(chan PushTask, bufferSize),
		RetryQueue: make(chan PushTask, bufferSize/2),
		Pusher:     pusher,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
		RetryDelay: time.Second,
		log:        log,
		stopped:    make(chan struct{}),
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	p.log.Info("worker pool started", zap.Int("workers", p.WorkerNum))
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for task := range p.TaskQueue {
		if err := p.processTask(task); err != nil {
			p.log.Warn("push task failed",
				zap.Int("worker", id), zap.String("user_id", task.UserID), zap.Error(err))

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					p.logFailedTask(task, err)
				}
			} else {
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *WorkerPool) retryWorker() {
	for {
		select {
		case <-p.stopped:
			return
		case task := <-p.RetryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-time.After(time.Duration(task.Retry) * p.RetryDelay):
			case <-p.stopped:
				p.logFailedTask(task, nil)
				return
			}

			// 重新加入主队列
			if !p.enqueue(task) {
				p.logFailedTask(task, nil)
			}
		}
	}
}

func (p *WorkerPool) processTask(task PushTask) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return p.Pusher.PushToAccount(ctx, task.UserID, task.Message)
}

func (p *WorkerPool) logFailedTask(task PushTask, err error) {
	p.log.Error("push task dropped",
		zap.String("user_id", task.UserID),
		zap.String("title", task.Message.Title),
		zap.Int("retry", task.Retry),
		zap.Error(err))
}

// AddTask 入队，队列满或已停止时丢弃并记录
func (p *WorkerPool) AddTask(task PushTask) bool {
	if !p.enqueue(task) {
		p.logFailedTask(task, nil)
		return false
	}
	return true
}

func (p *WorkerPool) enqueue(task PushTask) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}

	select {
	case p.TaskQueue <- task:
		return true
	default:
		return false
	}
}

// Stop 停止接收任务并等待在途任务完成
func (p *WorkerPool) Stop() {
	p.once.Do(func() {
		close(p.stopped)

		p.mu.Lock()
		p.closed = true
		close(p.TaskQueue)
		p.mu.Unlock()

		p.wg.Wait()
	})
}
