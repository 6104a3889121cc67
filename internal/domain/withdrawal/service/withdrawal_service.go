package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"art_contest_admin/internal/domain/withdrawal/model"
	"art_contest_admin/internal/domain/withdrawal/repository"
	"art_contest_admin/internal/pkg/push"
	"art_contest_admin/internal/pkg/worker"
	"art_contest_admin/pkg/cache"
	baseModel "art_contest_admin/pkg/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultApprovalNote = "Approved. Amount will be transferred within 24 hours."

var (
	ErrWithdrawalNotFound      = errors.New("withdrawal not found")
	ErrInvalidStatus           = errors.New("invalid withdrawal status")
	ErrInvalidDecision         = errors.New("status must be completed or rejected")
	ErrRejectionReasonRequired = errors.New("please provide a rejection reason")
	ErrAlreadyProcessed        = errors.New("withdrawal has already been processed")
)

// ProcessInput 审核参数
type ProcessInput struct {
	Status          string
	AdminNotes      string
	RejectionReason string
}

type WithdrawalService interface {
	ListWithdrawals(ctx context.Context, status string) ([]model.Withdrawal, error)
	GetWithdrawal(ctx context.Context, id string) (*model.Withdrawal, error)
	ProcessWithdrawal(ctx context.Context, id string, input ProcessInput, adminID string) (*model.Withdrawal, error)
}

type Notifier interface {
	AddTask(task worker.PushTask) bool
}

type WithdrawalRecorder interface {
	RecordWithdrawal(status string)
}

type withdrawalService struct {
	repo     repository.WithdrawalRepository
	notifier Notifier
	metrics  WithdrawalRecorder
	users    cache.CacheService
	log      *zap.Logger
	now      func() time.Time
}

// users 为用户模块的缓存，驳回退款后清理对应用户，可为 nil
func NewWithdrawalService(repo repository.WithdrawalRepository, notifier Notifier, metrics WithdrawalRecorder, users cache.CacheService, log *zap.Logger) WithdrawalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &withdrawalService{
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		users:    users,
		log:      log,
		now:      time.Now,
	}
}

func (s *withdrawalService) ListWithdrawals(ctx context.Context, status string) ([]model.Withdrawal, error) {
	status = strings.TrimSpace(status)
	filter := model.Status(status)
	if status == "" || status == "all" {
		filter = ""
	} else if !filter.Valid() {
		return nil, ErrInvalidStatus
	}

	withdrawals, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (s *withdrawalService) GetWithdrawal(ctx context.Context, id string) (*model.Withdrawal, error) {
	if !baseModel.IsValidID(id) {
		return nil, ErrWithdrawalNotFound
	}
	withdrawal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("get withdrawal: %w", err)
	}
	return withdrawal, nil
}

// ProcessWithdrawal 审核提现：通过不动钱包，驳回退款；只允许处理一次
func (s *withdrawalService) ProcessWithdrawal(ctx context.Context, id string, input ProcessInput, adminID string) (*model.Withdrawal, error) {
	decision := model.Decision{
		Status:      model.Status(strings.TrimSpace(input.Status)),
		AdminNotes:  strings.TrimSpace(input.AdminNotes),
		ProcessedBy: adminID,
		ProcessedAt: s.now(),
	}

	switch decision.Status {
	case model.StatusCompleted:
		if decision.AdminNotes == "" {
			decision.AdminNotes = DefaultApprovalNote
		}
	case model.StatusRejected:
		decision.RejectionReason = strings.TrimSpace(input.RejectionReason)
		if decision.RejectionReason == "" {
			return nil, ErrRejectionReasonRequired
		}
	default:
		return nil, ErrInvalidDecision
	}

	if !baseModel.IsValidID(id) {
		return nil, ErrWithdrawalNotFound
	}

	withdrawal, err := s.repo.Process(ctx, id, decision)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrWithdrawalNotFound
		case errors.Is(err, repository.ErrNotPending):
			return nil, ErrAlreadyProcessed
		}
		return nil, fmt.Errorf("process withdrawal: %w", err)
	}

	s.log.Info("withdrawal processed",
		zap.String("withdrawal_id", id),
		zap.String("status", string(decision.Status)),
		zap.Float64("amount", withdrawal.Amount),
		zap.String("admin_id", adminID),
	)
	if s.metrics != nil {
		s.metrics.RecordWithdrawal(string(decision.Status))
	}
	if decision.Status == model.StatusRejected {
		if err := cache.InvalidateUsers(ctx, s.users, withdrawal.UserID); err != nil {
			s.log.Warn("user cache invalidation failed", zap.String("user_id", withdrawal.UserID), zap.Error(err))
		}
	}
	s.notifyUser(withdrawal)
	return withdrawal, nil
}

func (s *withdrawalService) notifyUser(w *model.Withdrawal) {
	if s.notifier == nil {
		return
	}

	msg := push.Message{Title: "Withdrawal approved"}
	if w.Status == model.StatusRejected {
		msg.Title = "Withdrawal rejected"
		msg.Body = fmt.Sprintf("Your withdrawal of ₹%.2f was rejected: %s. The amount has been refunded to your wallet.", w.Amount, w.RejectionReason)
	} else {
		msg.Body = fmt.Sprintf("Your withdrawal of ₹%.2f has been approved. %s", w.Amount, w.AdminNotes)
	}

	if !s.notifier.AddTask(worker.PushTask{UserID: w.UserID, Message: msg}) {
		s.log.Warn("withdrawal notification dropped", zap.String("user_id", w.UserID))
	}
}
