package repository

import (
	"context"
	"errors"
	"fmt"

	"art_contest_admin/internal/domain/withdrawal/model"
	"art_contest_admin/internal/pkg/ledger"

	"gorm.io/gorm"
)

// ErrNotPending 提现已被处理
var ErrNotPending = errors.New("withdrawal is not pending")

type WithdrawalRepository interface {
	List(ctx context.Context, status model.Status) ([]model.Withdrawal, error)
	GetByID(ctx context.Context, id string) (*model.Withdrawal, error)
	Process(ctx context.Context, id string, decision model.Decision) (*model.Withdrawal, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) withUser(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Withdrawal{}).
		Select("withdrawals.*, users.username AS username, users.mobile_number AS mobile_number").
		Joins("LEFT JOIN users ON users.id = withdrawals.user_id")
}

func (r *withdrawalRepository) List(ctx context.Context, status model.Status) ([]model.Withdrawal, error) {
	var withdrawals []model.Withdrawal
	query := r.withUser(ctx)
	if status != "" {
		query = query.Where("withdrawals.status = ?", status)
	}
	if err := query.Order("withdrawals.requested_at DESC").Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id string) (*model.Withdrawal, error) {
	var withdrawal model.Withdrawal
	if err := r.withUser(ctx).Where("withdrawals.id = ?", id).First(&withdrawal).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// Process 条件更新 WHERE status = 'pending'，驳回时在同一事务内退款到钱包
func (r *withdrawalRepository) Process(ctx context.Context, id string, decision model.Decision) (*model.Withdrawal, error) {
	var withdrawal model.Withdrawal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&withdrawal).Error; err != nil {
			return err
		}

		result := tx.Model(&model.Withdrawal{}).
			Where("id = ? AND status = ?", id, model.StatusPending).
			Updates(map[string]interface{}{
				"status":           decision.Status,
				"admin_notes":      decision.AdminNotes,
				"rejection_reason": decision.RejectionReason,
				"processed_at":     decision.ProcessedAt,
				"processed_by":     decision.ProcessedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotPending
		}

		if decision.Status == model.StatusRejected {
			err := ledger.Credit(tx, ledger.Entry{
				UserID:  withdrawal.UserID,
				Account: ledger.AccountWallet,
				Amount:  withdrawal.Amount,
				Reason:  ledger.ReasonWithdrawal,
				RefType: "withdrawal",
				RefID:   withdrawal.ID,
			})
			if err != nil {
				return fmt.Errorf("refund withdrawal: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	processedAt := decision.ProcessedAt
	withdrawal.Status = decision.Status
	withdrawal.AdminNotes = decision.AdminNotes
	withdrawal.RejectionReason = decision.RejectionReason
	withdrawal.ProcessedAt = &processedAt
	withdrawal.ProcessedBy = decision.ProcessedBy
	return &withdrawal, nil
}
