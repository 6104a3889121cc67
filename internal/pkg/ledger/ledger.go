package ledger

import (
	"errors"
	"fmt"

	"art_contest_admin/pkg/model"

	"gorm.io/gorm"
)

// Account 入账账户
type Account string

const (
	AccountWallet Account = "wallet"
	AccountPoints Account = "points"
)

// 入账原因
const (
	ReasonFirstPrize    = "first_prize"
	ReasonSecondPrize   = "second_prize"
	ReasonParticipation = "participation_reward"
	ReasonWithdrawal    = "withdrawal_refund"
)

var (
	ErrUserNotFound   = errors.New("ledger: user not found")
	ErrInvalidAccount = errors.New("ledger: invalid account")
	ErrInvalidAmount  = errors.New("ledger: amount must be positive")
)

// LedgerEntry 钱包/积分流水
type LedgerEntry struct {
	model.BaseModel
	UserID  string  `gorm:"type:uuid;index;not null" json:"user_id"`
	Account Account `gorm:"type:varchar(16);not null" json:"account"`
	Amount  float64 `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reason  string  `gorm:"type:varchar(32);not null" json:"reason"`
	RefType string  `gorm:"type:varchar(32)" json:"ref_type"`
	RefID   string  `gorm:"type:uuid" json:"ref_id"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// Entry 一次入账
type Entry struct {
	UserID  string
	Account Account
	Amount  float64
	Reason  string
	RefType string
	RefID   string
}

func (a Account) column() (string, error) {
	switch a {
	case AccountWallet:
		return "wallet_balance", nil
	case AccountPoints:
		return "points", nil
	default:
		return "", ErrInvalidAccount
	}
}

// Credit 在给定事务中增加用户余额/积分并写流水，调用方负责事务边界
func Credit(tx *gorm.DB, e Entry) error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	column, err := e.Account.column()
	if err != nil {
		return err
	}

	result := tx.Table("users").
		Where("id = ? AND deleted_at IS NULL", e.UserID).
		UpdateColumn(column, gorm.Expr(column+" + ?", e.Amount))
	if result.Error != nil {
		return fmt.Errorf("credit %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, e.UserID)
	}

	entry := &LedgerEntry{
		UserID:  e.UserID,
		Account: e.Account,
		Amount:  e.Amount,
		Reason:  e.Reason,
		RefType: e.RefType,
		RefID:   e.RefID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("write ledger entry: %w", err)
	}
	return nil
}
