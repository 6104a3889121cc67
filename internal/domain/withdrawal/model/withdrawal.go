package model

import (
	"time"

	baseModel "art_contest_admin/pkg/model"
)

type Method string

const (
	MethodUPI  Method = "upi"
	MethodBank Method = "bank"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type BankDetails struct {
	AccountHolderName string `gorm:"type:varchar(100)" json:"account_holder_name,omitempty"`
	AccountNumber     string `gorm:"type:varchar(34)" json:"account_number,omitempty"`
	IFSCCode          string `gorm:"column:ifsc_code;type:varchar(11)" json:"ifsc_code,omitempty"`
	BankName          string `gorm:"column:name;type:varchar(100)" json:"bank_name,omitempty"`
}

// Withdrawal 提现申请；金额在申请时已从钱包扣除
type Withdrawal struct {
	baseModel.BaseModel
	UserID          string      `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount          float64     `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method          Method      `gorm:"type:varchar(10);not null" json:"method"`
	UPIID           string      `gorm:"column:upi_id;type:varchar(100)" json:"upi_id,omitempty"`
	BankDetails     BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bank_details"`
	Status          Status      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNotes      string      `gorm:"type:text" json:"admin_notes"`
	RejectionReason string      `gorm:"type:text" json:"rejection_reason"`
	RequestedAt     time.Time   `gorm:"not null" json:"requested_at"`
	ProcessedAt     *time.Time  `json:"processed_at"`
	ProcessedBy     string      `gorm:"type:varchar(64)" json:"processed_by,omitempty"`

	Username     string `gorm:"->;-:migration" json:"username,omitempty"`
	MobileNumber string `gorm:"->;-:migration" json:"mobile_number,omitempty"`
}

// Decision 审核结果
type Decision struct {
	Status          Status
	AdminNotes      string
	RejectionReason string
	ProcessedBy     string
	ProcessedAt     time.Time
}
