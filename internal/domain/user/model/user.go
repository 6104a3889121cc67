package model

import (
	"time"

	baseModel "art_contest_admin/pkg/model"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusVerified
}

// Wallet 钱包余额，由账本维护
type Wallet struct {
	Balance float64 `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
}

// User 用户自行注册，后台只读
type User struct {
	baseModel.BaseModel
	MobileNumber string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"mobile_number"`
	Username     *string `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	Points       int64   `gorm:"not null;default:0" json:"points"`
	Wallet       Wallet  `gorm:"embedded;embeddedPrefix:wallet_" json:"wallet"`
	ReferralCode string  `gorm:"type:varchar(20);index" json:"referral_code"`
	Status       Status  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
}

// Submission 用户投稿记录，附带活动名称
type Submission struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	ImageURL     string    `json:"image_url"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	AdminRating  *float64  `json:"admin_rating"`
	PrizeAmount  float64   `gorm:"column:prize_won_amount" json:"prize_amount"`
	CreatedAt    time.Time `json:"createdAt"`
}
