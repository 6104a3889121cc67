package model

import (
	baseModel "art_contest_admin/pkg/model"
)

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionWinner   SubmissionStatus = "winner"
	SubmissionRunnerUp SubmissionStatus = "runner_up"
)

// PrizeWon 获奖金额
type PrizeWon struct {
	Amount float64 `gorm:"type:numeric(12,2);not null;default:0" json:"amount"`
}

// Submission 用户投稿，由用户端创建，后台只做评分和评奖
type Submission struct {
	baseModel.BaseModel
	CampaignID  string           `gorm:"type:uuid;index;not null" json:"campaign_id"`
	UserID      string           `gorm:"type:uuid;index;not null" json:"user_id"`
	ImageURL    string           `gorm:"type:varchar(500);not null" json:"image_url"`
	Title       string           `gorm:"type:varchar(200)" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Likes       int              `gorm:"not null;default:0" json:"likes"`
	Votes       int              `gorm:"not null;default:0" json:"votes"`
	AdminRating *float64         `gorm:"type:numeric(3,1)" json:"admin_rating"`
	AdminNotes  string           `gorm:"type:text" json:"admin_notes"`
	Status      SubmissionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PrizeWon    PrizeWon         `gorm:"embedded;embeddedPrefix:prize_won_" json:"prize_won"`

	// 关联用户信息，只读
	Username     string `gorm:"->;-:migration" json:"username,omitempty"`
	MobileNumber string `gorm:"->;-:migration" json:"mobile_number,omitempty"`
}

// IsPrizeHolder 是否已被标记为获奖
func (s *Submission) IsPrizeHolder() bool {
	return s.Status == SubmissionWinner || s.Status == SubmissionRunnerUp
}
