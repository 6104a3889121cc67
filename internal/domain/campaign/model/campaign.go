package model

import (
	"time"

	baseModel "art_contest_admin/pkg/model"
)

type CampaignType string

const (
	TypePremium    CampaignType = "premium"
	TypePointBased CampaignType = "point-based"
	TypeFree       CampaignType = "free"
)

func (t CampaignType) Valid() bool {
	switch t {
	case TypePremium, TypePointBased, TypeFree:
		return true
	}
	return false
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Closed 已结束的活动不可再编辑或评分
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type SubmissionType string

const (
	SubmissionOffline SubmissionType = "offline"
	SubmissionDigital SubmissionType = "digital"
	SubmissionBoth    SubmissionType = "both"
)

func (t SubmissionType) Valid() bool {
	switch t {
	case SubmissionOffline, SubmissionDigital, SubmissionBoth:
		return true
	}
	return false
}

// EntryFee 报名费，type 为货币单位 (rupees)
type EntryFee struct {
	Amount float64 `gorm:"type:numeric(12,2);not null;default:0" json:"amount"`
	Type   string  `gorm:"type:varchar(16);not null;default:'rupees'" json:"type"`
}

type Prizes struct {
	FirstPrize    float64 `gorm:"type:numeric(12,2);not null;default:0" json:"first_prize"`
	SecondPrize   float64 `gorm:"type:numeric(12,2);not null;default:0" json:"second_prize"`
	PlatformShare float64 `gorm:"type:numeric(12,2);not null;default:0" json:"platform_share"`
}

// Campaign 绘画比赛活动
type Campaign struct {
	baseModel.BaseModel
	Name                string         `gorm:"type:varchar(200);not null" json:"name"`
	Description         string         `gorm:"type:text" json:"description"`
	ReferenceImage      string         `gorm:"type:varchar(500);not null" json:"reference_image"`
	Category            string         `gorm:"type:varchar(50);not null" json:"category"`
	AgeGroup            string         `gorm:"type:varchar(50);not null;default:'all'" json:"age_group"`
	CampaignType        CampaignType   `gorm:"type:varchar(20);not null" json:"campaign_type"`
	MaxParticipants     int            `gorm:"not null" json:"max_participants"`
	CurrentParticipants int            `gorm:"not null;default:0" json:"current_participants"`
	EntryFee            EntryFee       `gorm:"embedded;embeddedPrefix:entry_fee_" json:"entry_fee"`
	PointsRequired      int64          `gorm:"not null;default:0" json:"points_required"`
	Prizes              Prizes         `gorm:"embedded" json:"prizes"`
	Rules               string         `gorm:"type:text" json:"rules"`
	StartDate           time.Time      `gorm:"not null" json:"start_date"`
	EndDate             time.Time      `gorm:"not null" json:"end_date"`
	SubmissionDeadline  time.Time      `gorm:"not null" json:"submission_deadline"`
	ResultDate          time.Time      `gorm:"not null" json:"result_date"`
	Status              Status         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	SubmissionType      SubmissionType `gorm:"type:varchar(20);not null;default:'offline'" json:"submission_type"`
	ReminderSentAt      *time.Time     `json:"reminder_sent_at,omitempty"`

	// 列表查询时由子查询填充
	TotalSubmissions int64 `gorm:"->;-:migration" json:"total_submissions"`
}

// Stats 后台首页统计
type Stats struct {
	TotalCampaigns   int64   `db:"total_campaigns" json:"total_campaigns"`
	ActiveCampaigns  int64   `db:"active_campaigns" json:"active_campaigns"`
	TotalSubmissions int64   `db:"total_submissions" json:"total_submissions"`
	TotalRevenue     float64 `db:"total_revenue" json:"total_revenue"`
}
