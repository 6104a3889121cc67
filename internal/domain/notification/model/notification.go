package model

import (
	"time"

	baseModel "art_contest_admin/pkg/model"
)

type TargetType string

const (
	TargetAll      TargetType = "all"
	TargetUser     TargetType = "user"
	TargetCampaign TargetType = "campaign"
	TargetReminder TargetType = "reminder"
)

// Notification 推送记录，每次发送一行
type Notification struct {
	baseModel.BaseModel
	TargetType TargetType `gorm:"type:varchar(20);not null;index" json:"target_type"`
	TargetID   string     `gorm:"type:varchar(64)" json:"target_id,omitempty"`
	Title      string     `gorm:"type:varchar(200);not null" json:"title"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	Icon       string     `gorm:"type:varchar(500)" json:"icon,omitempty"`
	URL        string     `gorm:"type:varchar(500)" json:"url,omitempty"`
	Sent       int        `gorm:"not null;default:0" json:"sent"`
	Failed     int        `gorm:"not null;default:0" json:"failed"`
	SentBy     string     `gorm:"type:varchar(64)" json:"sent_by,omitempty"`
}

// PushSubscription 设备订阅，由客户端注册
type PushSubscription struct {
	baseModel.BaseModel
	UserID   string `gorm:"type:uuid;index;not null" json:"user_id"`
	DeviceID string `gorm:"type:varchar(200);not null" json:"device_id"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// DueCampaign 即将截稿、尚未提醒的活动
type DueCampaign struct {
	ID                 string
	Name               string
	SubmissionDeadline time.Time
}
