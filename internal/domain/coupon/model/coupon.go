package model

import (
	"math"
	"time"

	baseModel "art_contest_admin/pkg/model"

	"github.com/lib/pq"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DisplayStatus 后台展示用的派生状态
type DisplayStatus string

const (
	DisplayActive       DisplayStatus = "ACTIVE"
	DisplayInactive     DisplayStatus = "INACTIVE"
	DisplayExpired      DisplayStatus = "EXPIRED"
	DisplayLimitReached DisplayStatus = "LIMIT REACHED"
)

// Coupon 折扣码
type Coupon struct {
	baseModel.BaseModel
	Code                string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Description         string         `gorm:"type:text" json:"description"`
	DiscountType        DiscountType   `gorm:"type:varchar(16);not null" json:"discount_type"`
	DiscountValue       float64        `gorm:"type:numeric(12,2);not null" json:"discount_value"`
	MinPurchaseAmount   float64        `gorm:"type:numeric(12,2);not null;default:0" json:"min_purchase_amount"`
	MaxDiscountAmount   *float64       `gorm:"type:numeric(12,2)" json:"max_discount_amount"` // 仅百分比折扣
	ExpiryDate          time.Time      `gorm:"not null" json:"expiry_date"`
	UsageLimit          *int           `json:"usage_limit"` // nil 表示不限次数
	UsedCount           int            `gorm:"not null;default:0" json:"used_count"`
	ApplicableCampaigns pq.StringArray `gorm:"type:text[]" json:"applicable_campaigns"` // 空表示全部活动
	IsActive            bool           `gorm:"not null;default:true" json:"is_active"`

	DisplayStatus DisplayStatus `gorm:"-" json:"display_status"`
}

// StatusAt 按顺序判断：停用 > 过期 > 次数用尽 > 可用
func (c *Coupon) StatusAt(now time.Time) DisplayStatus {
	switch {
	case !c.IsActive:
		return DisplayInactive
	case c.ExpiryDate.Before(now):
		return DisplayExpired
	case c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit:
		return DisplayLimitReached
	default:
		return DisplayActive
	}
}

// AppliesTo 空列表表示适用于所有活动
func (c *Coupon) AppliesTo(campaignID string) bool {
	if len(c.ApplicableCampaigns) == 0 {
		return true
	}
	for _, id := range c.ApplicableCampaigns {
		if id == campaignID {
			return true
		}
	}
	return false
}

// Discount 计算优惠金额，结果保留两位小数且不超过订单金额
func (c *Coupon) Discount(amount float64) float64 {
	if amount <= 0 {
		return 0
	}

	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = amount * c.DiscountValue / 100
		if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
			discount = *c.MaxDiscountAmount
		}
	case DiscountFixed:
		discount = c.DiscountValue
	}

	if discount > amount {
		discount = amount
	}
	return math.Round(discount*100) / 100
}
