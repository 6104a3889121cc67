package repository

import (
	"context"
	"errors"
	"time"

	"art_contest_admin/internal/domain/coupon/model"

	"gorm.io/gorm"
)

// ErrUsageExhausted 条件更新未命中：已停用、已过期或次数用尽
var ErrUsageExhausted = errors.New("coupon usage exhausted")

type CouponRepository interface {
	List(ctx context.Context) ([]model.Coupon, error)
	GetByID(ctx context.Context, id string) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	CodeExists(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*model.Coupon, error)
	IncrementUsage(ctx context.Context, id string, now time.Time) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Coupon{}).Where("code = ?", code)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// Update 保存编辑字段，used_count 只由核销修改
func (r *couponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).
		Model(coupon).
		Select("code", "description", "discount_type", "discount_value", "min_purchase_amount",
			"max_discount_amount", "expiry_date", "usage_limit", "applicable_campaigns", "is_active").
		Updates(coupon).Error
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Coupon{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ToggleActive 在数据库中取反，避免读改写竞争
func (r *couponRepository) ToggleActive(ctx context.Context, id string) (*model.Coupon, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ?", id).
		Update("is_active", gorm.Expr("NOT is_active"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// IncrementUsage 乐观锁核销：可用且未达上限时 used_count + 1
func (r *couponRepository) IncrementUsage(ctx context.Context, id string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ? AND is_active AND expiry_date >= ? AND (usage_limit IS NULL OR used_count < usage_limit)", id, now).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUsageExhausted
	}
	return nil
}
