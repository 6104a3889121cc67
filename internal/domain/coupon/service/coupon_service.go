package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"art_contest_admin/internal/domain/coupon/model"
	"art_contest_admin/internal/domain/coupon/repository"
	baseModel "art_contest_admin/pkg/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrInvalidCoupon       = errors.New("invalid coupon")
	ErrCouponCodeTaken     = errors.New("coupon code already exists")
	ErrCouponUnavailable   = errors.New("coupon is not available")
	ErrCouponNotApplicable = errors.New("coupon is not applicable")
)

// CouponInput 创建/编辑参数
type CouponInput struct {
	Code                string
	Description         string
	DiscountType        model.DiscountType
	DiscountValue       float64
	MinPurchaseAmount   float64
	MaxDiscountAmount   *float64
	ExpiryDate          time.Time
	UsageLimit          *int
	ApplicableCampaigns []string
	IsActive            *bool
}

// RedeemInput 校验/核销参数
type RedeemInput struct {
	Code           string
	CampaignID     string
	PurchaseAmount float64
}

// Quote 优惠计算结果
type Quote struct {
	CouponID    string  `json:"coupon_id"`
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"final_amount"`
}

type CouponService interface {
	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	GetCoupon(ctx context.Context, id string) (*model.Coupon, error)
	CreateCoupon(ctx context.Context, input CouponInput) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, input CouponInput) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (*model.Coupon, error)
	Validate(ctx context.Context, input RedeemInput) (*Quote, error)
	Redeem(ctx context.Context, input RedeemInput) (*Quote, error)
}

type RedemptionRecorder interface {
	RecordCouponRedemption()
}

type couponService struct {
	repo    repository.CouponRepository
	metrics RedemptionRecorder
	log     *zap.Logger
	now     func() time.Time
}

func NewCouponService(repo repository.CouponRepository, metrics RedemptionRecorder, log *zap.Logger) CouponService {
	if log == nil {
		log = zap.NewNop()
	}
	return &couponService{repo: repo, metrics: metrics, log: log, now: time.Now}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCoupon, fmt.Sprintf(format, args...))
}

func (in *CouponInput) normalize() {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Description = strings.TrimSpace(in.Description)
	in.DiscountType = model.DiscountType(strings.ToLower(strings.TrimSpace(string(in.DiscountType))))
	if in.DiscountType != model.DiscountPercentage {
		in.MaxDiscountAmount = nil
	}

	campaigns := make([]string, 0, len(in.ApplicableCampaigns))
	for _, id := range in.ApplicableCampaigns {
		if id = strings.TrimSpace(id); id != "" {
			campaigns = append(campaigns, id)
		}
	}
	in.ApplicableCampaigns = campaigns
}

func (in *CouponInput) validate() error {
	if in.Code == "" {
		return invalid("code is required")
	}
	switch in.DiscountType {
	case model.DiscountPercentage:
		if in.DiscountValue <= 0 || in.DiscountValue > 100 {
			return invalid("percentage discount must be between 0 and 100")
		}
		if in.MaxDiscountAmount != nil && *in.MaxDiscountAmount <= 0 {
			return invalid("max_discount_amount must be positive")
		}
	case model.DiscountFixed:
		if in.DiscountValue <= 0 {
			return invalid("fixed discount must be positive")
		}
	default:
		return invalid("discount_type must be percentage or fixed")
	}
	if in.MinPurchaseAmount < 0 {
		return invalid("min_purchase_amount cannot be negative")
	}
	if in.UsageLimit != nil && *in.UsageLimit < 1 {
		return invalid("usage_limit must be at least 1")
	}
	if in.ExpiryDate.IsZero() {
		return invalid("expiry_date is required")
	}
	return nil
}

func (in *CouponInput) apply(c *model.Coupon) {
	c.Code = in.Code
	c.Description = in.Description
	c.DiscountType = in.DiscountType
	c.DiscountValue = in.DiscountValue
	c.MinPurchaseAmount = in.MinPurchaseAmount
	c.MaxDiscountAmount = in.MaxDiscountAmount
	c.ExpiryDate = in.ExpiryDate
	c.UsageLimit = in.UsageLimit
	c.ApplicableCampaigns = in.ApplicableCampaigns
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

func (s *couponService) decorate(c *model.Coupon) *model.Coupon {
	c.DisplayStatus = c.StatusAt(s.now())
	return c
}

func (s *couponService) getCoupon(ctx context.Context, id string) (*model.Coupon, error) {
	if !baseModel.IsValidID(id) {
		return nil, ErrCouponNotFound
	}
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return coupon, nil
}

func (s *couponService) ensureCodeFree(ctx context.Context, code, excludeID string) error {
	exists, err := s.repo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return fmt.Errorf("check coupon code: %w", err)
	}
	if exists {
		return ErrCouponCodeTaken
	}
	return nil
}

func (s *couponService) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	for i := range coupons {
		s.decorate(&coupons[i])
	}
	return coupons, nil
}

func (s *couponService) GetCoupon(ctx context.Context, id string) (*model.Coupon, error) {
	coupon, err := s.getCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(coupon), nil
}

func (s *couponService) CreateCoupon(ctx context.Context, input CouponInput) (*model.Coupon, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, input.Code, ""); err != nil {
		return nil, err
	}

	coupon := &model.Coupon{IsActive: true}
	input.apply(coupon)
	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCouponCodeTaken
		}
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.log.Info("coupon created", zap.String("coupon_id", coupon.ID), zap.String("code", coupon.Code))
	return s.decorate(coupon), nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, id string, input CouponInput) (*model.Coupon, error) {
	coupon, err := s.getCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.UsageLimit != nil && *input.UsageLimit < coupon.UsedCount {
		return nil, invalid("usage_limit cannot be lower than used count (%d)", coupon.UsedCount)
	}
	if input.Code != coupon.Code {
		if err := s.ensureCodeFree(ctx, input.Code, coupon.ID); err != nil {
			return nil, err
		}
	}

	input.apply(coupon)
	if err := s.repo.Update(ctx, coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCouponCodeTaken
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return s.decorate(coupon), nil
}

func (s *couponService) DeleteCoupon(ctx context.Context, id string) error {
	if !baseModel.IsValidID(id) {
		return ErrCouponNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return fmt.Errorf("delete coupon: %w", err)
	}
	s.log.Info("coupon deleted", zap.String("coupon_id", id))
	return nil
}

func (s *couponService) ToggleStatus(ctx context.Context, id string) (*model.Coupon, error) {
	if !baseModel.IsValidID(id) {
		return nil, ErrCouponNotFound
	}
	coupon, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("toggle coupon: %w", err)
	}
	return s.decorate(coupon), nil
}

// quote 校验可用性并计算优惠
func (s *couponService) quote(ctx context.Context, input RedeemInput) (*model.Coupon, *Quote, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, nil, invalid("code is required")
	}
	if input.PurchaseAmount <= 0 {
		return nil, nil, invalid("purchase_amount must be positive")
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCouponNotFound
		}
		return nil, nil, fmt.Errorf("get coupon: %w", err)
	}

	if status := coupon.StatusAt(s.now()); status != model.DisplayActive {
		return nil, nil, fmt.Errorf("%w: %s", ErrCouponUnavailable, strings.ToLower(string(status)))
	}
	if input.PurchaseAmount < coupon.MinPurchaseAmount {
		return nil, nil, fmt.Errorf("%w: minimum purchase is %.2f", ErrCouponNotApplicable, coupon.MinPurchaseAmount)
	}
	if !coupon.AppliesTo(strings.TrimSpace(input.CampaignID)) {
		return nil, nil, fmt.Errorf("%w: not valid for this campaign", ErrCouponNotApplicable)
	}

	discount := coupon.Discount(input.PurchaseAmount)
	return coupon, &Quote{
		CouponID:    coupon.ID,
		Code:        coupon.Code,
		Discount:    discount,
		FinalAmount: math.Round((input.PurchaseAmount-discount)*100) / 100,
	}, nil
}

func (s *couponService) Validate(ctx context.Context, input RedeemInput) (*Quote, error) {
	_, q, err := s.quote(ctx, input)
	return q, err
}

func (s *couponService) Redeem(ctx context.Context, input RedeemInput) (*Quote, error) {
	coupon, q, err := s.quote(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementUsage(ctx, coupon.ID, s.now()); err != nil {
		if errors.Is(err, repository.ErrUsageExhausted) {
			return nil, fmt.Errorf("%w: usage limit reached", ErrCouponUnavailable)
		}
		return nil, fmt.Errorf("redeem coupon: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCouponRedemption()
	}
	s.log.Info("coupon redeemed",
		zap.String("coupon_id", coupon.ID),
		zap.String("campaign_id", input.CampaignID),
		zap.Float64("discount", q.Discount),
	)
	return q, nil
}
