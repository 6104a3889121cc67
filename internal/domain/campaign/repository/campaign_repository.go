package repository

import (
	"context"
	"errors"
	"fmt"

	"art_contest_admin/internal/domain/campaign/model"
	"art_contest_admin/internal/pkg/ledger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStatusConflict 条件更新未命中，状态已被其他请求改变
var ErrStatusConflict = errors.New("campaign status changed concurrently")

// Planner 根据事务内读取到的投稿生成评奖方案，返回错误时整个事务回滚
type Planner func(submissions []model.Submission) (*model.DistributionPlan, error)

type CampaignRepository interface {
	List(ctx context.Context, status model.Status) ([]model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	Create(ctx context.Context, campaign *model.Campaign) error
	Update(ctx context.Context, campaign *model.Campaign) error
	TransitionStatus(ctx context.Context, id string, from, to model.Status) error
	Delete(ctx context.Context, id string) error

	CountSubmissions(ctx context.Context, campaignID string) (int64, error)
	ListSubmissions(ctx context.Context, campaignID string) ([]model.Submission, error)
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	SaveRating(ctx context.Context, submission *model.Submission, demote model.SubmissionStatus) error

	ApplyDistribution(ctx context.Context, campaignID string, planner Planner) (*model.DistributionPlan, error)
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

const totalSubmissionsColumn = "(SELECT COUNT(*) FROM submissions s WHERE s.campaign_id = campaigns.id AND s.deleted_at IS NULL) AS total_submissions"

func (r *campaignRepository) List(ctx context.Context, status model.Status) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	query := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Select("campaigns.*, " + totalSubmissionsColumn)
	if status != "" {
		query = query.Where("campaigns.status = ?", status)
	}
	if err := query.Order("campaigns.created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Select("campaigns.*, "+totalSubmissionsColumn).
		Where("campaigns.id = ?", id).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// Update 更新可编辑字段，状态和报名人数不在此处修改
func (r *campaignRepository) Update(ctx context.Context, campaign *model.Campaign) error {
	result := r.db.WithContext(ctx).
		Model(campaign).
		Where("status IN ?", []model.Status{model.StatusDraft, model.StatusActive}).
		Select("name", "description", "reference_image", "category", "age_group", "campaign_type",
			"max_participants", "entry_fee_amount", "entry_fee_type", "points_required",
			"first_prize", "second_prize", "platform_share", "rules",
			"start_date", "end_date", "submission_deadline", "result_date", "submission_type").
		Updates(campaign)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// TransitionStatus 乐观锁切换状态: WHERE status = from
func (r *campaignRepository) TransitionStatus(ctx context.Context, id string, from, to model.Status) error {
	result := r.db.WithContext(ctx).
		Model(&model.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *campaignRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Campaign{}).Error
}

func (r *campaignRepository) CountSubmissions(ctx context.Context, campaignID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error
	return count, err
}

func (r *campaignRepository) ListSubmissions(ctx context.Context, campaignID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("submissions.*, users.username AS username, users.mobile_number AS mobile_number").
		Joins("LEFT JOIN users ON users.id = submissions.user_id").
		Where("submissions.campaign_id = ?", campaignID).
		Order("submissions.created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *campaignRepository) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// SaveRating 保存评分；demote 非空时先把同活动中持有该名次的其他投稿降为 approved
func (r *campaignRepository) SaveRating(ctx context.Context, submission *model.Submission, demote model.SubmissionStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if demote != "" {
			err := tx.Model(&model.Submission{}).
				Where("campaign_id = ? AND status = ? AND id <> ?", submission.CampaignID, demote, submission.ID).
				Updates(map[string]interface{}{
					"status":           model.SubmissionApproved,
					"prize_won_amount": 0,
				}).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(submission).
			Select("admin_rating", "admin_notes", "status").
			Updates(submission).Error
	})
}

// ApplyDistribution 单事务执行评奖：活动 active→completed 作为幂等闸门，
// 之后在同一事务内重新读取投稿生成方案，再更新投稿并入账
func (r *campaignRepository) ApplyDistribution(ctx context.Context, campaignID string, planner Planner) (*model.DistributionPlan, error) {
	var plan *model.DistributionPlan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Campaign{}).
			Where("id = ? AND status = ?", campaignID, model.StatusActive).
			Update("status", model.StatusCompleted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		// 活动行已锁定且不再是 active，此后读到的投稿集合即为最终参与者
		var submissions []model.Submission
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ?", campaignID).
			Order("created_at ASC").
			Find(&submissions).Error
		if err != nil {
			return err
		}

		plan, err = planner(submissions)
		if err != nil {
			return err
		}

		if len(plan.ResetIDs) > 0 {
			err := tx.Model(&model.Submission{}).
				Where("id IN ?", plan.ResetIDs).
				Updates(map[string]interface{}{
					"status":           model.SubmissionApproved,
					"prize_won_amount": 0,
				}).Error
			if err != nil {
				return err
			}
		}

		if err := awardPrize(tx, plan.First, model.SubmissionWinner); err != nil {
			return err
		}
		if err := awardPrize(tx, plan.Second, model.SubmissionRunnerUp); err != nil {
			return err
		}

		if err := creditPrize(tx, plan.First, ledger.ReasonFirstPrize); err != nil {
			return err
		}
		if err := creditPrize(tx, plan.Second, ledger.ReasonSecondPrize); err != nil {
			return err
		}

		for _, p := range plan.Participants {
			if p.Amount <= 0 {
				continue
			}
			err := ledger.Credit(tx, ledger.Entry{
				UserID:  p.UserID,
				Account: ledger.AccountPoints,
				Amount:  p.Amount,
				Reason:  ledger.ReasonParticipation,
				RefType: "submission",
				RefID:   p.SubmissionID,
			})
			if err != nil {
				return fmt.Errorf("participation reward for %s: %w", p.SubmissionID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func awardPrize(tx *gorm.DB, award model.Award, status model.SubmissionStatus) error {
	result := tx.Model(&model.Submission{}).
		Where("id = ?", award.SubmissionID).
		Updates(map[string]interface{}{
			"status":           status,
			"prize_won_amount": award.Amount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("submission %s: %w", award.SubmissionID, gorm.ErrRecordNotFound)
	}
	return nil
}

func creditPrize(tx *gorm.DB, award model.Award, reason string) error {
	// 奖金为 0 时不产生流水
	if award.Amount <= 0 {
		return nil
	}
	return ledger.Credit(tx, ledger.Entry{
		UserID:  award.UserID,
		Account: ledger.AccountWallet,
		Amount:  award.Amount,
		Reason:  reason,
		RefType: "submission",
		RefID:   award.SubmissionID,
	})
}
