package repository

import (
	"context"
	"errors"
	"time"

	"art_contest_admin/internal/domain/notification/model"

	"gorm.io/gorm"
)

// ErrAlreadyReminded 其他实例已发送过提醒
var ErrAlreadyReminded = errors.New("campaign reminder already sent")

type NotificationRepository interface {
	CountActiveSubscriptions(ctx context.Context) (int64, error)
	UserExists(ctx context.Context, id string) (bool, error)
	CampaignExists(ctx context.Context, id string) (bool, error)
	CampaignParticipantIDs(ctx context.Context, campaignID string) ([]string, error)
	CreateLog(ctx context.Context, n *model.Notification) error
	ListLogs(ctx context.Context, limit int) ([]model.Notification, error)
	DueForReminder(ctx context.Context, now, until time.Time) ([]model.DueCampaign, error)
	MarkReminderSent(ctx context.Context, campaignID string, at time.Time) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CountActiveSubscriptions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PushSubscription{}).Where("is_active").Count(&count).Error
	return count, err
}

func (r *notificationRepository) exists(ctx context.Context, table, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(table).
		Where("id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	return count > 0, err
}

func (r *notificationRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "users", id)
}

func (r *notificationRepository) CampaignExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "campaigns", id)
}

// CampaignParticipantIDs 活动投稿者去重
func (r *notificationRepository) CampaignParticipantIDs(ctx context.Context, campaignID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("submissions").
		Distinct("user_id").
		Where("campaign_id = ? AND deleted_at IS NULL", campaignID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *notificationRepository) CreateLog(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListLogs(ctx context.Context, limit int) ([]model.Notification, error) {
	var logs []model.Notification
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *notificationRepository) DueForReminder(ctx context.Context, now, until time.Time) ([]model.DueCampaign, error) {
	var due []model.DueCampaign
	err := r.db.WithContext(ctx).
		Table("campaigns").
		Select("id, name, submission_deadline").
		Where("status = ? AND reminder_sent_at IS NULL AND deleted_at IS NULL", "active").
		Where("submission_deadline > ? AND submission_deadline <= ?", now, until).
		Order("submission_deadline").
		Scan(&due).Error
	if err != nil {
		return nil, err
	}
	return due, nil
}

// MarkReminderSent 条件更新，保证每个活动只提醒一次
func (r *notificationRepository) MarkReminderSent(ctx context.Context, campaignID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Table("campaigns").
		Where("id = ? AND reminder_sent_at IS NULL", campaignID).
		UpdateColumn("reminder_sent_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyReminded
	}
	return nil
}
