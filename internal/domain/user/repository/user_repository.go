package repository

import (
	"context"
	"strings"

	"art_contest_admin/internal/domain/user/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	List(ctx context.Context, status model.Status, offset, limit int) ([]model.User, int64, error)
	Search(ctx context.Context, q string, limit int) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListSubmissions(ctx context.Context, userID string) ([]model.Submission, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// List 分页查询，按注册时间倒序
func (r *userRepository) List(ctx context.Context, status model.Status, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Search 手机号或用户名模糊匹配，不区分大小写
func (r *userRepository) Search(ctx context.Context, q string, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + escapeLike(q) + "%"
	err := r.db.WithContext(ctx).
		Where("mobile_number ILIKE ? OR username ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListSubmissions(ctx context.Context, userID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Table("submissions").
		Select("submissions.id, submissions.campaign_id, campaigns.name AS campaign_name, submissions.image_url, "+
			"submissions.title, submissions.status, submissions.admin_rating, submissions.prize_won_amount, submissions.created_at").
		Joins("LEFT JOIN campaigns ON campaigns.id = submissions.campaign_id").
		Where("submissions.user_id = ? AND submissions.deleted_at IS NULL", userID).
		Order("submissions.created_at DESC").
		Scan(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
