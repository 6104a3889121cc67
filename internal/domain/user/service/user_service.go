package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"art_contest_admin/internal/domain/user/model"
	"art_contest_admin/internal/domain/user/repository"
	baseModel "art_contest_admin/pkg/model"
	"art_contest_admin/pkg/utils"

	"gorm.io/gorm"
)

const (
	MinSearchLength = 2
	MaxSearchResult = 20
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidStatus = errors.New("invalid user status")
)

// UserDetail 用户详情，可附带投稿
type UserDetail struct {
	User        *model.User        `json:"user"`
	Submissions []model.Submission `json:"submissions,omitempty"`
}

// UserService 后台只读用户查询
type UserService interface {
	GetUsers(ctx context.Context, status string, page utils.Pagination) (*utils.PageResult, error)
	SearchUsers(ctx context.Context, q string) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserSubmissions(ctx context.Context, id string) ([]model.Submission, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func parseStatus(status string) (model.Status, error) {
	status = strings.TrimSpace(status)
	if status == "" || status == "all" {
		return "", nil
	}
	s := model.Status(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func (s *userService) GetUsers(ctx context.Context, status string, page utils.Pagination) (*utils.PageResult, error) {
	filter, err := parseStatus(status)
	if err != nil {
		return nil, err
	}

	offset, limit := page.GetPageOffset()
	users, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	result := utils.NewPageResult(users, total, page)
	return &result, nil
}

// SearchUsers 少于两个字符直接返回空列表，不查库
func (s *userService) SearchUsers(ctx context.Context, q string) ([]model.User, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinSearchLength {
		return []model.User{}, nil
	}
	users, err := s.repo.Search(ctx, q, MaxSearchResult)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if !baseModel.IsValidID(id) {
		return nil, ErrUserNotFound
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserSubmissions(ctx context.Context, id string) ([]model.Submission, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	submissions, err := s.repo.ListSubmissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list user submissions: %w", err)
	}
	return submissions, nil
}
