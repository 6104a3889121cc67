package service

import (
	"context"
	"fmt"
	"time"

	"art_contest_admin/internal/domain/user/model"
	"art_contest_admin/pkg/cache"
	"art_contest_admin/pkg/utils"

	"go.uber.org/zap"
)

// 缓存键常量
const (
	UserCacheKeyPrefix     = cache.UserKeyPrefix
	UserListCacheKeyPrefix = cache.UserListKeyPrefix
	UserCacheTTL           = time.Minute * 5
	UserListCacheTTL       = time.Minute
)

// CachedUserService 带缓存的用户服务；评奖和提现驳回会通过 cache.InvalidateUsers 主动失效
type CachedUserService struct {
	next  UserService
	cache cache.CacheService
	log   *zap.Logger
}

func NewCachedUserService(next UserService, cache cache.CacheService, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedUserService{next: next, cache: cache, log: log}
}

func (s *CachedUserService) getUserCacheKey(id string) string {
	return cache.UserKey(id)
}

func (s *CachedUserService) getUserListCacheKey(status string, page, limit int) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%s%s:%d:%d", UserListCacheKeyPrefix, status, page, limit)
}

// GetUsers 获取用户列表（带缓存）
func (s *CachedUserService) GetUsers(ctx context.Context, status string, page utils.Pagination) (*utils.PageResult, error) {
	page.GetPageOffset()
	cacheKey := s.getUserListCacheKey(status, page.Page, page.Limit)

	var cached struct {
		Users []model.User `json:"users"`
		Total int64        `json:"total"`
	}
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		result := utils.NewPageResult(cached.Users, cached.Total, page)
		return &result, nil
	}

	result, err := s.next.GetUsers(ctx, status, page)
	if err != nil {
		return nil, err
	}

	if users, ok := result.List.([]model.User); ok {
		cached.Users = users
		cached.Total = result.Total
		if err := s.cache.Set(ctx, cacheKey, cached, UserListCacheTTL); err != nil {
			// 缓存失败不影响业务
			s.log.Warn("failed to cache user list", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return result, nil
}

func (s *CachedUserService) SearchUsers(ctx context.Context, q string) ([]model.User, error) {
	return s.next.SearchUsers(ctx, q)
}

// GetUser 获取单个用户（带缓存）
func (s *CachedUserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	cacheKey := s.getUserCacheKey(id)

	var user model.User
	if err := s.cache.Get(ctx, cacheKey, &user); err == nil {
		return &user, nil
	}

	found, err := s.next.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, found, UserCacheTTL); err != nil {
		s.log.Warn("failed to cache user", zap.String("user_id", id), zap.Error(err))
	}
	return found, nil
}

func (s *CachedUserService) GetUserSubmissions(ctx context.Context, id string) ([]model.Submission, error) {
	return s.next.GetUserSubmissions(ctx, id)
}
