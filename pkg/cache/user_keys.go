package cache

import (
	"context"
	"errors"
)

// 用户缓存键，由用户模块写入；余额或积分变动方负责失效
const (
	UserKeyPrefix     = "user:"
	UserListKeyPrefix = "user_list:"
)

func UserKey(id string) string {
	return UserKeyPrefix + id
}

// InvalidateUsers 清理指定用户的详情缓存和全部用户列表缓存
func InvalidateUsers(ctx context.Context, c CacheService, userIDs ...string) error {
	if c == nil {
		return nil
	}

	var errs []error
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		if err := c.Delete(ctx, UserKey(id)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.InvalidatePattern(ctx, UserListKeyPrefix+"*"); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
