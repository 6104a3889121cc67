package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"art_contest_admin/internal/pkg/config"
	"art_contest_admin/pkg/cache"
	"art_contest_admin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionRevoked     = errors.New("session has been logged out")
)

const revokedKeyPrefix = "session:revoked:"

// Credentials 登录凭证
type Credentials struct {
	Username string
	Password string
}

// Session 登录会话
type Session struct {
	Token     string    `json:"token"`
	AdminID   string    `json:"admin_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticator 认证外部协作者
type Authenticator interface {
	Authenticate(ctx context.Context, cred Credentials) (*Session, error)
}

type AuthService interface {
	Authenticator
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*utils.Claims, error)
}

type authService struct {
	admin config.AdminConfig
	store cache.CacheService
	log   *zap.Logger
}

// NewAuthService 基于配置中的管理员账号，吊销列表存放在缓存中
func NewAuthService(admin config.AdminConfig, store cache.CacheService, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{admin: admin, store: store, log: log}
}

// adminID 由用户名派生的稳定 ID
func adminID(username string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("admin:"+username)).String()
}

func (s *authService) Authenticate(ctx context.Context, cred Credentials) (*Session, error) {
	username := strings.TrimSpace(cred.Username)

	// 用户名不匹配时也执行 bcrypt 比较，避免时间差泄露
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(cred.Password))
	if !userOK || passErr != nil {
		s.log.Warn("admin login failed", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, claims, err := utils.GenerateToken(adminID(s.admin.Username), s.admin.Username, utils.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.Info("admin logged in", zap.String("username", username), zap.String("jti", claims.ID))
	return &Session{
		Token:     token,
		AdminID:   claims.AdminID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout 把 jti 写入吊销列表直到令牌过期
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseToken(token)
	if err != nil {
		// 已失效的令牌无需吊销
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.store.Set(ctx, revokedKeyPrefix+claims.ID, true, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("admin logged out", zap.String("username", claims.Username), zap.String("jti", claims.ID))
	return nil
}

func (s *authService) Verify(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.store.Exists(ctx, revokedKeyPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}
