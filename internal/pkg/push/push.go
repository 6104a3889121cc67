package push

import (
	"context"
	"encoding/json"
	"fmt"

	"art_contest_admin/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
	"go.uber.org/zap"
)

// Message 推送内容
type Message struct {
	Title string
	Body  string
	Icon  string
	URL   string
}

// extParameters 点击通知时客户端需要的扩展参数
func (m Message) extParameters() map[string]string {
	ext := make(map[string]string, 2)
	if m.Icon != "" {
		ext["icon"] = m.Icon
	}
	if m.URL != "" {
		ext["url"] = m.URL
	}
	return ext
}

type PushService interface {
	PushToAccount(ctx context.Context, accountID string, msg Message) error
	PushToAll(ctx context.Context, msg Message) error
}

type AliyunPushService struct {
	client *push.Client
	appKey int64
}

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, fmt.Errorf("push config is missing")
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

// PushToAccount 按用户账号推送，账号即用户 ID
func (s *AliyunPushService) PushToAccount(ctx context.Context, accountID string, msg Message) error {
	return s.sendPush(ctx, "ACCOUNT", accountID, msg)
}

func (s *AliyunPushService) PushToAll(ctx context.Context, msg Message) error {
	return s.sendPush(ctx, "ALL", "ALL", msg)
}

func (s *AliyunPushService) sendPush(ctx context.Context, target, targetValue string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(s.appKey))
	request.Target = target
	request.TargetValue = targetValue
	request.Title = msg.Title
	request.Body = msg.Body
	request.DeviceType = "ALL"  // iOS & Android
	request.PushType = "NOTICE" // 通知

	if ext := msg.extParameters(); len(ext) > 0 {
		extJSON, _ := json.Marshal(ext)
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}

	resp, err := s.client.Push(request)
	if err != nil {
		return fmt.Errorf("aliyun push %s failed: %w", target, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("aliyun push %s returned status %d", target, resp.GetHttpStatus())
	}
	return nil
}

// LogPushService 未配置推送凭证时使用，只记录日志
type LogPushService struct {
	log *zap.Logger
}

func NewLogPushService(log *zap.Logger) *LogPushService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPushService{log: log}
}

func (s *LogPushService) PushToAccount(ctx context.Context, accountID string, msg Message) error {
	s.log.Info("push (dry-run) to account", zap.String("account", accountID), zap.String("title", msg.Title))
	return nil
}

func (s *LogPushService) PushToAll(ctx context.Context, msg Message) error {
	s.log.Info("push (dry-run) broadcast", zap.String("title", msg.Title))
	return nil
}

// NewPushService 根据配置选择推送实现
func NewPushService(cfg config.PushConfig, log *zap.Logger) PushService {
	svc, err := NewAliyunPushService(cfg)
	if err != nil {
		log.Warn("aliyun push disabled, falling back to log-only push", zap.Error(err))
		return NewLogPushService(log)
	}
	return svc
}

var (
	_ PushService = (*AliyunPushService)(nil)
	_ PushService = (*LogPushService)(nil)
)
