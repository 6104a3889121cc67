package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"art_contest_admin/internal/domain/notification/model"
	"art_contest_admin/internal/domain/notification/repository"
	"art_contest_admin/internal/pkg/push"
	baseModel "art_contest_admin/pkg/model"
	"art_contest_admin/pkg/pool"

	"go.uber.org/zap"
)

const (
	FanOutLimit  = 5
	HistoryLimit = 50

	ReminderTitle = "⏰ Contest Ending Soon!"
	ReminderURL   = "/#campaigns"
)

var (
	ErrInvalidMessage   = errors.New("title and body are required")
	ErrTargetRequired   = errors.New("push target is required")
	ErrUserNotFound     = errors.New("user not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)

// Message 推送内容及发送人
type Message struct {
	Title  string
	Body   string
	Icon   string
	URL    string
	SentBy string
}

func (m *Message) normalize() error {
	m.Title = strings.TrimSpace(m.Title)
	m.Body = strings.TrimSpace(m.Body)
	m.Icon = strings.TrimSpace(m.Icon)
	m.URL = strings.TrimSpace(m.URL)
	if m.Title == "" || m.Body == "" {
		return ErrInvalidMessage
	}
	return nil
}

func (m Message) push() push.Message {
	return push.Message{Title: m.Title, Body: m.Body, Icon: m.Icon, URL: m.URL}
}

// Result 发送结果
type Result = pool.FanOutStats

// Stats 订阅统计
type Stats struct {
	TotalSubscriptions int64 `json:"total_subscriptions"`
}

type NotificationService interface {
	Broadcast(ctx context.Context, msg Message) (*Result, error)
	SendToUser(ctx context.Context, userID string, msg Message) (*Result, error)
	SendToCampaignParticipants(ctx context.Context, campaignID string, msg Message) (*Result, error)
	Stats(ctx context.Context) (*Stats, error)
	History(ctx context.Context) ([]model.Notification, error)
	SendDeadlineReminders(ctx context.Context) error
}

// PushRecorder 推送指标
type PushRecorder interface {
	RecordPush(target string, sent, failed int)
}

type Options struct {
	ReminderWindow time.Duration
	Metrics        PushRecorder
	Logger         *zap.Logger
}

type notificationService struct {
	repo    repository.NotificationRepository
	pusher  push.PushService
	metrics PushRecorder
	window  time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, pusher push.PushService, opts Options) NotificationService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ReminderWindow <= 0 {
		opts.ReminderWindow = 24 * time.Hour
	}
	return &notificationService{
		repo:    repo,
		pusher:  pusher,
		metrics: opts.Metrics,
		window:  opts.ReminderWindow,
		log:     opts.Logger,
		now:     time.Now,
	}
}

// record 写推送日志并上报指标，日志失败不影响发送结果
func (s *notificationService) record(ctx context.Context, target model.TargetType, targetID string, msg Message, res Result) {
	if s.metrics != nil {
		s.metrics.RecordPush(string(target), res.Succeeded, res.Failed)
	}

	entry := &model.Notification{
		TargetType: target,
		TargetID:   targetID,
		Title:      msg.Title,
		Body:       msg.Body,
		Icon:       msg.Icon,
		URL:        msg.URL,
		Sent:       res.Succeeded,
		Failed:     res.Failed,
		SentBy:     msg.SentBy,
	}
	if err := s.repo.CreateLog(ctx, entry); err != nil {
		s.log.Warn("failed to write notification log", zap.String("target", string(target)), zap.Error(err))
	}
	s.log.Info("notification sent",
		zap.String("target", string(target)),
		zap.String("target_id", targetID),
		zap.Int("sent", res.Succeeded),
		zap.Int("failed", res.Failed),
	)
}

// Broadcast 全量推送，发送数按当前有效订阅计
func (s *notificationService) Broadcast(ctx context.Context, msg Message) (*Result, error) {
	if err := msg.normalize(); err != nil {
		return nil, err
	}

	subscribers, err := s.repo.CountActiveSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}

	res := Result{Succeeded: int(subscribers)}
	if err := s.pusher.PushToAll(ctx, msg.push()); err != nil {
		s.log.Warn("broadcast push failed", zap.Error(err))
		res = Result{Failed: int(subscribers)}
	}
	s.record(ctx, model.TargetAll, "", msg, res)
	return &res, nil
}

func (s *notificationService) SendToUser(ctx context.Context, userID string, msg Message) (*Result, error) {
	if err := msg.normalize(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrTargetRequired
	}
	if !baseModel.IsValidID(userID) {
		return nil, ErrUserNotFound
	}
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	res := pool.FanOut(ctx, 1, []string{userID}, s.pushToAccount(msg))
	s.record(ctx, model.TargetUser, userID, msg, res)
	return &res, nil
}

func (s *notificationService) SendToCampaignParticipants(ctx context.Context, campaignID string, msg Message) (*Result, error) {
	if err := msg.normalize(); err != nil {
		return nil, err
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, ErrTargetRequired
	}
	if !baseModel.IsValidID(campaignID) {
		return nil, ErrCampaignNotFound
	}
	ok, err := s.repo.CampaignExists(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("check campaign: %w", err)
	}
	if !ok {
		return nil, ErrCampaignNotFound
	}

	res, err := s.sendToParticipants(ctx, campaignID, msg)
	if err != nil {
		return nil, err
	}
	s.record(ctx, model.TargetCampaign, campaignID, msg, res)
	return &res, nil
}

func (s *notificationService) sendToParticipants(ctx context.Context, campaignID string, msg Message) (Result, error) {
	userIDs, err := s.repo.CampaignParticipantIDs(ctx, campaignID)
	if err != nil {
		return Result{}, fmt.Errorf("list participants: %w", err)
	}
	return pool.FanOut(ctx, FanOutLimit, userIDs, s.pushToAccount(msg)), nil
}

func (s *notificationService) pushToAccount(msg Message) func(context.Context, string) error {
	pm := msg.push()
	return func(ctx context.Context, userID string) error {
		if err := s.pusher.PushToAccount(ctx, userID, pm); err != nil {
			s.log.Debug("push to account failed", zap.String("user_id", userID), zap.Error(err))
			return err
		}
		return nil
	}
}

func (s *notificationService) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountActiveSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	return &Stats{TotalSubscriptions: total}, nil
}

func (s *notificationService) History(ctx context.Context) ([]model.Notification, error) {
	logs, err := s.repo.ListLogs(ctx, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return logs, nil
}

// SendDeadlineReminders 定时任务：提醒即将截稿活动的参与者，先标记再发送
func (s *notificationService) SendDeadlineReminders(ctx context.Context) error {
	now := s.now()
	due, err := s.repo.DueForReminder(ctx, now, now.Add(s.window))
	if err != nil {
		return fmt.Errorf("find due campaigns: %w", err)
	}

	for _, c := range due {
		if err := s.repo.MarkReminderSent(ctx, c.ID, now); err != nil {
			if errors.Is(err, repository.ErrAlreadyReminded) {
				continue
			}
			return fmt.Errorf("mark reminder %s: %w", c.ID, err)
		}

		msg := Message{
			Title:  ReminderTitle,
			Body:   reminderBody(c, now),
			URL:    ReminderURL,
			SentBy: "scheduler",
		}
		res, err := s.sendToParticipants(ctx, c.ID, msg)
		if err != nil {
			return err
		}
		s.record(ctx, model.TargetReminder, c.ID, msg, res)
	}
	return nil
}

func reminderBody(c model.DueCampaign, now time.Time) string {
	hours := int(c.SubmissionDeadline.Sub(now).Round(time.Hour).Hours())
	if hours < 1 {
		hours = 1
	}
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("Only %d %s left to submit your artwork for %s! Don't miss out!", hours, unit, c.Name)
}
