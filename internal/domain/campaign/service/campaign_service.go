package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"art_contest_admin/internal/domain/campaign/model"
	"art_contest_admin/internal/domain/campaign/repository"
	"art_contest_admin/internal/pkg/push"
	"art_contest_admin/internal/pkg/worker"
	"art_contest_admin/pkg/cache"
	baseModel "art_contest_admin/pkg/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatsCacheKey = "campaign:stats"
	StatsCacheTTL = time.Minute
)

// CampaignDetail 活动及其投稿
type CampaignDetail struct {
	Campaign    *model.Campaign    `json:"campaign"`
	Submissions []model.Submission `json:"submissions"`
}

// RateInput 评分参数
type RateInput struct {
	Rating        *float64
	Notes         string
	PrizePosition string
}

// DistributeInput 评奖参数
type DistributeInput struct {
	CampaignID     string
	FirstWinnerID  string
	SecondWinnerID string
}

type CampaignService interface {
	ListCampaigns(ctx context.Context, status string) ([]model.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*CampaignDetail, error)
	ListParticipants(ctx context.Context, id string) ([]model.Submission, error)
	CreateCampaign(ctx context.Context, input CampaignInput) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, input CampaignInput) (*model.Campaign, error)
	ChangeStatus(ctx context.Context, id string, status string) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
	RateSubmission(ctx context.Context, id string, input RateInput) (*model.Submission, error)
	DistributePrizes(ctx context.Context, input DistributeInput) (*model.DistributionResult, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

// Notifier 异步推送，由 worker 池实现
type Notifier interface {
	AddTask(task worker.PushTask) bool
}

// DistributionRecorder 评奖指标
type DistributionRecorder interface {
	RecordPrizeDistribution(participants int, pointsEach int64)
}

type Options struct {
	ParticipationPoints int64
	Notifier            Notifier
	Metrics             DistributionRecorder
	Logger              *zap.Logger
}

type campaignService struct {
	repo       repository.CampaignRepository
	stats      repository.StatsRepository
	cache      cache.CacheService
	notifier   Notifier
	metrics    DistributionRecorder
	pointsEach int64
	log        *zap.Logger
}

func NewCampaignService(repo repository.CampaignRepository, stats repository.StatsRepository, cache cache.CacheService, opts Options) CampaignService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ParticipationPoints <= 0 {
		opts.ParticipationPoints = 100
	}
	return &campaignService{
		repo:       repo,
		stats:      stats,
		cache:      cache,
		notifier:   opts.Notifier,
		metrics:    opts.Metrics,
		pointsEach: opts.ParticipationPoints,
		log:        opts.Logger,
	}
}

func (s *campaignService) getCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	if !baseModel.IsValidID(id) {
		return nil, ErrCampaignNotFound
	}
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return campaign, nil
}

func (s *campaignService) ListCampaigns(ctx context.Context, status string) ([]model.Campaign, error) {
	status = strings.TrimSpace(status)
	filter := model.Status(status)
	if status == "" || status == "all" {
		filter = ""
	} else if !filter.Valid() {
		return nil, ErrInvalidStatus
	}

	campaigns, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *campaignService) GetCampaign(ctx context.Context, id string) (*CampaignDetail, error) {
	campaign, err := s.getCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	submissions, err := s.repo.ListSubmissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return &CampaignDetail{Campaign: campaign, Submissions: submissions}, nil
}

func (s *campaignService) ListParticipants(ctx context.Context, id string) ([]model.Submission, error) {
	if _, err := s.getCampaign(ctx, id); err != nil {
		return nil, err
	}
	submissions, err := s.repo.ListSubmissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

func (s *campaignService) CreateCampaign(ctx context.Context, input CampaignInput) (*model.Campaign, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		Status:              model.StatusDraft,
		CurrentParticipants: 0,
	}
	input.apply(campaign)

	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	s.log.Info("campaign created", zap.String("campaign_id", campaign.ID), zap.String("name", campaign.Name))
	s.invalidateStats(ctx)
	return campaign, nil
}

func (s *campaignService) UpdateCampaign(ctx context.Context, id string, input CampaignInput) (*model.Campaign, error) {
	campaign, err := s.getCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status.Closed() {
		return nil, ErrCampaignClosed
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.MaxParticipants < campaign.CurrentParticipants {
		return nil, invalid("max_participants cannot be lower than current participants (%d)", campaign.CurrentParticipants)
	}

	input.apply(campaign)
	if err := s.repo.Update(ctx, campaign); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrCampaignClosed
		}
		return nil, fmt.Errorf("update campaign: %w", err)
	}

	s.invalidateStats(ctx)
	return campaign, nil
}

// ChangeStatus 切换活动状态；完成活动即按已标记的冠亚军执行评奖
func (s *campaignService) ChangeStatus(ctx context.Context, id string, status string) (*model.Campaign, error) {
	to := model.Status(strings.TrimSpace(status))
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	campaign, err := s.getCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(campaign.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, campaign.Status, to)
	}

	if to == model.StatusCompleted {
		return s.complete(ctx, campaign)
	}

	if err := s.repo.TransitionStatus(ctx, id, campaign.Status, to); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("change status: %w", err)
	}

	s.log.Info("campaign status changed",
		zap.String("campaign_id", id),
		zap.String("from", string(campaign.Status)),
		zap.String("to", string(to)),
	)
	campaign.Status = to
	s.invalidateStats(ctx)
	return campaign, nil
}

// complete 完成闸门：必须有投稿，且冠军和亚军都已在评分时标记
func (s *campaignService) complete(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error) {
	submissions, err := s.repo.ListSubmissions(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if len(submissions) == 0 {
		return nil, ErrNoSubmissions
	}

	firstID, secondID := flaggedWinners(submissions)
	if firstID == "" || secondID == "" {
		return nil, ErrWinnersNotSelected
	}

	if _, err := s.distribute(ctx, campaign, firstID, secondID); err != nil {
		return nil, err
	}
	campaign.Status = model.StatusCompleted
	return campaign, nil
}

func flaggedWinners(submissions []model.Submission) (firstID, secondID string) {
	for _, sub := range submissions {
		switch {
		case sub.Status == model.SubmissionWinner && firstID == "":
			firstID = sub.ID
		case sub.Status == model.SubmissionRunnerUp && secondID == "":
			secondID = sub.ID
		}
	}
	return firstID, secondID
}

func (s *campaignService) DeleteCampaign(ctx context.Context, id string) error {
	if _, err := s.getCampaign(ctx, id); err != nil {
		return err
	}

	total, err := s.repo.CountSubmissions(ctx, id)
	if err != nil {
		return fmt.Errorf("count submissions: %w", err)
	}
	if total > 0 {
		return ErrCampaignHasSubmissions
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}

	s.log.Info("campaign deleted", zap.String("campaign_id", id))
	s.invalidateStats(ctx)
	return nil
}

func (s *campaignService) RateSubmission(ctx context.Context, id string, input RateInput) (*model.Submission, error) {
	if input.Rating == nil || *input.Rating < 0 || *input.Rating > 10 {
		return nil, ErrInvalidRating
	}
	position := strings.ToLower(strings.TrimSpace(input.PrizePosition))
	switch position {
	case "", "none", "first", "second":
	default:
		return nil, ErrInvalidPrizePosition
	}

	if !baseModel.IsValidID(id) {
		return nil, ErrSubmissionNotFound
	}
	submission, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	campaign, err := s.getCampaign(ctx, submission.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status.Closed() {
		return nil, ErrCampaignClosed
	}

	rating := *input.Rating
	submission.AdminRating = &rating
	submission.AdminNotes = strings.TrimSpace(input.Notes)

	var demote model.SubmissionStatus
	switch position {
	case "first":
		submission.Status = model.SubmissionWinner
		demote = model.SubmissionWinner
	case "second":
		submission.Status = model.SubmissionRunnerUp
		demote = model.SubmissionRunnerUp
	case "none":
		submission.Status = model.SubmissionApproved
	default:
		if submission.Status == model.SubmissionPending {
			submission.Status = model.SubmissionApproved
		}
	}

	if err := s.repo.SaveRating(ctx, submission, demote); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}
	return submission, nil
}

// DistributePrizes 评奖：活动状态切换作为幂等闸门，奖金和参与积分在同一事务内入账
func (s *campaignService) DistributePrizes(ctx context.Context, input DistributeInput) (*model.DistributionResult, error) {
	firstID := strings.TrimSpace(input.FirstWinnerID)
	secondID := strings.TrimSpace(input.SecondWinnerID)
	if firstID == "" || secondID == "" {
		return nil, ErrWinnerRequired
	}
	if firstID == secondID {
		return nil, ErrSameWinner
	}

	campaign, err := s.getCampaign(ctx, strings.TrimSpace(input.CampaignID))
	if err != nil {
		return nil, err
	}
	switch campaign.Status {
	case model.StatusActive:
	case model.StatusCompleted:
		return nil, ErrAlreadyDistributed
	default:
		return nil, ErrCampaignNotActive
	}

	// 写入前先校验获奖投稿，事务内会基于最新投稿重新生成方案
	submissions, err := s.repo.ListSubmissions(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if _, err := PlanDistribution(campaign, submissions, firstID, secondID, s.pointsEach); err != nil {
		return nil, err
	}

	plan, err := s.distribute(ctx, campaign, firstID, secondID)
	if err != nil {
		return nil, err
	}
	return plan.Result(), nil
}

// distribute 执行评奖事务并处理入账后的通知、指标和缓存
func (s *campaignService) distribute(ctx context.Context, campaign *model.Campaign, firstID, secondID string) (*model.DistributionPlan, error) {
	plan, err := s.repo.ApplyDistribution(ctx, campaign.ID, func(submissions []model.Submission) (*model.DistributionPlan, error) {
		return PlanDistribution(campaign, submissions, firstID, secondID, s.pointsEach)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, ErrAlreadyDistributed
		case errors.Is(err, ErrWinnerNotInCampaign):
			return nil, ErrWinnerNotInCampaign
		}
		return nil, fmt.Errorf("apply distribution: %w", err)
	}

	s.log.Info("prizes distributed",
		zap.String("campaign_id", campaign.ID),
		zap.String("first_submission", plan.First.SubmissionID),
		zap.String("second_submission", plan.Second.SubmissionID),
		zap.Int("participants", len(plan.Participants)),
	)
	if s.metrics != nil {
		s.metrics.RecordPrizeDistribution(len(plan.Participants), plan.PointsEach)
	}
	s.notifyWinners(campaign, plan)
	s.invalidateStats(ctx)
	s.invalidateUsers(ctx, plan)
	return plan, nil
}

func (s *campaignService) notifyWinners(campaign *model.Campaign, plan *model.DistributionPlan) {
	if s.notifier == nil {
		return
	}

	messages := []struct {
		award model.Award
		body  string
	}{
		{plan.First, fmt.Sprintf("Your artwork won first prize in %s! ₹%.0f has been added to your wallet.", campaign.Name, plan.First.Amount)},
		{plan.Second, fmt.Sprintf("Your artwork won second prize in %s! ₹%.0f has been added to your wallet.", campaign.Name, plan.Second.Amount)},
	}
	for _, m := range messages {
		ok := s.notifier.AddTask(worker.PushTask{
			UserID:  m.award.UserID,
			Message: push.Message{Title: "Congratulations!", Body: m.body},
		})
		if !ok {
			s.log.Warn("winner notification dropped", zap.String("user_id", m.award.UserID))
		}
	}
}

// Stats 首页统计，缓存一分钟
func (s *campaignService) Stats(ctx context.Context) (*model.Stats, error) {
	var cached model.Stats
	err := s.cache.Get(ctx, StatsCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("stats cache read failed", zap.Error(err))
	}

	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	if err := s.cache.Set(ctx, StatsCacheKey, stats, StatsCacheTTL); err != nil {
		s.log.Warn("stats cache write failed", zap.Error(err))
	}
	return stats, nil
}

func (s *campaignService) invalidateUsers(ctx context.Context, plan *model.DistributionPlan) {
	ids := []string{plan.First.UserID, plan.Second.UserID}
	for _, p := range plan.Participants {
		ids = append(ids, p.UserID)
	}
	if err := cache.InvalidateUsers(ctx, s.cache, ids...); err != nil {
		s.log.Warn("user cache invalidation failed", zap.Error(err))
	}
}

func (s *campaignService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, StatsCacheKey); err != nil {
		s.log.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
