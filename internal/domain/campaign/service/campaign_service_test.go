package service

import (
	"context"
	"testing"
	"time"

	"art_contest_admin/internal/domain/campaign/model"
	"art_contest_admin/internal/domain/campaign/repository"
	"art_contest_admin/internal/pkg/worker"
	"art_contest_admin/pkg/cache"
	baseModel "art_contest_admin/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockCampaignRepository is a mock of CampaignRepository
type MockCampaignRepository struct {
	mock.Mock
	applied []*model.DistributionPlan
}

func (m *MockCampaignRepository) List(ctx context.Context, status model.Status) ([]model.Campaign, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	return m.Called(ctx, campaign).Error(0)
}

func (m *MockCampaignRepository) Update(ctx context.Context, campaign *model.Campaign) error {
	return m.Called(ctx, campaign).Error(0)
}

func (m *MockCampaignRepository) TransitionStatus(ctx context.Context, id string, from, to model.Status) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCampaignRepository) CountSubmissions(ctx context.Context, campaignID string) (int64, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCampaignRepository) ListSubmissions(ctx context.Context, campaignID string) ([]model.Submission, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).([]model.Submission), args.Error(1)
}

func (m *MockCampaignRepository) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockCampaignRepository) SaveRating(ctx context.Context, submission *model.Submission, demote model.SubmissionStatus) error {
	return m.Called(ctx, submission, demote).Error(0)
}

// ApplyDistribution 返回值为事务内读取到的投稿，方案由传入的 planner 生成
func (m *MockCampaignRepository) ApplyDistribution(ctx context.Context, campaignID string, planner repository.Planner) (*model.DistributionPlan, error) {
	args := m.Called(ctx, campaignID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	plan, err := planner(args.Get(0).([]model.Submission))
	if err != nil {
		return nil, err
	}
	m.applied = append(m.applied, plan)
	return plan, nil
}

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Stats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

type recordingNotifier struct {
	tasks []worker.PushTask
}

func (n *recordingNotifier) AddTask(task worker.PushTask) bool {
	n.tasks = append(n.tasks, task)
	return true
}

func newTestService(repo *MockCampaignRepository, stats *MockStatsRepository, notifier Notifier) CampaignService {
	return NewCampaignService(repo, stats, cache.NewMemoryCache(), Options{
		ParticipationPoints: 100,
		Notifier:            notifier,
	})
}

func createTestCampaign(status model.Status) *model.Campaign {
	c := &model.Campaign{
		Name:            "Monsoon Colours",
		CampaignType:    model.TypePremium,
		MaxParticipants: 50,
		EntryFee:        model.EntryFee{Amount: 99, Type: "rupees"},
		Prizes:          model.Prizes{FirstPrize: 1000, SecondPrize: 500, PlatformShare: 200},
		Status:          status,
	}
	c.ID = baseModel.NewID()
	return c
}

func createTestSubmission(campaignID string, status model.SubmissionStatus) model.Submission {
	s := model.Submission{CampaignID: campaignID, UserID: baseModel.NewID(), Status: status}
	s.ID = baseModel.NewID()
	return s
}

func TestChangeStatusCompletionGate(t *testing.T) {
	ctx := context.Background()

	t.Run("No submissions", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusActive)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("ListSubmissions", ctx, campaign.ID).Return([]model.Submission{}, nil)

		_, err := svc.ChangeStatus(ctx, campaign.ID, "completed")

		assert.ErrorIs(t, err, ErrNoSubmissions)
		repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Winners not selected", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusActive)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("ListSubmissions", ctx, campaign.ID).Return([]model.Submission{
			createTestSubmission(campaign.ID, model.SubmissionApproved),
			createTestSubmission(campaign.ID, model.SubmissionPending),
		}, nil)

		_, err := svc.ChangeStatus(ctx, campaign.ID, "completed")

		assert.ErrorIs(t, err, ErrWinnersNotSelected)
		repo.AssertNotCalled(t, "ApplyDistribution", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Runner-up missing", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusActive)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("ListSubmissions", ctx, campaign.ID).Return([]model.Submission{
			createTestSubmission(campaign.ID, model.SubmissionWinner),
			createTestSubmission(campaign.ID, model.SubmissionApproved),
		}, nil)

		_, err := svc.ChangeStatus(ctx, campaign.ID, "completed")

		assert.ErrorIs(t, err, ErrWinnersNotSelected)
		repo.AssertNotCalled(t, "ApplyDistribution", mock.Anything, mock.Anything)
	})

	t.Run("Completing pays the flagged winners", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		notifier := &recordingNotifier{}
		svc := newTestService(repo, nil, notifier)
		campaign := createTestCampaign(model.StatusActive)

		first := createTestSubmission(campaign.ID, model.SubmissionWinner)
		second := createTestSubmission(campaign.ID, model.SubmissionRunnerUp)
		other := createTestSubmission(campaign.ID, model.SubmissionApproved)
		submissions := []model.Submission{other, first, second}

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("ListSubmissions", ctx, campaign.ID).Return(submissions, nil)
		repo.On("ApplyDistribution", ctx, campaign.ID).Return(submissions, nil)

		updated, err := svc.ChangeStatus(ctx, campaign.ID, "completed")

		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, updated.Status)
		require.Len(t, repo.applied, 1)
		plan := repo.applied[0]
		assert.Equal(t, first.ID, plan.First.SubmissionID)
		assert.Equal(t, 1000.0, plan.First.Amount)
		assert.Equal(t, second.ID, plan.Second.SubmissionID)
		assert.Equal(t, 500.0, plan.Second.Amount)
		require.Len(t, plan.Participants, 1)
		assert.Equal(t, other.UserID, plan.Participants[0].UserID)
		assert.Equal(t, 100.0, plan.Participants[0].Amount)
		assert.Len(t, notifier.tasks, 2)
		repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Completing twice reports already distributed", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusActive)
		submissions := []model.Submission{
			createTestSubmission(campaign.ID, model.SubmissionWinner),
			createTestSubmission(campaign.ID, model.SubmissionRunnerUp),
		}

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("ListSubmissions", ctx, campaign.ID).Return(submissions, nil)
		repo.On("ApplyDistribution", ctx, campaign.ID).Return(nil, repository.ErrStatusConflict)

		_, err := svc.ChangeStatus(ctx, campaign.ID, "completed")

		assert.ErrorIs(t, err, ErrAlreadyDistributed)
	})

	t.Run("Draft cannot jump to completed", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusDraft)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)

		_, err := svc.ChangeStatus(ctx, campaign.ID, "completed")

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Completed cannot be reopened", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusCompleted)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)

		_, err := svc.ChangeStatus(ctx, campaign.ID, "active")

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Concurrent transition loses", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusDraft)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("TransitionStatus", ctx, campaign.ID, model.StatusDraft, model.StatusActive).Return(repository.ErrStatusConflict)

		_, err := svc.ChangeStatus(ctx, campaign.ID, "active")

		assert.ErrorIs(t, err, ErrConcurrentUpdate)
	})

	t.Run("Unknown campaign", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		id := baseModel.NewID()

		repo.On("GetByID", ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.ChangeStatus(ctx, id, "active")

		assert.ErrorIs(t, err, ErrCampaignNotFound)
	})
}

func TestDistributePrizes(t *testing.T) {
	ctx := context.Background()

	t.Run("Same winner rejected before any repository call", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		id := baseModel.NewID()

		_, err := svc.DistributePrizes(ctx, DistributeInput{CampaignID: baseModel.NewID(), FirstWinnerID: id, SecondWinnerID: id})

		assert.ErrorIs(t, err, ErrSameWinner)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Missing winner rejected", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)

		_, err := svc.DistributePrizes(ctx, DistributeInput{CampaignID: baseModel.NewID(), FirstWinnerID: baseModel.NewID()})

		assert.ErrorIs(t, err, ErrWinnerRequired)
	})

	t.Run("Completed campaign already distributed", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusCompleted)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)

		_, err := svc.DistributePrizes(ctx, DistributeInput{CampaignID: campaign.ID, FirstWinnerID: baseModel.NewID(), SecondWinnerID: baseModel.NewID()})

		assert.ErrorIs(t, err, ErrAlreadyDistributed)
		repo.AssertNotCalled(t, "ApplyDistribution", mock.Anything, mock.Anything)
	})

	t.Run("Distributes prizes and participation points", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		notifier := &recordingNotifier{}
		svc := newTestService(repo, nil, notifier)
		campaign := createTestCampaign(model.StatusActive)

		first := createTestSubmission(campaign.ID, model.SubmissionWinner)
		second := createTestSubmission(campaign.ID, model.SubmissionApproved)
		other1 := createTestSubmission(campaign.ID, model.SubmissionRunnerUp)
		other2 := createTestSubmission(campaign.ID, model.SubmissionApproved)
		submissions := []model.Submission{first, second, other1, other2}

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("ListSubmissions", ctx, campaign.ID).Return(submissions, nil)
		repo.On("ApplyDistribution", ctx, campaign.ID).Return(submissions, nil)

		result, err := svc.DistributePrizes(ctx, DistributeInput{CampaignID: campaign.ID, FirstWinnerID: first.ID, SecondWinnerID: second.ID})

		require.NoError(t, err)
		require.Len(t, repo.applied, 1)
		assert.Equal(t, []string{other1.ID}, repo.applied[0].ResetIDs)
		assert.Equal(t, 1000.0, result.FirstWinner.Amount)
		assert.Equal(t, 500.0, result.SecondWinner.Amount)
		assert.Equal(t, 2, result.ParticipationRewards.NonWinnersCount)
		assert.Equal(t, int64(100), result.ParticipationRewards.PointsEach)
		assert.Len(t, notifier.tasks, 2)
		assert.Equal(t, first.UserID, notifier.tasks[0].UserID)
		repo.AssertExpectations(t)
	})

	t.Run("Concurrent distribution reported as already distributed", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		notifier := &recordingNotifier{}
		svc := newTestService(repo, nil, notifier)
		campaign := createTestCampaign(model.StatusActive)
		first := createTestSubmission(campaign.ID, model.SubmissionApproved)
		second := createTestSubmission(campaign.ID, model.SubmissionApproved)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("ListSubmissions", ctx, campaign.ID).Return([]model.Submission{first, second}, nil)
		repo.On("ApplyDistribution", ctx, campaign.ID).Return(nil, repository.ErrStatusConflict)

		_, err := svc.DistributePrizes(ctx, DistributeInput{CampaignID: campaign.ID, FirstWinnerID: first.ID, SecondWinnerID: second.ID})

		assert.ErrorIs(t, err, ErrAlreadyDistributed)
		assert.Empty(t, notifier.tasks)
	})
}

func TestDistributePrizesUsesTransactionSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCampaignRepository)
	store := cache.NewMemoryCache()
	svc := NewCampaignService(repo, nil, store, Options{ParticipationPoints: 100})
	campaign := createTestCampaign(model.StatusActive)

	first := createTestSubmission(campaign.ID, model.SubmissionWinner)
	second := createTestSubmission(campaign.ID, model.SubmissionRunnerUp)
	late := createTestSubmission(campaign.ID, model.SubmissionPending)

	require.NoError(t, store.Set(ctx, cache.UserKey(first.UserID), "stale", time.Minute))
	require.NoError(t, store.Set(ctx, cache.UserKey(late.UserID), "stale", time.Minute))
	require.NoError(t, store.Set(ctx, cache.UserListKeyPrefix+"all:1:10", "stale", time.Minute))

	repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
	repo.On("ListSubmissions", ctx, campaign.ID).Return([]model.Submission{first, second}, nil)
	// 预检之后、状态切换之前又有一份投稿提交
	repo.On("ApplyDistribution", ctx, campaign.ID).Return([]model.Submission{first, second, late}, nil)

	result, err := svc.DistributePrizes(ctx, DistributeInput{CampaignID: campaign.ID, FirstWinnerID: first.ID, SecondWinnerID: second.ID})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ParticipationRewards.NonWinnersCount)
	require.Len(t, repo.applied[0].Participants, 1)
	assert.Equal(t, late.UserID, repo.applied[0].Participants[0].UserID)

	for _, key := range []string{cache.UserKey(first.UserID), cache.UserKey(late.UserID), cache.UserListKeyPrefix + "all:1:10"} {
		ok, err := store.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestPlanDistribution(t *testing.T) {
	campaign := createTestCampaign(model.StatusActive)
	first := createTestSubmission(campaign.ID, model.SubmissionPending)
	second := createTestSubmission(campaign.ID, model.SubmissionPending)
	foreign := createTestSubmission(baseModel.NewID(), model.SubmissionPending)

	t.Run("Winner from another campaign", func(t *testing.T) {
		_, err := PlanDistribution(campaign, []model.Submission{first, second, foreign}, first.ID, foreign.ID, 100)

		assert.ErrorIs(t, err, ErrWinnerNotInCampaign)
	})

	t.Run("Pending non-winners are reset to approved", func(t *testing.T) {
		pending := createTestSubmission(campaign.ID, model.SubmissionPending)

		plan, err := PlanDistribution(campaign, []model.Submission{first, second, pending}, first.ID, second.ID, 100)

		require.NoError(t, err)
		assert.Equal(t, []string{pending.ID}, plan.ResetIDs)
		require.Len(t, plan.Participants, 1)
		assert.Equal(t, 100.0, plan.Participants[0].Amount)
		assert.Equal(t, pending.UserID, plan.Participants[0].UserID)
	})
}

func validInput() CampaignInput {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return CampaignInput{
		Name:               "Monsoon Colours",
		ReferenceImage:     "https://cdn.example.com/ref.png",
		Category:           "drawing",
		CampaignType:       model.TypePremium,
		MaxParticipants:    20,
		EntryFee:           model.EntryFee{Amount: 49},
		Prizes:             model.Prizes{FirstPrize: 500, SecondPrize: 200},
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, 10),
		SubmissionDeadline: start.AddDate(0, 0, 9),
		ResultDate:         start.AddDate(0, 0, 12),
	}
}

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults applied", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Campaign")).Return(nil)

		campaign, err := svc.CreateCampaign(ctx, validInput())

		require.NoError(t, err)
		assert.Equal(t, model.StatusDraft, campaign.Status)
		assert.Equal(t, model.SubmissionOffline, campaign.SubmissionType)
		assert.Equal(t, "all", campaign.AgeGroup)
		assert.Equal(t, "rupees", campaign.EntryFee.Type)
		assert.Equal(t, 0, campaign.CurrentParticipants)
	})

	t.Run("Free campaign clears entry fee", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Campaign")).Return(nil)

		input := validInput()
		input.CampaignType = model.TypeFree
		campaign, err := svc.CreateCampaign(ctx, input)

		require.NoError(t, err)
		assert.Zero(t, campaign.EntryFee.Amount)
	})

	cases := map[string]func(in *CampaignInput){
		"premium without fee":        func(in *CampaignInput) { in.EntryFee.Amount = 0 },
		"point-based without points": func(in *CampaignInput) { in.CampaignType = model.TypePointBased },
		"unknown type":               func(in *CampaignInput) { in.CampaignType = "vip" },
		"no participants":            func(in *CampaignInput) { in.MaxParticipants = 0 },
		"deadline after end":         func(in *CampaignInput) { in.SubmissionDeadline = in.EndDate.Add(time.Hour) },
		"result before end":          func(in *CampaignInput) { in.ResultDate = in.EndDate.Add(-time.Hour) },
		"negative prize":             func(in *CampaignInput) { in.Prizes.SecondPrize = -1 },
		"missing name":               func(in *CampaignInput) { in.Name = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(MockCampaignRepository)
			svc := newTestService(repo, nil, nil)
			input := validInput()
			mutate(&input)

			_, err := svc.CreateCampaign(ctx, input)

			assert.ErrorIs(t, err, ErrInvalidCampaign)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateCampaignRejectsClosed(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCampaignRepository)
	svc := newTestService(repo, nil, nil)
	campaign := createTestCampaign(model.StatusCancelled)

	repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)

	_, err := svc.UpdateCampaign(ctx, campaign.ID, validInput())

	assert.ErrorIs(t, err, ErrCampaignClosed)
}

func TestDeleteCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("Refused with submissions", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusDraft)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("CountSubmissions", ctx, campaign.ID).Return(int64(2), nil)

		err := svc.DeleteCampaign(ctx, campaign.ID)

		assert.ErrorIs(t, err, ErrCampaignHasSubmissions)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Deleted when empty", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusDraft)

		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("CountSubmissions", ctx, campaign.ID).Return(int64(0), nil)
		repo.On("Delete", ctx, campaign.ID).Return(nil)

		assert.NoError(t, svc.DeleteCampaign(ctx, campaign.ID))
	})
}

func TestRateSubmission(t *testing.T) {
	ctx := context.Background()
	rating := 8.5

	t.Run("First place demotes previous winner", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusActive)
		sub := createTestSubmission(campaign.ID, model.SubmissionPending)

		repo.On("GetSubmission", ctx, sub.ID).Return(&sub, nil)
		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("SaveRating", ctx, mock.AnythingOfType("*model.Submission"), model.SubmissionWinner).Return(nil)

		updated, err := svc.RateSubmission(ctx, sub.ID, RateInput{Rating: &rating, PrizePosition: "first"})

		require.NoError(t, err)
		assert.Equal(t, model.SubmissionWinner, updated.Status)
		assert.Equal(t, 8.5, *updated.AdminRating)
	})

	t.Run("Plain rating approves pending", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusActive)
		sub := createTestSubmission(campaign.ID, model.SubmissionPending)

		repo.On("GetSubmission", ctx, sub.ID).Return(&sub, nil)
		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)
		repo.On("SaveRating", ctx, mock.AnythingOfType("*model.Submission"), model.SubmissionStatus("")).Return(nil)

		updated, err := svc.RateSubmission(ctx, sub.ID, RateInput{Rating: &rating, Notes: " nice "})

		require.NoError(t, err)
		assert.Equal(t, model.SubmissionApproved, updated.Status)
		assert.Equal(t, "nice", updated.AdminNotes)
	})

	t.Run("Out of range rating", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		bad := 11.0

		_, err := svc.RateSubmission(ctx, baseModel.NewID(), RateInput{Rating: &bad})

		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("Unknown prize position", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)

		_, err := svc.RateSubmission(ctx, baseModel.NewID(), RateInput{Rating: &rating, PrizePosition: "third"})

		assert.ErrorIs(t, err, ErrInvalidPrizePosition)
	})

	t.Run("Closed campaign", func(t *testing.T) {
		repo := new(MockCampaignRepository)
		svc := newTestService(repo, nil, nil)
		campaign := createTestCampaign(model.StatusCompleted)
		sub := createTestSubmission(campaign.ID, model.SubmissionWinner)

		repo.On("GetSubmission", ctx, sub.ID).Return(&sub, nil)
		repo.On("GetByID", ctx, campaign.ID).Return(campaign, nil)

		_, err := svc.RateSubmission(ctx, sub.ID, RateInput{Rating: &rating})

		assert.ErrorIs(t, err, ErrCampaignClosed)
	})
}

func TestListCampaignsStatusFilter(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCampaignRepository)
	svc := newTestService(repo, nil, nil)

	repo.On("List", ctx, model.Status("")).Return([]model.Campaign{}, nil)
	repo.On("List", ctx, model.StatusActive).Return([]model.Campaign{*createTestCampaign(model.StatusActive)}, nil)

	all, err := svc.ListCampaigns(ctx, "all")
	require.NoError(t, err)
	assert.Empty(t, all)

	active, err := svc.ListCampaigns(ctx, "active")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = svc.ListCampaigns(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatsCached(t *testing.T) {
	ctx := context.Background()
	stats := new(MockStatsRepository)
	svc := newTestService(new(MockCampaignRepository), stats, nil)

	stats.On("Stats", ctx).Return(&model.Stats{TotalCampaigns: 4, ActiveCampaigns: 2, TotalSubmissions: 9, TotalRevenue: 990}, nil).Once()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	second, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 990.0, second.TotalRevenue)
	stats.AssertNumberOfCalls(t, "Stats", 1)
}
