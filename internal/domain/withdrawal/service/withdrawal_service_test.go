package service

import (
	"context"
	"testing"
	"time"

	"art_contest_admin/internal/domain/withdrawal/model"
	"art_contest_admin/internal/domain/withdrawal/repository"
	"art_contest_admin/internal/pkg/worker"
	"art_contest_admin/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testID = "2d1b6a3e-9c4f-4a1e-8f5b-1c2d3e4f5a6b"

// MockWithdrawalRepository is a mock of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) List(ctx context.Context, status model.Status) ([]model.Withdrawal, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id string) (*model.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) Process(ctx context.Context, id string, decision model.Decision) (*model.Withdrawal, error) {
	args := m.Called(ctx, id, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Withdrawal), args.Error(1)
}

type recordingNotifier struct {
	tasks []worker.PushTask
}

func (n *recordingNotifier) AddTask(task worker.PushTask) bool {
	n.tasks = append(n.tasks, task)
	return true
}

type countingRecorder struct {
	statuses []string
}

func (r *countingRecorder) RecordWithdrawal(status string) {
	r.statuses = append(r.statuses, status)
}

func TestProcessWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("Reject without reason is blocked before the repository", func(t *testing.T) {
		repo := new(MockWithdrawalRepository)
		svc := NewWithdrawalService(repo, nil, nil, nil, nil)

		_, err := svc.ProcessWithdrawal(ctx, testID, ProcessInput{Status: "rejected", RejectionReason: "   "}, "admin")

		assert.ErrorIs(t, err, ErrRejectionReasonRequired)
		repo.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown decision", func(t *testing.T) {
		repo := new(MockWithdrawalRepository)
		svc := NewWithdrawalService(repo, nil, nil, nil, nil)

		_, err := svc.ProcessWithdrawal(ctx, testID, ProcessInput{Status: "pending"}, "admin")

		assert.ErrorIs(t, err, ErrInvalidDecision)
	})

	t.Run("Approve uses default note", func(t *testing.T) {
		repo := new(MockWithdrawalRepository)
		notifier := &recordingNotifier{}
		recorder := &countingRecorder{}
		svc := NewWithdrawalService(repo, notifier, recorder, nil, nil)

		repo.On("Process", ctx, testID, mock.MatchedBy(func(d model.Decision) bool {
			return d.Status == model.StatusCompleted && d.AdminNotes == DefaultApprovalNote && d.ProcessedBy == "admin"
		})).Return(&model.Withdrawal{UserID: "u1", Amount: 250, Status: model.StatusCompleted, AdminNotes: DefaultApprovalNote}, nil)

		w, err := svc.ProcessWithdrawal(ctx, testID, ProcessInput{Status: "completed"}, "admin")

		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, w.Status)
		require.Len(t, notifier.tasks, 1)
		assert.Equal(t, "u1", notifier.tasks[0].UserID)
		assert.Equal(t, []string{"completed"}, recorder.statuses)
		repo.AssertExpectations(t)
	})

	t.Run("Reject passes trimmed reason", func(t *testing.T) {
		repo := new(MockWithdrawalRepository)
		svc := NewWithdrawalService(repo, nil, nil, nil, nil)

		repo.On("Process", ctx, testID, mock.MatchedBy(func(d model.Decision) bool {
			return d.Status == model.StatusRejected && d.RejectionReason == "bank details mismatch"
		})).Return(&model.Withdrawal{UserID: "u1", Amount: 250, Status: model.StatusRejected}, nil)

		_, err := svc.ProcessWithdrawal(ctx, testID, ProcessInput{Status: "rejected", RejectionReason: " bank details mismatch "}, "admin")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Reject clears the refunded user's cache", func(t *testing.T) {
		repo := new(MockWithdrawalRepository)
		users := cache.NewMemoryCache()
		require.NoError(t, users.Set(ctx, cache.UserKey("u1"), map[string]float64{"wallet_balance": 0}, time.Minute))
		require.NoError(t, users.Set(ctx, cache.UserListKeyPrefix+"all:1:20", []string{"u1"}, time.Minute))
		require.NoError(t, users.Set(ctx, cache.UserKey("u2"), map[string]float64{"wallet_balance": 80}, time.Minute))
		svc := NewWithdrawalService(repo, nil, nil, users, nil)

		repo.On("Process", ctx, testID, mock.Anything).
			Return(&model.Withdrawal{UserID: "u1", Amount: 250, Status: model.StatusRejected}, nil)

		_, err := svc.ProcessWithdrawal(ctx, testID, ProcessInput{Status: "rejected", RejectionReason: "bank details mismatch"}, "admin")
		require.NoError(t, err)

		ok, _ := users.Exists(ctx, cache.UserKey("u1"))
		assert.False(t, ok)
		ok, _ = users.Exists(ctx, cache.UserListKeyPrefix+"all:1:20")
		assert.False(t, ok)
		ok, _ = users.Exists(ctx, cache.UserKey("u2"))
		assert.True(t, ok)
	})

	t.Run("Second approval is refused", func(t *testing.T) {
		repo := new(MockWithdrawalRepository)
		notifier := &recordingNotifier{}
		svc := NewWithdrawalService(repo, notifier, nil, nil, nil)

		repo.On("Process", ctx, testID, mock.Anything).Return(nil, repository.ErrNotPending)

		_, err := svc.ProcessWithdrawal(ctx, testID, ProcessInput{Status: "completed"}, "admin")

		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.Empty(t, notifier.tasks)
	})

	t.Run("Missing withdrawal", func(t *testing.T) {
		repo := new(MockWithdrawalRepository)
		svc := NewWithdrawalService(repo, nil, nil, nil, nil)

		repo.On("Process", ctx, testID, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.ProcessWithdrawal(ctx, testID, ProcessInput{Status: "completed"}, "admin")

		assert.ErrorIs(t, err, ErrWithdrawalNotFound)
	})
}

func TestListWithdrawals(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWithdrawalRepository)
	svc := NewWithdrawalService(repo, nil, nil, nil, nil)

	repo.On("List", ctx, model.StatusPending).Return([]model.Withdrawal{{Status: model.StatusPending}}, nil)

	list, err := svc.ListWithdrawals(ctx, "pending")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListWithdrawals(ctx, "approved")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
