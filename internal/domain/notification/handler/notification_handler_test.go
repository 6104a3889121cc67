package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"art_contest_admin/internal/domain/notification/model"
	"art_contest_admin/internal/domain/notification/service"
	"art_contest_admin/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Broadcast(ctx context.Context, msg service.Message) (*service.Result, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Result), args.Error(1)
}

func (m *MockNotificationService) SendToUser(ctx context.Context, userID string, msg service.Message) (*service.Result, error) {
	args := m.Called(ctx, userID, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Result), args.Error(1)
}

func (m *MockNotificationService) SendToCampaignParticipants(ctx context.Context, campaignID string, msg service.Message) (*service.Result, error) {
	args := m.Called(ctx, campaignID, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Result), args.Error(1)
}

func (m *MockNotificationService) Stats(ctx context.Context) (*service.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Stats), args.Error(1)
}

func (m *MockNotificationService) History(ctx context.Context) ([]model.Notification, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationService) SendDeadlineReminders(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setupRouter(svc service.NotificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUsername, "admin")
		c.Next()
	})
	h := NewNotificationHandler(svc, nil)
	r.POST("/api/push/send-to-campaign-participants", h.SendToCampaignParticipants)
	r.POST("/api/push/send-to-user", h.SendToUser)
	r.GET("/api/push/stats", h.Stats)
	return r
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestSendToCampaignParticipantsHandler(t *testing.T) {
	svc := new(MockNotificationService)
	r := setupRouter(svc)
	svc.On("SendToCampaignParticipants", mock.Anything, "c1", service.Message{Title: "Hi", Body: "hello", SentBy: "admin"}).
		Return(&service.Result{Succeeded: 4, Failed: 1}, nil)

	w, env := do(r, http.MethodPost, "/api/push/send-to-campaign-participants", `{"title":"Hi","body":"hello","campaign_id":"c1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, 4.0, data["sent"])
	assert.Equal(t, 1.0, data["failed"])
}

func TestSendToUserErrors(t *testing.T) {
	t.Run("Missing target", func(t *testing.T) {
		svc := new(MockNotificationService)
		r := setupRouter(svc)
		svc.On("SendToUser", mock.Anything, "", mock.Anything).Return(nil, service.ErrTargetRequired)

		w, _ := do(r, http.MethodPost, "/api/push/send-to-user", `{"title":"Hi","body":"hello"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown user", func(t *testing.T) {
		svc := new(MockNotificationService)
		r := setupRouter(svc)
		svc.On("SendToUser", mock.Anything, "u1", mock.Anything).Return(nil, service.ErrUserNotFound)

		w, _ := do(r, http.MethodPost, "/api/push/send-to-user", `{"title":"Hi","body":"hello","user_id":"u1"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatsHandler(t *testing.T) {
	svc := new(MockNotificationService)
	r := setupRouter(svc)
	svc.On("Stats", mock.Anything).Return(&service.Stats{TotalSubscriptions: 12}, nil)

	w, env := do(r, http.MethodGet, "/api/push/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12.0, env["data"].(map[string]interface{})["total_subscriptions"])
}
