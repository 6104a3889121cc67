package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"art_contest_admin/internal/domain/user/model"
	"art_contest_admin/internal/domain/user/service"
	"art_contest_admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUsers(ctx context.Context, status string, page utils.Pagination) (*utils.PageResult, error) {
	args := m.Called(ctx, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.PageResult), args.Error(1)
}

func (m *MockUserService) SearchUsers(ctx context.Context, q string) ([]model.User, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserSubmissions(ctx context.Context, id string) ([]model.Submission, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]model.Submission), args.Error(1)
}

func setupRouter(svc service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(svc, nil)
	r.GET("/api/users", h.GetUsers)
	r.GET("/api/users/:id", h.GetUser)
	return r
}

func get(r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var env map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestGetUserInclude(t *testing.T) {
	id := "3f9e2a1b-7c6d-4e5f-8a9b-0c1d2e3f4a5b"
	user := &model.User{MobileNumber: "9876500001", Status: model.StatusVerified}
	user.ID = id

	t.Run("Plain detail omits submissions", func(t *testing.T) {
		svc := new(MockUserService)
		r := setupRouter(svc)
		svc.On("GetUser", mock.Anything, id).Return(user, nil)

		w, env := get(r, "/api/users/"+id)

		require.Equal(t, http.StatusOK, w.Code)
		data := env["data"].(map[string]interface{})
		assert.NotContains(t, data, "submissions")
		svc.AssertNotCalled(t, "GetUserSubmissions", mock.Anything, mock.Anything)
	})

	t.Run("Include submissions", func(t *testing.T) {
		svc := new(MockUserService)
		r := setupRouter(svc)
		svc.On("GetUser", mock.Anything, id).Return(user, nil)
		svc.On("GetUserSubmissions", mock.Anything, id).Return([]model.Submission{{ID: "s1", CampaignName: "Spring Art"}}, nil)

		w, env := get(r, "/api/users/"+id+"?include=submissions")

		require.Equal(t, http.StatusOK, w.Code)
		data := env["data"].(map[string]interface{})
		assert.Len(t, data["submissions"], 1)
	})

	t.Run("Unknown user", func(t *testing.T) {
		svc := new(MockUserService)
		r := setupRouter(svc)
		svc.On("GetUser", mock.Anything, "missing").Return(nil, service.ErrUserNotFound)

		w, _ := get(r, "/api/users/missing")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetUsersPagination(t *testing.T) {
	svc := new(MockUserService)
	r := setupRouter(svc)
	svc.On("GetUsers", mock.Anything, "verified", utils.Pagination{Page: 2, Limit: 5}).
		Return(&utils.PageResult{List: []model.User{}, Total: 6, Page: 2, Limit: 5}, nil)

	w, env := get(r, "/api/users?page=2&limit=5&status=verified")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6.0, env["data"].(map[string]interface{})["total"])
	svc.AssertExpectations(t)
}
