package handler

import (
	"errors"
	"net/http"

	"art_contest_admin/internal/domain/user/service"
	"art_contest_admin/pkg/response"
	"art_contest_admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 用户查询
type UserHandler struct {
	service service.UserService
	log     *zap.Logger
}

func NewUserHandler(service service.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{service: service, log: log}
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		h.log.Error("user request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// GetUsers 用户列表（分页）
// @Summary 用户列表
// @Tags User
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param status query string false "pending/verified/all"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /api/users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.GetUsers(c.Request.Context(), c.Query("status"), page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, result)
}

// SearchUsers 按手机号或用户名搜索
// @Summary 搜索用户
// @Tags User
// @Security ApiKeyAuth
// @Param q query string true "Keyword"
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /api/users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	users, err := h.service.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, users)
}

// GetUser 用户详情，include=submissions 时附带投稿
// @Summary 用户详情
// @Tags User
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Param include query string false "submissions"
// @Success 200 {object} response.Response{data=service.UserDetail}
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	user, err := h.service.GetUser(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	detail := service.UserDetail{User: user}
	if c.Query("include") == "submissions" {
		if detail.Submissions, err = h.service.GetUserSubmissions(ctx, id); err != nil {
			h.handleError(c, err)
			return
		}
	}
	response.Success(c, detail)
}

// GetUserSubmissions 用户投稿列表
// @Summary 用户投稿
// @Tags User
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response{data=[]model.Submission}
// @Router /api/users/{id}/submissions [get]
func (h *UserHandler) GetUserSubmissions(c *gin.Context) {
	submissions, err := h.service.GetUserSubmissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, submissions)
}
