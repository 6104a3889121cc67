package handler

import (
	"errors"
	"net/http"

	"art_contest_admin/internal/domain/auth/service"
	"art_contest_admin/internal/pkg/middleware"
	"art_contest_admin/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service service.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service service.AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{service: service, log: log}
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
// @Summary 管理员登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "Credentials"
// @Success 200 {object} response.Response{data=service.Session}
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Username and password are required")
		return
	}

	session, err := h.service.Authenticate(c.Request.Context(), service.Credentials{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid credentials")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Login failed")
		return
	}

	response.SuccessWithMessage(c, "Login successful", session)
}

// Logout 注销当前会话
// @Summary 管理员注销
// @Tags Auth
// @Security ApiKeyAuth
// @Success 200 {object} response.Response
// @Router /api/admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString(middleware.ContextToken)); err != nil {
		h.log.Error("logout failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Logout failed")
		return
	}
	response.SuccessWithMessage(c, "Logged out", nil)
}

// Me 当前管理员
// @Summary 当前管理员信息
// @Tags Auth
// @Security ApiKeyAuth
// @Success 200 {object} response.Response
// @Router /api/admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, gin.H{
		"admin_id": c.GetString(middleware.ContextAdminID),
		"username": c.GetString(middleware.ContextUsername),
		"role":     c.GetString(middleware.ContextRole),
	})
}
