package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/auth"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Register 注册首个用户，成为超级管理员；已有用户后关闭注册
func (h *HTTPHandler) Register(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid registration payload")
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	count, err := h.repo.CountUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to count users during registration")
		InternalError(c, "failed to process registration")
		return
	}
	if count > 0 {
		ErrorResponse(c, http.StatusForbidden, ErrCodeRegistrationClosed, "registration disabled")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if err := auth.CheckPasswordPolicy(password); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		InternalError(c, "failed to register user")
		return
	}

	user := &entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         entity.UserRoleSuperAdmin,
		IsActive:     true,
	}
	if err := h.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			BadRequest(c, ErrCodeEmailExists, "email already registered")
			return
		}
		logrus.WithError(err).Error("failed to create initial user")
		InternalError(c, "failed to register user")
		return
	}

	h.respondSession(c, http.StatusCreated, user)
}

// Login 邮箱密码登录
func (h *HTTPHandler) Login(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid login payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	user, err := h.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			logrus.WithError(err).WithField("email", email).Error("failed to load user for login")
			InternalError(c, "failed to process login")
			return
		}
		logrus.WithField("email", email).Warn("login attempt for unknown email")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	if !user.IsActive {
		ErrorResponse(c, http.StatusForbidden, ErrCodeUserDisabled, "user is disabled")
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		logrus.WithError(err).WithField("email", email).Warn("password verification failed")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	h.respondSession(c, http.StatusOK, user)
}

func (h *HTTPHandler) respondSession(c *gin.Context, status int, user *entity.DbUser) {
	session, err := h.authManager.IssueSession(user)
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		InternalError(c, "failed to create session")
		return
	}
	respondData(c, status, entity.AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user.Summary(),
	})
}

// AuthStatus 报告系统中是否已有用户
func (h *HTTPHandler) AuthStatus(c *gin.Context) {
	if h.repo == nil {
		respondData(c, http.StatusOK, entity.AuthStatusResponse{HasUser: false})
		return
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()
	count, err := h.repo.CountUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to count users for auth status")
		InternalError(c, "failed to check auth status")
		return
	}
	respondData(c, http.StatusOK, entity.AuthStatusResponse{HasUser: count > 0})
}

// Me 返回当前用户资料
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user profile")
		InternalError(c, "failed to load profile")
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": dbUser.Summary()})
}
