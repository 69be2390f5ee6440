package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser 存储请求上下文中的认证用户信息
type RequestUser struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
}

// IsAdmin 判断用户是否具有管理员权限
func (u *RequestUser) IsAdmin() bool {
	return u != nil && entity.IsAdminRole(u.Role)
}

// IsSuperAdmin 判断用户是否为超级管理员
func (u *RequestUser) IsSuperAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role == entity.UserRoleSuperAdmin
}

// bearerToken 解析 Authorization 头，返回 token 或错误描述
func bearerToken(c *gin.Context) (string, string) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", "缺少授权头"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "无效的授权头格式"
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", "缺少 Bearer Token"
	}
	return token, ""
}

// authenticate 校验 token 并加载用户；失败时已写入响应
func (h *HTTPHandler) authenticate(c *gin.Context, tokenString string) (*RequestUser, bool) {
	claims, err := h.authManager.Verify(tokenString)
	if err != nil {
		logrus.WithError(err).Warn("failed to parse jwt token")
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeSessionExpired, "Token 无效或已过期")
		return nil, false
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeUserNotFound, "用户不存在")
			return nil, false
		}
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load user")
		InternalError(c, "验证用户失败")
		return nil, false
	}

	if !user.IsActive {
		ErrorResponse(c, http.StatusForbidden, ErrCodeUserDisabled, "账户已被禁用")
		return nil, false
	}

	return &RequestUser{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}, true
}

// AuthMiddleware JWT 认证中间件
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := bearerToken(c)
		if problem != "" {
			Unauthorized(c, problem)
			return
		}
		requestUser, ok := h.authenticate(c, tokenString)
		if !ok {
			return
		}
		c.Set(currentUserContextKey, requestUser)
		c.Next()
	}
}

// OptionalAuthMiddleware 有 token 时识别用户，没有时按访客处理
func (h *HTTPHandler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		tokenString, problem := bearerToken(c)
		if problem != "" {
			Unauthorized(c, problem)
			return
		}
		requestUser, ok := h.authenticate(c, tokenString)
		if !ok {
			return
		}
		c.Set(currentUserContextKey, requestUser)
		c.Next()
	}
}

// RequireAdmin 管理员权限守卫中间件
func (h *HTTPHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			Forbidden(c, "需要管理员权限")
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文获取当前认证用户
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
