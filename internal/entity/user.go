package entity

import (
	"strings"
	"time"
)

// 后台账号角色
const (
	UserRoleSuperAdmin = "super_admin"
	UserRoleAdmin      = "admin"
	UserRoleUser       = "user"
)

// IsAdminRole reports whether role may manage media, tags and content.
func IsAdminRole(role string) bool {
	return role == UserRoleAdmin || role == UserRoleSuperAdmin
}

// AssignableRole normalises a role that an admin may grant through the API.
// super_admin is only created by the seed and is never assignable.
func AssignableRole(role string) (string, bool) {
	switch role = strings.ToLower(strings.TrimSpace(role)); role {
	case UserRoleAdmin, UserRoleUser:
		return role, true
	default:
		return "", false
	}
}

// DbUser is a back-office account.
type DbUser struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	Email        string    `gorm:"size:191;uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" bson:"password_hash" json:"-"`
	DisplayName  string    `gorm:"size:255" bson:"display_name" json:"display_name"`
	Role         string    `gorm:"size:50;index;not null" bson:"role" json:"role"`
	IsActive     bool      `gorm:"not null;default:false" bson:"is_active" json:"is_active"`
}

// TableName 指定表名
func (DbUser) TableName() string {
	return "users"
}

// Summary 返回给客户端的用户信息，不含密码哈希
func (u *DbUser) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type UserSummary struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserQuery lists accounts, optionally filtered by role or an email/name search.
type UserQuery struct {
	BaseParams
	Role   string `json:"role" form:"role" query:"role"`
	Search string `json:"search" form:"search" query:"search"`
}

// AuthStatusResponse tells the admin UI whether first-run registration is open.
type AuthStatusResponse struct {
	HasUser bool `json:"has_user"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type UserCreateRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

type UserUpdateRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Role        *string `json:"role,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Meta  *Meta         `json:"meta"`
}
