package service

import (
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
)

// Caller identifies who invokes a service operation.
type Caller struct {
	ID   string
	Role string
}

// IsAdmin 判断调用方是否具有管理员权限
func (c Caller) IsAdmin() bool {
	return entity.IsAdminRole(c.Role)
}

func requireAdmin(c Caller) error {
	if strings.TrimSpace(c.ID) == "" {
		return apperr.Unauthorized("authentication required")
	}
	if !c.IsAdmin() {
		return apperr.Forbidden("admin privileges required")
	}
	return nil
}
