package model

import (
	"context"
	"errors"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/auth"
	"github.com/krsnavtr-code/rudra360-sub000/internal/config"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/sirupsen/logrus"
)

// SeedAdmin ensures the super admin configured by ADMIN_EMAIL/ADMIN_PASSWORD
// exists. It returns true when a user was created.
func SeedAdmin(ctx context.Context, repo Repository, cfg config.Config) (bool, error) {
	if repo == nil {
		return false, nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return false, nil
	}
	return EnsureUser(ctx, repo, email, cfg.AdminPassword, entity.UserRoleSuperAdmin)
}

// EnsureUser creates the user unless an account with the same email exists.
func EnsureUser(ctx context.Context, repo Repository, email, password, role string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != role {
			logrus.WithFields(logrus.Fields{
				"email": email,
				"role":  existing.Role,
			}).Warn("seed user already exists with a different role")
		}
		return false, nil
	case !errors.Is(err, entity.ErrNotFound):
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.Split(email, "@")[0],
		Role:         role,
		IsActive:     true,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return false, err
	}
	logrus.WithFields(logrus.Fields{"email": email, "role": role}).Info("seed user created")
	return true, nil
}
