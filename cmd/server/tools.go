package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
	"github.com/krsnavtr-code/rudra360-sub000/internal/model"
	"github.com/krsnavtr-code/rudra360-sub000/internal/service"

	"github.com/spf13/cobra"
)

// newCheckUsageCommand 在命令行检查某个媒体地址是否仍被内容引用
func newCheckUsageCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check-usage <url>",
		Short: "Report which content records reference a media URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, err := model.InitRepository(&cfg)
			if err != nil {
				return fmt.Errorf("failed to initialise repository: %w", err)
			}
			defer repo.Close()

			ctx, cancel := context.WithTimeout(contextOrBackground(cmd.Context()), timeout)
			defer cancel()

			scanner := service.NewUsageScanner(repo, cfg.MediaLocalBaseURL, cfg.MediaProductionBaseURL)
			report, err := scanner.CheckUsage(ctx, args[0])
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(report)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "scan timeout")
	return cmd
}

// newCreateAdminCommand 创建管理员账号，已存在时不做修改
func newCreateAdminCommand() *cobra.Command {
	var (
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("--password or ADMIN_PASSWORD is required")
			}
			if role != entity.UserRoleAdmin && role != entity.UserRoleSuperAdmin {
				return fmt.Errorf("unsupported role: %s", role)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, err := model.InitRepository(&cfg)
			if err != nil {
				return fmt.Errorf("failed to initialise repository: %w", err)
			}
			defer repo.Close()

			created, err := model.EnsureUser(contextOrBackground(cmd.Context()), repo, email, password, role)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %s\n", role, email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&role, "role", entity.UserRoleAdmin, "admin or super_admin")
	return cmd
}
