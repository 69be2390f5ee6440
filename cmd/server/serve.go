package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/api"
	"github.com/krsnavtr-code/rudra360-sub000/internal/config"
	"github.com/krsnavtr-code/rudra360-sub000/internal/model"
	"github.com/krsnavtr-code/rudra360-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg config.Config) error {
	repo, err := model.InitRepository(&cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise repository: %w", err)
	}
	defer repo.Close()

	if created, err := model.SeedAdmin(parent, repo, cfg); err != nil {
		logrus.WithError(err).Warn("failed to seed admin user")
	} else if created {
		logrus.WithField("email", cfg.AdminEmail).Info("admin user seeded")
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise storage: %w", err)
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		return fmt.Errorf("failed to initialise http handler: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(api.RequestIDMiddleware())
	r.Use(api.LoggingMiddleware())
	r.Use(api.MetricsMiddleware())
	r.Use(api.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpHandler.RegisterRoutes(r)
	mountLocalFiles(r, cfg, store)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              serverHost,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       90 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(parent), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("host", serverHost).Info("服务器启动")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// mountLocalFiles 本地存储时直接提供上传文件
func mountLocalFiles(r *gin.Engine, cfg config.Config, store storage.Storage) {
	localProvider, ok := store.(storage.LocalBaseDirProvider)
	if !ok {
		return
	}
	publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	if strings.HasPrefix(publicPrefix, "http://") || strings.HasPrefix(publicPrefix, "https://") {
		return
	}
	if !strings.HasPrefix(publicPrefix, "/") {
		publicPrefix = "/" + publicPrefix
	}
	r.Static(strings.TrimRight(publicPrefix, "/"), localProvider.LocalBaseDir())
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
