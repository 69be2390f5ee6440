package api

import (
	"context"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/auth"
	"github.com/krsnavtr-code/rudra360-sub000/internal/config"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
	"github.com/krsnavtr-code/rudra360-sub000/internal/model"
	"github.com/krsnavtr-code/rudra360-sub000/internal/service"
	"github.com/krsnavtr-code/rudra360-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

// 请求超时
const (
	requestTimeout = 5 * time.Second
	scanTimeout    = 10 * time.Second
	uploadTimeout  = 60 * time.Second
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager

	// 服务层
	scanner *service.UsageScanner
	tagSync *service.TagSynchronizer
	tags    *service.TagDirectory
	media   *service.MediaLibrary
	content *service.ContentService
	owner   *service.OwnerService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	scanner := service.NewUsageScanner(repo, cfg.MediaLocalBaseURL, cfg.MediaProductionBaseURL)
	handler := &HTTPHandler{
		cfg:         cfg,
		repo:        repo,
		authManager: authManager,
		scanner:     scanner,
		tagSync:     service.NewTagSynchronizer(repo, cfg.TagMediaCountMode),
		tags:        service.NewTagDirectory(repo, cfg.TagMediaCountMode),
		media: service.NewMediaLibrary(repo, repo, scanner, store, service.MediaLibraryOptions{
			PublicBase: cfg.StoragePublicBaseURL,
			MaxBytes:   cfg.MaxUploadBytes(),
			CountMode:  cfg.TagMediaCountMode,
		}),
		content: service.NewContentService(repo),
		owner:   service.NewOwnerService(repo, cfg.OwnerCacheTTL),
	}
	return handler, nil
}

// RegisterRoutes 注册 /api 下的全部路由
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.GET("/status", h.AuthStatus)
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", h.AuthMiddleware(), h.Me)

	public := apiGroup.Group("")
	public.Use(h.OptionalAuthMiddleware())
	public.GET("/owner", h.GetOwnerInfo)
	registerContentReads(public, "/projects", "projects", "project", h.content.Projects, h)
	registerContentReads(public, "/categories", "categories", "category", h.content.Categories, h)
	registerContentReads(public, "/services", "services", "service", h.content.Services, h)

	admin := apiGroup.Group("")
	admin.Use(h.AuthMiddleware(), h.RequireAdmin())

	userAdmin := admin.Group("/users")
	userAdmin.GET("", h.ListUsers)
	userAdmin.POST("", h.CreateUser)
	userAdmin.PATCH("/:id", h.UpdateUser)
	userAdmin.DELETE("/:id", h.DeleteUser)

	mediaGroup := admin.Group("/media")
	mediaGroup.GET("", h.ListMedia)
	mediaGroup.POST("", h.UploadMedia)
	mediaGroup.GET("/check-usage", h.CheckMediaUsage)
	mediaGroup.DELETE("/:id", h.DeleteMedia)

	tagGroup := mediaGroup.Group("/tags")
	tagGroup.GET("", h.ListTags)
	tagGroup.POST("", h.CreateTag)
	tagGroup.PATCH("/update-media", h.UpdateMediaTags)
	tagGroup.GET("/:id", h.GetTag)
	tagGroup.PATCH("/:id", h.UpdateTag)
	tagGroup.DELETE("/:id", h.DeleteTag)

	admin.PUT("/owner", h.UpdateOwnerInfo)
	registerContentWrites(admin, "/projects", "project", h.content.Projects, h)
	registerContentWrites(admin, "/categories", "category", h.content.Categories, h)
	registerContentWrites(admin, "/services", "service", h.content.Services, h)
}

// requestContext 为请求派生带超时的 context
func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

// callerOf 当前请求的调用方，未登录时为空
func callerOf(c *gin.Context) service.Caller {
	user := CurrentUser(c)
	if user == nil {
		return service.Caller{}
	}
	return service.Caller{ID: user.ID, Role: user.Role}
}

func totalOf(meta *entity.Meta, fallback int) int64 {
	if meta == nil {
		return int64(fallback)
	}
	return meta.Total
}
