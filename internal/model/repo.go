package model

import (
	"context"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
)

// Repository 定义数据库操作接口
//
// Implementations return entity.ErrNotFound and entity.ErrDuplicate instead of
// driver specific errors.
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)

	// 媒体标签
	CreateTag(ctx context.Context, tag *entity.DbMediaTag) error
	GetTag(ctx context.Context, id string) (*entity.DbMediaTag, error)
	ListTags(ctx context.Context, params *entity.TagQuery) ([]entity.DbMediaTag, *entity.Meta, error)
	UpdateTag(ctx context.Context, id string, updates entity.TagUpdates) error
	DeleteTag(ctx context.Context, id string) error

	// 媒体与标签关联
	DetachMediaFromTags(ctx context.Context, mediaURL string, keepIDs []string) ([]string, error)
	AttachMediaToTags(ctx context.Context, mediaURL string, tagIDs []string) ([]string, error)
	FindTagsForMedia(ctx context.Context, mediaURL string, tagIDs []string) ([]entity.DbMediaTag, error)
	RecountTagMedia(ctx context.Context, tagIDs []string) error

	// 媒体引用扫描
	FindUsage(ctx context.Context, query entity.UsageQuery) ([]entity.UsageItem, error)

	// 媒体库
	CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error
	GetMediaAsset(ctx context.Context, id string) (*entity.DbMediaAsset, error)
	ListMediaAssets(ctx context.Context, params *entity.MediaQuery) ([]entity.DbMediaAsset, *entity.Meta, error)
	DeleteMediaAsset(ctx context.Context, id string) error

	// 内容
	CreateProject(ctx context.Context, project *entity.DbProject) error
	SaveProject(ctx context.Context, project *entity.DbProject) error
	GetProject(ctx context.Context, id string) (*entity.DbProject, error)
	GetProjectBySlug(ctx context.Context, slug string) (*entity.DbProject, error)
	ListProjects(ctx context.Context, params *entity.ContentQuery) ([]entity.DbProject, *entity.Meta, error)
	DeleteProject(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, category *entity.DbCategory) error
	SaveCategory(ctx context.Context, category *entity.DbCategory) error
	GetCategory(ctx context.Context, id string) (*entity.DbCategory, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*entity.DbCategory, error)
	ListCategories(ctx context.Context, params *entity.ContentQuery) ([]entity.DbCategory, *entity.Meta, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateService(ctx context.Context, service *entity.DbService) error
	SaveService(ctx context.Context, service *entity.DbService) error
	GetService(ctx context.Context, id string) (*entity.DbService, error)
	GetServiceBySlug(ctx context.Context, slug string) (*entity.DbService, error)
	ListServices(ctx context.Context, params *entity.ContentQuery) ([]entity.DbService, *entity.Meta, error)
	DeleteService(ctx context.Context, id string) error

	// 站点所有者信息
	GetOwnerInfo(ctx context.Context) (*entity.DbOwnerInfo, error)
	SaveOwnerInfo(ctx context.Context, info *entity.DbOwnerInfo) error

	Ping(ctx context.Context) error
	Close() error
}
