package mongodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	projectSearchFields  = []string{"title", "summary"}
	categorySearchFields = []string{"name", "description"}
	serviceSearchFields  = []string{"title", "description"}
)

// contentFilter builds the listing filter shared by content collections.
func contentFilter(params *entity.ContentQuery, searchFields []string, hasCategory bool) bson.M {
	filter := bson.M{}
	if search := strings.TrimSpace(params.Search); search != "" {
		filter = containsFilter(searchFields, search)
	}
	if hasCategory {
		if categoryID := strings.TrimSpace(params.CategoryID); categoryID != "" {
			filter["category_id"] = categoryID
		}
	}
	if params.PublishedOnly {
		filter["is_published"] = true
	}
	return filter
}

func insertDoc(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	_, err := coll.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *Repository) projects() *mongo.Collection {
	return r.collection(entity.DbProject{}.TableName())
}

func (r *Repository) categories() *mongo.Collection {
	return r.collection(entity.DbCategory{}.TableName())
}

func (r *Repository) services() *mongo.Collection {
	return r.collection(entity.DbService{}.TableName())
}

func (r *Repository) CreateProject(ctx context.Context, project *entity.DbProject) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if project == nil {
		return fmt.Errorf("project is nil")
	}
	if project.ID == "" {
		project.ID = entity.NewID()
	}
	project.CreatedAt = now()
	project.UpdatedAt = project.CreatedAt
	return insertDoc(ctx, r.projects(), project)
}

func (r *Repository) SaveProject(ctx context.Context, project *entity.DbProject) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if project == nil || project.ID == "" {
		return fmt.Errorf("invalid project")
	}
	project.UpdatedAt = now()
	return replaceByID(ctx, r.projects(), project.ID, project)
}

func (r *Repository) GetProject(ctx context.Context, id string) (*entity.DbProject, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbProject](ctx, r.projects(), bson.M{"_id": id})
}

func (r *Repository) GetProjectBySlug(ctx context.Context, slug string) (*entity.DbProject, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbProject](ctx, r.projects(), bson.M{"slug": slug})
}

func (r *Repository) ListProjects(ctx context.Context, params *entity.ContentQuery) ([]entity.DbProject, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.ContentQuery{}
	}
	params.Normalize(20, 100)
	return findPage[entity.DbProject](ctx, r.projects(), contentFilter(params, projectSearchFields, true), &params.BaseParams)
}

func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteByID(ctx, r.projects(), id)
}

func (r *Repository) CreateCategory(ctx context.Context, category *entity.DbCategory) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if category == nil {
		return fmt.Errorf("category is nil")
	}
	if category.ID == "" {
		category.ID = entity.NewID()
	}
	category.CreatedAt = now()
	category.UpdatedAt = category.CreatedAt
	return insertDoc(ctx, r.categories(), category)
}

func (r *Repository) SaveCategory(ctx context.Context, category *entity.DbCategory) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if category == nil || category.ID == "" {
		return fmt.Errorf("invalid category")
	}
	category.UpdatedAt = now()
	return replaceByID(ctx, r.categories(), category.ID, category)
}

func (r *Repository) GetCategory(ctx context.Context, id string) (*entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbCategory](ctx, r.categories(), bson.M{"_id": id})
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbCategory](ctx, r.categories(), bson.M{"slug": slug})
}

func (r *Repository) ListCategories(ctx context.Context, params *entity.ContentQuery) ([]entity.DbCategory, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.ContentQuery{}
	}
	params.Normalize(20, 100)
	return findPage[entity.DbCategory](ctx, r.categories(), contentFilter(params, categorySearchFields, false), &params.BaseParams)
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteByID(ctx, r.categories(), id)
}

func (r *Repository) CreateService(ctx context.Context, service *entity.DbService) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if service == nil {
		return fmt.Errorf("service is nil")
	}
	if service.ID == "" {
		service.ID = entity.NewID()
	}
	service.CreatedAt = now()
	service.UpdatedAt = service.CreatedAt
	return insertDoc(ctx, r.services(), service)
}

func (r *Repository) SaveService(ctx context.Context, service *entity.DbService) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if service == nil || service.ID == "" {
		return fmt.Errorf("invalid service")
	}
	service.UpdatedAt = now()
	return replaceByID(ctx, r.services(), service.ID, service)
}

func (r *Repository) GetService(ctx context.Context, id string) (*entity.DbService, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbService](ctx, r.services(), bson.M{"_id": id})
}

func (r *Repository) GetServiceBySlug(ctx context.Context, slug string) (*entity.DbService, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbService](ctx, r.services(), bson.M{"slug": slug})
}

func (r *Repository) ListServices(ctx context.Context, params *entity.ContentQuery) ([]entity.DbService, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.ContentQuery{}
	}
	params.Normalize(20, 100)
	return findPage[entity.DbService](ctx, r.services(), contentFilter(params, serviceSearchFields, false), &params.BaseParams)
}

func (r *Repository) DeleteService(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteByID(ctx, r.services(), id)
}

func (r *Repository) mediaAssets() *mongo.Collection {
	return r.collection(entity.DbMediaAsset{}.TableName())
}

func (r *Repository) CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if asset == nil {
		return fmt.Errorf("media asset is nil")
	}
	if asset.ID == "" {
		asset.ID = entity.NewID()
	}
	asset.CreatedAt = now()
	asset.UpdatedAt = asset.CreatedAt
	return insertDoc(ctx, r.mediaAssets(), asset)
}

func (r *Repository) GetMediaAsset(ctx context.Context, id string) (*entity.DbMediaAsset, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbMediaAsset](ctx, r.mediaAssets(), bson.M{"_id": id})
}

// ListMediaAssets returns assets newest first.
func (r *Repository) ListMediaAssets(ctx context.Context, params *entity.MediaQuery) ([]entity.DbMediaAsset, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.MediaQuery{}
	}
	params.Normalize(40, 200)

	filter := bson.M{}
	if search := strings.TrimSpace(params.Search); search != "" {
		filter = containsFilter([]string{"original_name", "filename"}, search)
	}
	if kind := strings.TrimSpace(params.Kind); kind != "" {
		filter["kind"] = kind
	}
	return findPage[entity.DbMediaAsset](ctx, r.mediaAssets(), filter, &params.BaseParams)
}

func (r *Repository) DeleteMediaAsset(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteByID(ctx, r.mediaAssets(), id)
}

func (r *Repository) ownerInfo() *mongo.Collection {
	return r.collection(entity.DbOwnerInfo{}.TableName())
}

func (r *Repository) GetOwnerInfo(ctx context.Context) (*entity.DbOwnerInfo, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return findOne[entity.DbOwnerInfo](ctx, r.ownerInfo(), bson.M{"_id": entity.OwnerInfoID})
}

// SaveOwnerInfo upserts the owner record.
func (r *Repository) SaveOwnerInfo(ctx context.Context, info *entity.DbOwnerInfo) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if info == nil {
		return fmt.Errorf("owner info is nil")
	}
	info.ID = entity.OwnerInfoID
	info.UpdatedAt = now()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = info.UpdatedAt
	}
	_, err := r.ownerInfo().ReplaceOne(ctx, bson.M{"_id": info.ID}, info, options.Replace().SetUpsert(true))
	return translateError(err)
}
