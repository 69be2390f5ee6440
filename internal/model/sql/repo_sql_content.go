package sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"gorm.io/gorm"
)

// contentListing describes how a content table is searched.
type contentListing struct {
	searchColumns []string
	hasCategory   bool
}

var (
	projectListing  = contentListing{searchColumns: []string{"title", "summary"}, hasCategory: true}
	categoryListing = contentListing{searchColumns: []string{"name", "description"}}
	serviceListing  = contentListing{searchColumns: []string{"title", "description"}}
)

func createRecord[T any](db *gorm.DB, record *T) error {
	return translateError(db.Create(record).Error)
}

func saveRecord[T any](db *gorm.DB, record *T) error {
	return translateError(db.Save(record).Error)
}

func getRecord[T any](db *gorm.DB, column, value string) (*T, error) {
	if strings.TrimSpace(value) == "" {
		return nil, entity.ErrNotFound
	}
	var record T
	if err := db.Where(fmt.Sprintf("%s = ?", column), value).First(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

func deleteRecord[T any](db *gorm.DB, id string) error {
	if strings.TrimSpace(id) == "" {
		return entity.ErrNotFound
	}
	result := db.Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *GormRepository) listRecords(db *gorm.DB, model interface{}, out interface{}, listing contentListing, params *entity.ContentQuery) (*entity.Meta, error) {
	params.Normalize(20, 100)

	query := db.Model(model)
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := likePattern(search)
		clauses := make([]string, 0, len(listing.searchColumns))
		args := make([]interface{}, 0, len(listing.searchColumns))
		for _, column := range listing.searchColumns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", column))
			args = append(args, pattern)
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}
	if listing.hasCategory {
		if categoryID := strings.TrimSpace(params.CategoryID); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}
	}
	if params.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := query.Order("created_at DESC").Order("id").
		Offset(int(params.Offset())).Limit(int(params.PageSize)).
		Find(out).Error; err != nil {
		return nil, err
	}
	return r.calculatePagination(total, params.Page, params.PageSize), nil
}

// CreateProject inserts a project.
func (r *GormRepository) CreateProject(ctx context.Context, project *entity.DbProject) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if project == nil {
		return fmt.Errorf("project is nil")
	}
	if project.ID == "" {
		project.ID = entity.NewID()
	}
	return createRecord(r.db.WithContext(ctx), project)
}

// SaveProject writes every column of an existing project.
func (r *GormRepository) SaveProject(ctx context.Context, project *entity.DbProject) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if project == nil || project.ID == "" {
		return fmt.Errorf("invalid project")
	}
	return saveRecord(r.db.WithContext(ctx), project)
}

func (r *GormRepository) GetProject(ctx context.Context, id string) (*entity.DbProject, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbProject](r.db.WithContext(ctx), "id", id)
}

func (r *GormRepository) GetProjectBySlug(ctx context.Context, slug string) (*entity.DbProject, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbProject](r.db.WithContext(ctx), "slug", slug)
}

// ListProjects returns projects newest first.
func (r *GormRepository) ListProjects(ctx context.Context, params *entity.ContentQuery) ([]entity.DbProject, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.ContentQuery{}
	}
	var projects []entity.DbProject
	meta, err := r.listRecords(r.db.WithContext(ctx), &entity.DbProject{}, &projects, projectListing, params)
	if err != nil {
		return nil, nil, err
	}
	return projects, meta, nil
}

func (r *GormRepository) DeleteProject(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteRecord[entity.DbProject](r.db.WithContext(ctx), id)
}

// CreateCategory inserts a category.
func (r *GormRepository) CreateCategory(ctx context.Context, category *entity.DbCategory) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if category == nil {
		return fmt.Errorf("category is nil")
	}
	if category.ID == "" {
		category.ID = entity.NewID()
	}
	return createRecord(r.db.WithContext(ctx), category)
}

func (r *GormRepository) SaveCategory(ctx context.Context, category *entity.DbCategory) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if category == nil || category.ID == "" {
		return fmt.Errorf("invalid category")
	}
	return saveRecord(r.db.WithContext(ctx), category)
}

func (r *GormRepository) GetCategory(ctx context.Context, id string) (*entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbCategory](r.db.WithContext(ctx), "id", id)
}

func (r *GormRepository) GetCategoryBySlug(ctx context.Context, slug string) (*entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbCategory](r.db.WithContext(ctx), "slug", slug)
}

func (r *GormRepository) ListCategories(ctx context.Context, params *entity.ContentQuery) ([]entity.DbCategory, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.ContentQuery{}
	}
	var categories []entity.DbCategory
	meta, err := r.listRecords(r.db.WithContext(ctx), &entity.DbCategory{}, &categories, categoryListing, params)
	if err != nil {
		return nil, nil, err
	}
	return categories, meta, nil
}

func (r *GormRepository) DeleteCategory(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteRecord[entity.DbCategory](r.db.WithContext(ctx), id)
}

// CreateService inserts a service.
func (r *GormRepository) CreateService(ctx context.Context, service *entity.DbService) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if service == nil {
		return fmt.Errorf("service is nil")
	}
	if service.ID == "" {
		service.ID = entity.NewID()
	}
	return createRecord(r.db.WithContext(ctx), service)
}

func (r *GormRepository) SaveService(ctx context.Context, service *entity.DbService) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if service == nil || service.ID == "" {
		return fmt.Errorf("invalid service")
	}
	return saveRecord(r.db.WithContext(ctx), service)
}

func (r *GormRepository) GetService(ctx context.Context, id string) (*entity.DbService, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbService](r.db.WithContext(ctx), "id", id)
}

func (r *GormRepository) GetServiceBySlug(ctx context.Context, slug string) (*entity.DbService, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbService](r.db.WithContext(ctx), "slug", slug)
}

func (r *GormRepository) ListServices(ctx context.Context, params *entity.ContentQuery) ([]entity.DbService, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.ContentQuery{}
	}
	var services []entity.DbService
	meta, err := r.listRecords(r.db.WithContext(ctx), &entity.DbService{}, &services, serviceListing, params)
	if err != nil {
		return nil, nil, err
	}
	return services, meta, nil
}

func (r *GormRepository) DeleteService(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteRecord[entity.DbService](r.db.WithContext(ctx), id)
}
