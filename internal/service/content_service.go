package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/sirupsen/logrus"
)

const maxTitleLength = 200

// ContentStore is the content subset of the repository.
type ContentStore interface {
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
}

type contentOps[T any] struct {
	create    func(context.Context, *T) error
	save      func(context.Context, *T) error
	get       func(context.Context, string) (*T, error)
	getBySlug func(context.Context, string) (*T, error)
	list      func(context.Context, *entity.ContentQuery) ([]T, *entity.Meta, error)
	remove    func(context.Context, string) error
}

// ContentCollection serves one kind of site content. Visitors only see
// published records; admins see everything.
type ContentCollection[T any, R any] struct {
	noun      string
	ops       contentOps[T]
	apply     func(rec *T, req R, creating bool) error
	idOf      func(*T) string
	published func(*T) bool
}

// ContentService 站点内容（项目、分类、服务）的增删改查
type ContentService struct {
	Projects   *ContentCollection[entity.DbProject, entity.ProjectRequest]
	Categories *ContentCollection[entity.DbCategory, entity.CategoryRequest]
	Services   *ContentCollection[entity.DbService, entity.ServiceRequest]
}

// NewContentService 创建内容服务
func NewContentService(store ContentStore) *ContentService {
	return &ContentService{
		Projects: &ContentCollection[entity.DbProject, entity.ProjectRequest]{
			noun: "project",
			ops: contentOps[entity.DbProject]{
				create:    store.CreateProject,
				save:      store.SaveProject,
				get:       store.GetProject,
				getBySlug: store.GetProjectBySlug,
				list:      store.ListProjects,
				remove:    store.DeleteProject,
			},
			apply:     applyProjectRequest,
			idOf:      func(p *entity.DbProject) string { return p.ID },
			published: func(p *entity.DbProject) bool { return p.IsPublished },
		},
		Categories: &ContentCollection[entity.DbCategory, entity.CategoryRequest]{
			noun: "category",
			ops: contentOps[entity.DbCategory]{
				create:    store.CreateCategory,
				save:      store.SaveCategory,
				get:       store.GetCategory,
				getBySlug: store.GetCategoryBySlug,
				list:      store.ListCategories,
				remove:    store.DeleteCategory,
			},
			apply:     applyCategoryRequest,
			idOf:      func(c *entity.DbCategory) string { return c.ID },
			published: func(c *entity.DbCategory) bool { return c.IsPublished },
		},
		Services: &ContentCollection[entity.DbService, entity.ServiceRequest]{
			noun: "service",
			ops: contentOps[entity.DbService]{
				create:    store.CreateService,
				save:      store.SaveService,
				get:       store.GetService,
				getBySlug: store.GetServiceBySlug,
				list:      store.ListServices,
				remove:    store.DeleteService,
			},
			apply:     applyServiceRequest,
			idOf:      func(s *entity.DbService) string { return s.ID },
			published: func(s *entity.DbService) bool { return s.IsPublished },
		},
	}
}

// List returns a page of records, newest first.
func (c *ContentCollection[T, R]) List(ctx context.Context, caller Caller, query entity.ContentQuery) ([]T, *entity.Meta, error) {
	query.PublishedOnly = !caller.IsAdmin()
	records, meta, err := c.ops.list(ctx, &query)
	if err != nil {
		return nil, nil, apperr.Internal(err, fmt.Sprintf("failed to list %s records", c.noun))
	}
	if records == nil {
		records = []T{}
	}
	return records, meta, nil
}

// Get looks a record up by id, then by slug.
func (c *ContentCollection[T, R]) Get(ctx context.Context, caller Caller, idOrSlug string) (*T, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, apperr.MissingField("id", c.noun+" id is required")
	}
	rec, err := c.ops.get(ctx, idOrSlug)
	if errors.Is(err, entity.ErrNotFound) {
		rec, err = c.ops.getBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, c.translate(err, "failed to load "+c.noun)
	}
	if !caller.IsAdmin() && !c.published(rec) {
		return nil, c.notFound()
	}
	return rec, nil
}

// Create validates req and stores a new record.
func (c *ContentCollection[T, R]) Create(ctx context.Context, caller Caller, req R) (*T, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	rec := new(T)
	if err := c.apply(rec, req, true); err != nil {
		return nil, err
	}
	if err := c.ops.create(ctx, rec); err != nil {
		return nil, c.translate(err, "failed to create "+c.noun)
	}
	logrus.WithFields(logrus.Fields{"kind": c.noun, "id": c.idOf(rec), "user_id": caller.ID}).Info("content created")
	return rec, nil
}

// Update applies the fields present in req to an existing record.
func (c *ContentCollection[T, R]) Update(ctx context.Context, caller Caller, id string, req R) (*T, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	rec, err := c.ops.get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, c.translate(err, "failed to load "+c.noun)
	}
	if err := c.apply(rec, req, false); err != nil {
		return nil, err
	}
	if err := c.ops.save(ctx, rec); err != nil {
		return nil, c.translate(err, "failed to update "+c.noun)
	}
	return rec, nil
}

// Delete removes a record by id.
func (c *ContentCollection[T, R]) Delete(ctx context.Context, caller Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := c.ops.remove(ctx, strings.TrimSpace(id)); err != nil {
		return c.translate(err, "failed to delete "+c.noun)
	}
	logrus.WithFields(logrus.Fields{"kind": c.noun, "id": id, "user_id": caller.ID}).Info("content deleted")
	return nil
}

func (c *ContentCollection[T, R]) notFound() error {
	return apperr.NotFound(apperr.CodeNotFound, c.noun+" not found")
}

func (c *ContentCollection[T, R]) translate(err error, message string) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return c.notFound()
	case errors.Is(err, entity.ErrDuplicate):
		return apperr.Conflict(apperr.CodeDuplicate, fmt.Sprintf("a %s with this slug already exists", c.noun))
	default:
		return apperr.Internal(err, message)
	}
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// requireTitle 检查标题类字段非空且不超长
func requireTitle(field, value string) error {
	if value == "" {
		return apperr.MissingField(field, field+" is required")
	}
	if utf8.RuneCountInString(value) > maxTitleLength {
		return apperr.Validation(fmt.Sprintf("%s must be at most %d characters", field, maxTitleLength)).
			WithDetails(map[string]string{"field": field})
	}
	return nil
}

// deriveSlug 优先使用显式 slug；否则在新建或标题变化时由标题重新生成
func deriveSlug(slug *string, explicit *string, source string, sourceChanged bool) error {
	switch {
	case explicit != nil && strings.TrimSpace(*explicit) != "":
		*slug = Slugify(*explicit)
	case sourceChanged || *slug == "":
		*slug = Slugify(source)
	}
	if *slug == "" {
		return apperr.Validation("slug must contain letters or digits").
			WithDetails(map[string]string{"field": "slug"})
	}
	return nil
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func applyProjectRequest(p *entity.DbProject, req entity.ProjectRequest, creating bool) error {
	setTrimmed(&p.Title, req.Title)
	setTrimmed(&p.Summary, req.Summary)
	setTrimmed(&p.CategoryID, req.CategoryID)
	setTrimmed(&p.Thumbnail, req.Thumbnail)
	setTrimmed(&p.HeroImage, req.HeroImage)
	if req.Gallery != nil {
		p.Gallery = compactStrings(*req.Gallery)
	}
	if req.Testimonial != nil {
		p.Testimonial = *req.Testimonial
	}
	if req.SEO != nil {
		p.SEO = *req.SEO
	}
	if req.IsPublished != nil {
		p.IsPublished = *req.IsPublished
	}
	if err := requireTitle("title", p.Title); err != nil {
		return err
	}
	return deriveSlug(&p.Slug, req.Slug, p.Title, creating || req.Title != nil)
}

func applyCategoryRequest(c *entity.DbCategory, req entity.CategoryRequest, creating bool) error {
	setTrimmed(&c.Name, req.Name)
	setTrimmed(&c.Description, req.Description)
	setTrimmed(&c.Image, req.Image)
	if req.IsPublished != nil {
		c.IsPublished = *req.IsPublished
	}
	if err := requireTitle("name", c.Name); err != nil {
		return err
	}
	return deriveSlug(&c.Slug, req.Slug, c.Name, creating || req.Name != nil)
}

func applyServiceRequest(s *entity.DbService, req entity.ServiceRequest, creating bool) error {
	setTrimmed(&s.Title, req.Title)
	setTrimmed(&s.Description, req.Description)
	setTrimmed(&s.Price, req.Price)
	setTrimmed(&s.Image, req.Image)
	if req.Instructors != nil {
		instructors := make(entity.Instructors, 0, len(*req.Instructors))
		for _, in := range *req.Instructors {
			in.Name = strings.TrimSpace(in.Name)
			if in.Name == "" {
				continue
			}
			in.Role = strings.TrimSpace(in.Role)
			in.Image = strings.TrimSpace(in.Image)
			instructors = append(instructors, in)
		}
		s.Instructors = instructors
	}
	if req.IsPublished != nil {
		s.IsPublished = *req.IsPublished
	}
	if err := requireTitle("title", s.Title); err != nil {
		return err
	}
	return deriveSlug(&s.Slug, req.Slug, s.Title, creating || req.Title != nil)
}
