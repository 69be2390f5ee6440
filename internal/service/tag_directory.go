package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/apperr"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"github.com/sirupsen/logrus"
)

// TagStore is the tag CRUD subset of the repository.
type TagStore interface {
	CreateTag(ctx context.Context, tag *entity.DbMediaTag) error
	GetTag(ctx context.Context, id string) (*entity.DbMediaTag, error)
	ListTags(ctx context.Context, params *entity.TagQuery) ([]entity.DbMediaTag, *entity.Meta, error)
	UpdateTag(ctx context.Context, id string, updates entity.TagUpdates) error
	DeleteTag(ctx context.Context, id string) error
}

// tagInput 校验标签名称与描述
type tagInput struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// TagDirectory 标签目录服务
type TagDirectory struct {
	store TagStore
	mode  string
}

// NewTagDirectory 创建标签目录服务
func NewTagDirectory(store TagStore, mode string) *TagDirectory {
	if mode != entity.MediaCountDerived {
		mode = entity.MediaCountStored
	}
	return &TagDirectory{store: store, mode: mode}
}

// Create adds a tag. The slug is derived from the name.
func (d *TagDirectory) Create(ctx context.Context, caller Caller, req entity.TagCreateRequest) (*entity.DbMediaTag, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	input := tagInput{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
	if err := apperr.ValidateStruct(input); err != nil {
		return nil, err
	}
	slug, err := tagSlug(input.Name)
	if err != nil {
		return nil, err
	}

	tag := &entity.DbMediaTag{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		IsActive:    true,
		MediaFiles:  entity.StringArray{},
		CreatedBy:   caller.ID,
		UpdatedBy:   caller.ID,
	}
	if err := d.store.CreateTag(ctx, tag); err != nil {
		return nil, translateTagError(err, "failed to create tag")
	}
	logrus.WithFields(logrus.Fields{"tag_id": tag.ID, "name": tag.Name}).Info("tag created")
	return tag, nil
}

// List returns a page of tags, newest first.
func (d *TagDirectory) List(ctx context.Context, query entity.TagQuery) ([]entity.DbMediaTag, *entity.Meta, error) {
	query.Search = strings.TrimSpace(query.Search)
	if query.Limit > 0 {
		query.PageSize = query.Limit
	}
	tags, meta, err := d.store.ListTags(ctx, &query)
	if err != nil {
		return nil, nil, apperr.Internal(err, "failed to list tags")
	}
	if tags == nil {
		tags = []entity.DbMediaTag{}
	}
	return tags, meta, nil
}

// Get returns one tag.
func (d *TagDirectory) Get(ctx context.Context, id string) (*entity.DbMediaTag, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.MissingField("id", "tag id is required")
	}
	tag, err := d.store.GetTag(ctx, id)
	if err != nil {
		return nil, translateTagError(err, "failed to load tag")
	}
	return tag, nil
}

// Update applies a partial update. A new name re-derives the slug.
func (d *TagDirectory) Update(ctx context.Context, caller Caller, id string, req entity.TagUpdateRequest) (*entity.DbMediaTag, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	existing, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	input := tagInput{Name: existing.Name, Description: existing.Description}
	updates := entity.TagUpdates{IsActive: req.IsActive, UpdatedBy: &caller.ID}
	if req.Name != nil {
		input.Name = strings.TrimSpace(*req.Name)
		slug, err := tagSlug(input.Name)
		if err != nil && input.Name != "" {
			return nil, err
		}
		updates.Name = &input.Name
		updates.Slug = &slug
	}
	if req.Description != nil {
		input.Description = strings.TrimSpace(*req.Description)
		updates.Description = &input.Description
	}
	if err := apperr.ValidateStruct(input); err != nil {
		return nil, err
	}

	if err := d.store.UpdateTag(ctx, existing.ID, updates); err != nil {
		return nil, translateTagError(err, "failed to update tag")
	}
	return d.Get(ctx, existing.ID)
}

// Delete removes a tag. Tags still holding media are refused, not cascaded.
func (d *TagDirectory) Delete(ctx context.Context, caller Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	tag, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if tag.InUse(d.mode) {
		return apperr.Conflict(apperr.CodeTagInUse, "tag is in use").
			WithStatus(http.StatusBadRequest).
			WithDetails(map[string]int64{"media_count": tagMediaCount(tag, d.mode)})
	}
	if err := d.store.DeleteTag(ctx, tag.ID); err != nil {
		return translateTagError(err, "failed to delete tag")
	}
	logrus.WithFields(logrus.Fields{"tag_id": tag.ID, "user_id": caller.ID}).Info("tag deleted")
	return nil
}

func tagMediaCount(tag *entity.DbMediaTag, mode string) int64 {
	if mode == entity.MediaCountDerived {
		return int64(len(tag.MediaFiles))
	}
	return tag.MediaCount
}

func tagSlug(name string) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		return "", apperr.Validation("name must contain letters or digits").
			WithDetails(map[string]string{"name": "name must contain letters or digits"})
	}
	return slug, nil
}

func translateTagError(err error, message string) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return apperr.NotFound(apperr.CodeTagNotFound, "tag not found")
	case errors.Is(err, entity.ErrDuplicate):
		return apperr.Conflict(apperr.CodeDuplicate, "a tag with this name already exists")
	default:
		return apperr.Internal(err, message)
	}
}
