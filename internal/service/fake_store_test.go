package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"
)

// fakeStore is an in-memory repository used by the service tests.
type fakeStore struct {
	mu sync.Mutex

	projects   []*entity.DbProject
	categories []*entity.DbCategory
	services   []*entity.DbService
	tags       map[string]*entity.DbMediaTag
	assets     map[string]*entity.DbMediaAsset
	owner      *entity.DbOwnerInfo

	usageErr  error
	attachErr error
	// usageCalls counts FindUsage invocations.
	usageCalls int
	ownerReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tags:   make(map[string]*entity.DbMediaTag),
		assets: make(map[string]*entity.DbMediaAsset),
	}
}

func (f *fakeStore) FindUsage(ctx context.Context, query entity.UsageQuery) ([]entity.UsageItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageCalls++
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	items := []entity.UsageItem{}
	switch query.Collection {
	case entity.CollectionProjects:
		for _, p := range f.projects {
			if query.Matches(p) {
				items = append(items, p.UsageItem())
			}
		}
	case entity.CollectionCategories:
		for _, c := range f.categories {
			if query.Matches(c) {
				items = append(items, c.UsageItem())
			}
		}
	case entity.CollectionServices:
		for _, s := range f.services {
			if query.Matches(s) {
				items = append(items, s.UsageItem())
			}
		}
	}
	return items, nil
}

func (f *fakeStore) addTag(tag *entity.DbMediaTag) *entity.DbMediaTag {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tag.ID == "" {
		tag.ID = entity.NewID()
	}
	if tag.MediaFiles == nil {
		tag.MediaFiles = entity.StringArray{}
	}
	f.tags[tag.ID] = tag
	return tag
}

// tagsHolding returns the sorted ids of tags whose files include url.
func (f *fakeStore) tagsHolding(url string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for id, tag := range f.tags {
		if tag.MediaFiles.Contains(url) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeStore) DetachMediaFromTags(ctx context.Context, mediaURL string, keepIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keep := make(map[string]bool, len(keepIDs))
	for _, id := range keepIDs {
		keep[id] = true
	}
	changed := []string{}
	for id, tag := range f.tags {
		if keep[id] || !tag.MediaFiles.Contains(mediaURL) {
			continue
		}
		files := entity.StringArray{}
		for _, file := range tag.MediaFiles {
			if file != mediaURL {
				files = append(files, file)
			}
		}
		tag.MediaFiles = files
		changed = append(changed, id)
	}
	return changed, nil
}

func (f *fakeStore) AttachMediaToTags(ctx context.Context, mediaURL string, tagIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return nil, f.attachErr
	}
	existing := []string{}
	for _, id := range tagIDs {
		tag, ok := f.tags[id]
		if !ok {
			continue
		}
		existing = append(existing, id)
		if !tag.MediaFiles.Contains(mediaURL) {
			tag.MediaFiles = append(tag.MediaFiles, mediaURL)
		}
	}
	return existing, nil
}

func (f *fakeStore) FindTagsForMedia(ctx context.Context, mediaURL string, tagIDs []string) ([]entity.DbMediaTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		wanted[id] = true
	}
	out := []entity.DbMediaTag{}
	for id, tag := range f.tags {
		if wanted[id] || tag.MediaFiles.Contains(mediaURL) {
			out = append(out, *tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) RecountTagMedia(ctx context.Context, tagIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range tagIDs {
		if tag, ok := f.tags[id]; ok {
			tag.MediaCount = int64(len(tag.MediaFiles))
		}
	}
	return nil
}

func (f *fakeStore) CreateTag(ctx context.Context, tag *entity.DbMediaTag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tags {
		if existing.Name == tag.Name || existing.Slug == tag.Slug {
			return entity.ErrDuplicate
		}
	}
	if tag.ID == "" {
		tag.ID = entity.NewID()
	}
	stored := *tag
	f.tags[tag.ID] = &stored
	return nil
}

func (f *fakeStore) GetTag(ctx context.Context, id string) (*entity.DbMediaTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tag, ok := f.tags[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	out := *tag
	return &out, nil
}

func (f *fakeStore) ListTags(ctx context.Context, params *entity.TagQuery) ([]entity.DbMediaTag, *entity.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.DbMediaTag{}
	for _, tag := range f.tags {
		out = append(out, *tag)
	}
	return out, &entity.Meta{Page: 1, PageSize: params.PageSize, Total: int64(len(out))}, nil
}

func (f *fakeStore) UpdateTag(ctx context.Context, id string, updates entity.TagUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tag, ok := f.tags[id]
	if !ok {
		return entity.ErrNotFound
	}
	if updates.Name != nil {
		for otherID, other := range f.tags {
			if otherID != id && other.Name == *updates.Name {
				return entity.ErrDuplicate
			}
		}
		tag.Name = *updates.Name
	}
	if updates.Slug != nil {
		tag.Slug = *updates.Slug
	}
	if updates.Description != nil {
		tag.Description = *updates.Description
	}
	if updates.IsActive != nil {
		tag.IsActive = *updates.IsActive
	}
	return nil
}

func (f *fakeStore) DeleteTag(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.tags, id)
	return nil
}

func (f *fakeStore) CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *asset
	f.assets[asset.ID] = &stored
	return nil
}

func (f *fakeStore) GetMediaAsset(ctx context.Context, id string) (*entity.DbMediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	out := *asset
	return &out, nil
}

func (f *fakeStore) ListMediaAssets(ctx context.Context, params *entity.MediaQuery) ([]entity.DbMediaAsset, *entity.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.DbMediaAsset{}
	for _, asset := range f.assets {
		out = append(out, *asset)
	}
	return out, &entity.Meta{Page: 1, PageSize: params.PageSize, Total: int64(len(out))}, nil
}

func (f *fakeStore) DeleteMediaAsset(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assets[id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.assets, id)
	return nil
}

func (f *fakeStore) GetOwnerInfo(ctx context.Context) (*entity.DbOwnerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerReads++
	if f.owner == nil {
		return nil, entity.ErrNotFound
	}
	out := *f.owner
	return &out, nil
}

func (f *fakeStore) SaveOwnerInfo(ctx context.Context, info *entity.DbOwnerInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *info
	stored.ID = entity.OwnerInfoID
	f.owner = &stored
	return nil
}

// content

func (f *fakeStore) CreateProject(ctx context.Context, p *entity.DbProject) error {
	return createContent(&f.mu, &f.projects, p, func(x *entity.DbProject) (*string, string) { return &x.ID, x.Slug })
}

func (f *fakeStore) SaveProject(ctx context.Context, p *entity.DbProject) error {
	return saveContent(&f.mu, f.projects, p, func(x *entity.DbProject) string { return x.ID })
}

func (f *fakeStore) GetProject(ctx context.Context, id string) (*entity.DbProject, error) {
	return findContent(&f.mu, f.projects, func(x *entity.DbProject) bool { return x.ID == id })
}

func (f *fakeStore) GetProjectBySlug(ctx context.Context, slug string) (*entity.DbProject, error) {
	return findContent(&f.mu, f.projects, func(x *entity.DbProject) bool { return x.Slug == slug })
}

func (f *fakeStore) ListProjects(ctx context.Context, params *entity.ContentQuery) ([]entity.DbProject, *entity.Meta, error) {
	return listContent(&f.mu, f.projects, params, func(x *entity.DbProject) bool { return x.IsPublished })
}

func (f *fakeStore) DeleteProject(ctx context.Context, id string) error {
	return deleteContent(&f.mu, &f.projects, func(x *entity.DbProject) bool { return x.ID == id })
}

func (f *fakeStore) CreateCategory(ctx context.Context, c *entity.DbCategory) error {
	return createContent(&f.mu, &f.categories, c, func(x *entity.DbCategory) (*string, string) { return &x.ID, x.Slug })
}

func (f *fakeStore) SaveCategory(ctx context.Context, c *entity.DbCategory) error {
	return saveContent(&f.mu, f.categories, c, func(x *entity.DbCategory) string { return x.ID })
}

func (f *fakeStore) GetCategory(ctx context.Context, id string) (*entity.DbCategory, error) {
	return findContent(&f.mu, f.categories, func(x *entity.DbCategory) bool { return x.ID == id })
}

func (f *fakeStore) GetCategoryBySlug(ctx context.Context, slug string) (*entity.DbCategory, error) {
	return findContent(&f.mu, f.categories, func(x *entity.DbCategory) bool { return x.Slug == slug })
}

func (f *fakeStore) ListCategories(ctx context.Context, params *entity.ContentQuery) ([]entity.DbCategory, *entity.Meta, error) {
	return listContent(&f.mu, f.categories, params, func(x *entity.DbCategory) bool { return x.IsPublished })
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	return deleteContent(&f.mu, &f.categories, func(x *entity.DbCategory) bool { return x.ID == id })
}

func (f *fakeStore) CreateService(ctx context.Context, s *entity.DbService) error {
	return createContent(&f.mu, &f.services, s, func(x *entity.DbService) (*string, string) { return &x.ID, x.Slug })
}

func (f *fakeStore) SaveService(ctx context.Context, s *entity.DbService) error {
	return saveContent(&f.mu, f.services, s, func(x *entity.DbService) string { return x.ID })
}

func (f *fakeStore) GetService(ctx context.Context, id string) (*entity.DbService, error) {
	return findContent(&f.mu, f.services, func(x *entity.DbService) bool { return x.ID == id })
}

func (f *fakeStore) GetServiceBySlug(ctx context.Context, slug string) (*entity.DbService, error) {
	return findContent(&f.mu, f.services, func(x *entity.DbService) bool { return x.Slug == slug })
}

func (f *fakeStore) ListServices(ctx context.Context, params *entity.ContentQuery) ([]entity.DbService, *entity.Meta, error) {
	return listContent(&f.mu, f.services, params, func(x *entity.DbService) bool { return x.IsPublished })
}

func (f *fakeStore) DeleteService(ctx context.Context, id string) error {
	return deleteContent(&f.mu, &f.services, func(x *entity.DbService) bool { return x.ID == id })
}

func createContent[T any](mu *sync.Mutex, records *[]*T, rec *T, key func(*T) (*string, string)) error {
	mu.Lock()
	defer mu.Unlock()
	id, slug := key(rec)
	for _, existing := range *records {
		if _, otherSlug := key(existing); otherSlug == slug {
			return entity.ErrDuplicate
		}
	}
	if *id == "" {
		*id = entity.NewID()
	}
	stored := *rec
	*records = append(*records, &stored)
	return nil
}

func saveContent[T any](mu *sync.Mutex, records []*T, rec *T, idOf func(*T) string) error {
	mu.Lock()
	defer mu.Unlock()
	for i := range records {
		if idOf(records[i]) == idOf(rec) {
			*records[i] = *rec
			return nil
		}
	}
	return entity.ErrNotFound
}

func findContent[T any](mu *sync.Mutex, records []*T, match func(*T) bool) (*T, error) {
	mu.Lock()
	defer mu.Unlock()
	for _, rec := range records {
		if match(rec) {
			out := *rec
			return &out, nil
		}
	}
	return nil, entity.ErrNotFound
}

func listContent[T any](mu *sync.Mutex, records []*T, params *entity.ContentQuery, published func(*T) bool) ([]T, *entity.Meta, error) {
	mu.Lock()
	defer mu.Unlock()
	out := []T{}
	for _, rec := range records {
		if params.PublishedOnly && !published(rec) {
			continue
		}
		out = append(out, *rec)
	}
	return out, &entity.Meta{Page: 1, PageSize: int64(len(out)), Total: int64(len(out))}, nil
}

func deleteContent[T any](mu *sync.Mutex, records *[]*T, match func(*T) bool) error {
	mu.Lock()
	defer mu.Unlock()
	for i, rec := range *records {
		if match(rec) {
			*records = append((*records)[:i], (*records)[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

var errBackend = errors.New("backend unavailable")

var admin = Caller{ID: "admin-1", Role: entity.UserRoleAdmin}
