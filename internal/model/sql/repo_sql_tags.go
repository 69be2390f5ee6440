package sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateTag inserts a new tag together with any initial media files.
func (r *GormRepository) CreateTag(ctx context.Context, tag *entity.DbMediaTag) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if tag == nil {
		return fmt.Errorf("tag is nil")
	}
	if tag.ID == "" {
		tag.ID = entity.NewID()
	}

	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tag).Error; err != nil {
			return err
		}
		files := tagFileRows(tag.ID, tag.MediaFiles)
		if len(files) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&files).Error
	}))
}

// GetTag loads a tag and its media files.
func (r *GormRepository) GetTag(ctx context.Context, id string) (*entity.DbMediaTag, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	if strings.TrimSpace(id) == "" {
		return nil, entity.ErrNotFound
	}

	db := r.db.WithContext(ctx)
	var tag entity.DbMediaTag
	if err := db.Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, translateError(err)
	}
	tags := []entity.DbMediaTag{tag}
	if err := loadMediaFiles(db, tags); err != nil {
		return nil, err
	}
	return &tags[0], nil
}

// ListTags returns tags newest first, optionally filtered by name.
func (r *GormRepository) ListTags(ctx context.Context, params *entity.TagQuery) ([]entity.DbMediaTag, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.TagQuery{}
	}
	params.Normalize(50, 200)

	db := r.db.WithContext(ctx)
	query := db.Model(&entity.DbMediaTag{})
	if search := strings.TrimSpace(params.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var tags []entity.DbMediaTag
	if err := query.Order("created_at DESC").Order("id").
		Offset(int(params.Offset())).Limit(int(params.PageSize)).
		Find(&tags).Error; err != nil {
		return nil, nil, err
	}
	if err := loadMediaFiles(db, tags); err != nil {
		return nil, nil, err
	}

	return tags, r.calculatePagination(total, params.Page, params.PageSize), nil
}

// UpdateTag updates tag fields.
func (r *GormRepository) UpdateTag(ctx context.Context, id string, updates entity.TagUpdates) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if strings.TrimSpace(id) == "" {
		return entity.ErrNotFound
	}
	if updates.IsEmpty() {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&entity.DbMediaTag{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// DeleteTag removes a tag and its file associations.
func (r *GormRepository) DeleteTag(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if strings.TrimSpace(id) == "" {
		return entity.ErrNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&entity.DbMediaTagFile{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&entity.DbMediaTag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

// DetachMediaFromTags removes mediaURL from every tag holding it whose id is
// not in keepIDs. It returns the ids of the tags it changed.
func (r *GormRepository) DetachMediaFromTags(ctx context.Context, mediaURL string, keepIDs []string) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	keep := normalizeIDs(keepIDs)

	var detached []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&entity.DbMediaTagFile{}).Where("media_url = ?", mediaURL)
		if len(keep) > 0 {
			query = query.Where("tag_id NOT IN ?", keep)
		}
		if err := query.Pluck("tag_id", &detached).Error; err != nil {
			return err
		}
		if len(detached) == 0 {
			return nil
		}
		if err := tx.Where("media_url = ? AND tag_id IN ?", mediaURL, detached).
			Delete(&entity.DbMediaTagFile{}).Error; err != nil {
			return err
		}
		return touchTags(tx, detached)
	})
	if err != nil {
		return nil, err
	}
	return detached, nil
}

// AttachMediaToTags adds mediaURL to each existing tag in tagIDs. Unknown ids
// are ignored. It returns the ids of the tags that exist.
func (r *GormRepository) AttachMediaToTags(ctx context.Context, mediaURL string, tagIDs []string) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	ids := normalizeIDs(tagIDs)
	if len(ids) == 0 {
		return []string{}, nil
	}

	var existing []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.DbMediaTag{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if len(existing) == 0 {
			return nil
		}

		rows := make([]entity.DbMediaTagFile, 0, len(existing))
		for _, id := range existing {
			rows = append(rows, entity.DbMediaTagFile{TagID: id, MediaURL: mediaURL})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
		return touchTags(tx, existing)
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// FindTagsForMedia returns the tags listed in tagIDs plus every tag that
// references mediaURL, newest first.
func (r *GormRepository) FindTagsForMedia(ctx context.Context, mediaURL string, tagIDs []string) ([]entity.DbMediaTag, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	ids := normalizeIDs(tagIDs)
	db := r.db.WithContext(ctx)

	referencing := db.Model(&entity.DbMediaTagFile{}).Select("tag_id").Where("media_url = ?", mediaURL)
	query := db.Model(&entity.DbMediaTag{})
	if len(ids) > 0 {
		query = query.Where("id IN ? OR id IN (?)", ids, referencing)
	} else {
		query = query.Where("id IN (?)", referencing)
	}

	var tags []entity.DbMediaTag
	if err := query.Order("created_at DESC").Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	if err := loadMediaFiles(db, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// RecountTagMedia sets media_count to the number of associated files.
func (r *GormRepository) RecountTagMedia(ctx context.Context, tagIDs []string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	ids := normalizeIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbMediaTag{}).
		Where("id IN ?", ids).
		UpdateColumn("media_count", gorm.Expr(
			"(SELECT COUNT(*) FROM media_tag_files WHERE media_tag_files.tag_id = media_tags.id)",
		)).Error
}

func touchTags(tx *gorm.DB, ids []string) error {
	return tx.Model(&entity.DbMediaTag{}).Where("id IN ?", ids).
		UpdateColumn("updated_at", tx.NowFunc()).Error
}

// loadMediaFiles fills MediaFiles for tags in place.
func loadMediaFiles(db *gorm.DB, tags []entity.DbMediaTag) error {
	if len(tags) == 0 {
		return nil
	}
	ids := make([]string, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}

	var rows []entity.DbMediaTagFile
	if err := db.Where("tag_id IN ?", ids).Order("created_at").Order("media_url").Find(&rows).Error; err != nil {
		return err
	}
	files := make(map[string]entity.StringArray, len(tags))
	for _, row := range rows {
		files[row.TagID] = append(files[row.TagID], row.MediaURL)
	}
	for i := range tags {
		tags[i].MediaFiles = files[tags[i].ID]
		if tags[i].MediaFiles == nil {
			tags[i].MediaFiles = entity.StringArray{}
		}
	}
	return nil
}

func tagFileRows(tagID string, files []string) []entity.DbMediaTagFile {
	rows := make([]entity.DbMediaTagFile, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		rows = append(rows, entity.DbMediaTagFile{TagID: tagID, MediaURL: file})
	}
	return rows
}
