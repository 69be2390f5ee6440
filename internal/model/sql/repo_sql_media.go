package sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"gorm.io/gorm/clause"
)

// CreateMediaAsset records an uploaded file.
func (r *GormRepository) CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if asset == nil {
		return fmt.Errorf("media asset is nil")
	}
	if asset.ID == "" {
		asset.ID = entity.NewID()
	}
	return createRecord(r.db.WithContext(ctx), asset)
}

func (r *GormRepository) GetMediaAsset(ctx context.Context, id string) (*entity.DbMediaAsset, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbMediaAsset](r.db.WithContext(ctx), "id", id)
}

// ListMediaAssets returns assets newest first.
func (r *GormRepository) ListMediaAssets(ctx context.Context, params *entity.MediaQuery) ([]entity.DbMediaAsset, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.MediaQuery{}
	}
	params.Normalize(40, 200)

	query := r.db.WithContext(ctx).Model(&entity.DbMediaAsset{})
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(original_name) LIKE ? OR LOWER(filename) LIKE ?", pattern, pattern)
	}
	if kind := strings.TrimSpace(params.Kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var assets []entity.DbMediaAsset
	if err := query.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order("id").
		Offset(int(params.Offset())).Limit(int(params.PageSize)).
		Find(&assets).Error; err != nil {
		return nil, nil, err
	}
	return assets, r.calculatePagination(total, params.Page, params.PageSize), nil
}

func (r *GormRepository) DeleteMediaAsset(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteRecord[entity.DbMediaAsset](r.db.WithContext(ctx), id)
}
