package sql

import (
	"context"
	"fmt"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"gorm.io/gorm/clause"
)

// GetOwnerInfo loads the single owner record.
func (r *GormRepository) GetOwnerInfo(ctx context.Context) (*entity.DbOwnerInfo, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	return getRecord[entity.DbOwnerInfo](r.db.WithContext(ctx), "id", entity.OwnerInfoID)
}

// SaveOwnerInfo upserts the owner record.
func (r *GormRepository) SaveOwnerInfo(ctx context.Context, info *entity.DbOwnerInfo) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if info == nil {
		return fmt.Errorf("owner info is nil")
	}
	info.ID = entity.OwnerInfoID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "business_name", "owner_name", "email", "phone", "whatsapp",
			"address", "about", "logo_url", "socials", "updated_by",
		}),
	}).Create(info).Error
}
