package entity

import "time"

// Media-count modes decide how a tag's media_count is maintained and read.
const (
	// MediaCountStored keeps media_count as an independent stored counter.
	// Tag synchronisation never touches it; only the deletion guard reads it.
	MediaCountStored = "stored"
	// MediaCountDerived recomputes media_count from media_files on every
	// synchronisation and guards deletion on the number of files.
	MediaCountDerived = "derived"
)

// DbMediaTag is a named grouping of media file references.
type DbMediaTag struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt   time.Time `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" bson:"name" json:"name"`
	Slug        string    `gorm:"size:64;uniqueIndex;not null" bson:"slug" json:"slug"`
	Description string    `gorm:"size:200" bson:"description" json:"description"`
	MediaCount  int64     `gorm:"not null;default:0" bson:"media_count" json:"media_count"`
	IsActive    bool      `gorm:"not null;default:false" bson:"is_active" json:"is_active"`
	CreatedBy   string    `gorm:"size:36" bson:"created_by" json:"created_by"`
	UpdatedBy   string    `gorm:"size:36" bson:"updated_by" json:"updated_by"`

	// MediaFiles lives in media_tag_files for SQL backends and inline for mongo.
	MediaFiles StringArray `gorm:"-" bson:"media_files" json:"media_files"`
}

// TableName 指定表名
func (DbMediaTag) TableName() string {
	return "media_tags"
}

// InUse reports whether the tag currently blocks deletion under the given
// media-count mode.
func (t *DbMediaTag) InUse(mode string) bool {
	if t == nil {
		return false
	}
	if mode == MediaCountDerived {
		return len(t.MediaFiles) > 0
	}
	return t.MediaCount > 0
}

// DbMediaTagFile associates a media file reference with a tag.
type DbMediaTagFile struct {
	TagID     string    `gorm:"primaryKey;size:36"`
	MediaURL  string    `gorm:"primaryKey;size:512;index"`
	CreatedAt time.Time
}

// TableName 指定表名
func (DbMediaTagFile) TableName() string {
	return "media_tag_files"
}

// TagQuery lists tags page by page, optionally filtered by name.
type TagQuery struct {
	BaseParams
	Search string `json:"search" form:"search" query:"search"`
	// Limit mirrors page_size under the name the admin UI sends.
	Limit int64 `json:"limit" form:"limit" query:"limit"`
}

type TagCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type TagUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type TagMediaUpdateRequest struct {
	MediaURL string   `json:"mediaUrl"`
	TagIDs   []string `json:"tagIds"`
}
