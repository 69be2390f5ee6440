package entity

import "time"

// Media kinds accepted by the library.
const (
	MediaKindImage    = "image"
	MediaKindVideo    = "video"
	MediaKindDocument = "document"
)

// DbMediaAsset is an uploaded file in the media library.
type DbMediaAsset struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt    time.Time `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	Filename     string    `gorm:"size:255;index;not null" bson:"filename" json:"filename"`
	OriginalName string    `gorm:"size:255" bson:"original_name" json:"original_name"`
	Kind         string    `gorm:"size:16;index" bson:"kind" json:"kind"`
	MimeType     string    `gorm:"size:128" bson:"mime_type" json:"mime_type"`
	Size         int64     `bson:"size" json:"size"`
	Width        int       `bson:"width" json:"width,omitempty"`
	Height       int       `bson:"height" json:"height,omitempty"`
	StorageKey   string    `gorm:"size:512;not null" bson:"storage_key" json:"-"`
	URL          string    `gorm:"size:512;not null" bson:"url" json:"url"`
	ThumbnailKey string    `gorm:"size:512" bson:"thumbnail_key" json:"-"`
	ThumbnailURL string    `gorm:"size:512" bson:"thumbnail_url" json:"thumbnail_url,omitempty"`
	UploadedBy   string    `gorm:"size:36" bson:"uploaded_by" json:"uploaded_by"`
}

// TableName 指定表名
func (DbMediaAsset) TableName() string {
	return "media_assets"
}

// MediaQuery lists media assets page by page.
type MediaQuery struct {
	BaseParams
	Search string `json:"search" form:"search" query:"search"`
	Kind   string `json:"kind" form:"kind" query:"kind"`
	Limit  int64  `json:"limit" form:"limit" query:"limit"`
}
