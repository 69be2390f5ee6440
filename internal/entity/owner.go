package entity

import "time"

// OwnerInfoID is the fixed id of the single owner record.
const OwnerInfoID = "owner"

// DbOwnerInfo holds the business owner's public contact details.
type DbOwnerInfo struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	BusinessName string    `gorm:"size:200" bson:"business_name" json:"business_name"`
	OwnerName    string    `gorm:"size:200" bson:"owner_name" json:"owner_name"`
	Email        string    `gorm:"size:255" bson:"email" json:"email"`
	Phone        string    `gorm:"size:64" bson:"phone" json:"phone"`
	Whatsapp     string    `gorm:"size:64" bson:"whatsapp" json:"whatsapp"`
	Address      string    `gorm:"type:text" bson:"address" json:"address"`
	About        string    `gorm:"type:text" bson:"about" json:"about"`
	LogoURL      string    `gorm:"size:512" bson:"logo_url" json:"logo_url"`
	Socials      StringMap `gorm:"type:text" bson:"socials" json:"socials"`
	UpdatedBy    string    `gorm:"size:36" bson:"updated_by" json:"updated_by"`
}

// TableName 指定表名
func (DbOwnerInfo) TableName() string {
	return "owner_info"
}

type OwnerInfoRequest struct {
	BusinessName *string           `json:"business_name"`
	OwnerName    *string           `json:"owner_name"`
	Email        *string           `json:"email" binding:"omitempty,email"`
	Phone        *string           `json:"phone"`
	Whatsapp     *string           `json:"whatsapp"`
	Address      *string           `json:"address"`
	About        *string           `json:"about"`
	LogoURL      *string           `json:"logo_url"`
	Socials      map[string]string `json:"socials"`
}
