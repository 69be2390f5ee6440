package entity

import (
	"database/sql/driver"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity/common"
)

// Testimonial is the client quote shown on a project page.
type Testimonial struct {
	Name   string `bson:"name" json:"name"`
	Quote  string `gorm:"type:text" bson:"quote" json:"quote"`
	Avatar string `gorm:"size:512" bson:"avatar" json:"avatar"`
}

// SEO carries page metadata for a project.
type SEO struct {
	Title       string `bson:"title" json:"title"`
	Description string `gorm:"type:text" bson:"description" json:"description"`
	OgImage     string `gorm:"size:512" bson:"og_image" json:"og_image"`
}

// DbProject is a portfolio entry: an event the business delivered.
type DbProject struct {
	ID          string      `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt   time.Time   `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
	Title       string      `gorm:"size:200;not null" bson:"title" json:"title"`
	Slug        string      `gorm:"size:191;uniqueIndex;not null" bson:"slug" json:"slug"`
	Summary     string      `gorm:"type:text" bson:"summary" json:"summary"`
	CategoryID  string      `gorm:"size:36;index" bson:"category_id" json:"category_id"`
	Thumbnail   string      `gorm:"size:512" bson:"thumbnail" json:"thumbnail"`
	HeroImage   string      `gorm:"size:512" bson:"hero_image" json:"hero_image"`
	Gallery     StringArray `gorm:"type:text" bson:"gallery" json:"gallery"`
	Testimonial Testimonial `gorm:"embedded;embeddedPrefix:testimonial_" bson:"testimonial" json:"testimonial"`
	SEO         SEO         `gorm:"embedded;embeddedPrefix:seo_" bson:"seo" json:"seo"`
	IsPublished bool        `gorm:"not null;default:false" bson:"is_published" json:"is_published"`
}

// TableName 指定表名
func (DbProject) TableName() string {
	return "projects"
}

// DbCategory groups projects on the public site.
type DbCategory struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt   time.Time `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	Name        string    `gorm:"size:120;not null" bson:"name" json:"name"`
	Slug        string    `gorm:"size:191;uniqueIndex;not null" bson:"slug" json:"slug"`
	Description string    `gorm:"type:text" bson:"description" json:"description"`
	Image       string    `gorm:"size:512" bson:"image" json:"image"`
	IsPublished bool      `gorm:"not null;default:false" bson:"is_published" json:"is_published"`
}

// TableName 指定表名
func (DbCategory) TableName() string {
	return "categories"
}

// Instructor is a person presenting a service or course.
type Instructor struct {
	Name  string `bson:"name" json:"name"`
	Role  string `bson:"role" json:"role"`
	Image string `bson:"image" json:"image"`
}

// Instructors is stored as JSON text by SQL backends.
type Instructors []Instructor

// Value 实现 driver.Valuer 接口。
func (s Instructors) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return common.MarshalJSONText([]Instructor(s))
}

// Scan 实现 sql.Scanner 接口。
func (s *Instructors) Scan(value interface{}) error {
	return common.ScanJSON(value, s, func() { *s = Instructors{} })
}

// DbService is an offering (event package, workshop or course).
type DbService struct {
	ID          string      `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	CreatedAt   time.Time   `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
	Title       string      `gorm:"size:200;not null" bson:"title" json:"title"`
	Slug        string      `gorm:"size:191;uniqueIndex;not null" bson:"slug" json:"slug"`
	Description string      `gorm:"type:text" bson:"description" json:"description"`
	Price       string      `gorm:"size:64" bson:"price" json:"price"`
	Image       string      `gorm:"size:512" bson:"image" json:"image"`
	Instructors Instructors `gorm:"type:text" bson:"instructors" json:"instructors"`
	IsPublished bool        `gorm:"not null;default:false" bson:"is_published" json:"is_published"`
}

// TableName 指定表名
func (DbService) TableName() string {
	return "services"
}

// ContentQuery lists content records page by page.
type ContentQuery struct {
	BaseParams
	Search        string `json:"search" form:"search" query:"search"`
	CategoryID    string `json:"category_id" form:"category_id" query:"category_id"`
	PublishedOnly bool   `json:"-" form:"-" query:"-"`
}

// ProjectRequest is the create/update payload for projects. Pointer fields
// are only applied when present.
type ProjectRequest struct {
	Title       *string      `json:"title"`
	Slug        *string      `json:"slug"`
	Summary     *string      `json:"summary"`
	CategoryID  *string      `json:"category_id"`
	Thumbnail   *string      `json:"thumbnail"`
	HeroImage   *string      `json:"hero_image"`
	Gallery     *[]string    `json:"gallery"`
	Testimonial *Testimonial `json:"testimonial"`
	SEO         *SEO         `json:"seo"`
	IsPublished *bool        `json:"is_published"`
}

type CategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsPublished *bool   `json:"is_published"`
}

type ServiceRequest struct {
	Title       *string       `json:"title"`
	Slug        *string       `json:"slug"`
	Description *string       `json:"description"`
	Price       *string       `json:"price"`
	Image       *string       `json:"image"`
	Instructors *[]Instructor `json:"instructors"`
	IsPublished *bool         `json:"is_published"`
}
