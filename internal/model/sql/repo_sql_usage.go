package sql

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"gorm.io/gorm"
)

// usageColumns maps logical usage fields to their SQL columns. Array-valued
// fields are stored as JSON text and searched as a whole.
var usageColumns = map[string]string{
	"thumbnail":          "thumbnail",
	"hero_image":         "hero_image",
	"gallery":            "gallery",
	"testimonial.avatar": "testimonial_avatar",
	"seo.og_image":       "seo_og_image",
	"image":              "image",
	"instructors.image":  "instructors",
}

// FindUsage returns the records of query.Collection whose usage fields
// contain any candidate. LIKE narrows the rows and UsageQuery.Matches
// decides. LOWER/LIKE only fold ASCII on sqlite, so a non-ASCII candidate
// skips the narrowing and every row goes through Matches.
func (r *GormRepository) FindUsage(ctx context.Context, query entity.UsageQuery) ([]entity.UsageItem, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}

	db := r.db.WithContext(ctx)
	switch query.Collection {
	case entity.CollectionProjects:
		return findUsage[entity.DbProject](db, query)
	case entity.CollectionCategories:
		return findUsage[entity.DbCategory](db, query)
	case entity.CollectionServices:
		return findUsage[entity.DbService](db, query)
	default:
		return nil, fmt.Errorf("unknown usage collection: %s", query.Collection)
	}
}

func findUsage[T any, PT interface {
	*T
	entity.UsageRecord
}](db *gorm.DB, query entity.UsageQuery) ([]entity.UsageItem, error) {
	clauses := make([]string, 0, len(query.Fields)*len(query.Candidates))
	args := make([]interface{}, 0, cap(clauses))
	fullScan := false
	for _, field := range query.Fields {
		column, ok := usageColumns[field]
		if !ok {
			return nil, fmt.Errorf("unknown usage field: %s", field)
		}
		for _, candidate := range query.Candidates {
			if strings.TrimSpace(candidate) == "" {
				continue
			}
			if !isASCII(candidate) {
				fullScan = true
			}
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", column))
			args = append(args, likePattern(candidate))
		}
	}
	if len(clauses) == 0 {
		return []entity.UsageItem{}, nil
	}

	tx := db.Model(new(T))
	if !fullScan {
		tx = tx.Where(strings.Join(clauses, " OR "), args...)
	}
	var rows []T
	if err := tx.Order("created_at").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entity.UsageItem, 0, len(rows))
	for i := range rows {
		record := PT(&rows[i])
		if query.Matches(record) {
			items = append(items, record.UsageItem())
		}
	}
	return items, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
