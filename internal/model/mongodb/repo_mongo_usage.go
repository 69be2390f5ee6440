package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// usageFilter ORs a case-insensitive regex for every field and candidate.
// Logical usage fields are also the bson paths.
func usageFilter(query entity.UsageQuery) (bson.M, bool) {
	or := bson.A{}
	for _, field := range query.Fields {
		for _, candidate := range query.Candidates {
			candidate = strings.TrimSpace(candidate)
			if candidate == "" {
				continue
			}
			or = append(or, bson.M{field: bson.M{"$regex": regexp.QuoteMeta(candidate), "$options": "i"}})
		}
	}
	if len(or) == 0 {
		return nil, false
	}
	return bson.M{"$or": or}, true
}

// FindUsage returns the records of query.Collection whose usage fields
// contain any candidate.
func (r *Repository) FindUsage(ctx context.Context, query entity.UsageQuery) ([]entity.UsageItem, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	filter, ok := usageFilter(query)
	if !ok {
		return []entity.UsageItem{}, nil
	}

	coll := r.collection(query.Collection)
	switch query.Collection {
	case entity.CollectionProjects:
		return findUsage[entity.DbProject](ctx, coll, filter, query)
	case entity.CollectionCategories:
		return findUsage[entity.DbCategory](ctx, coll, filter, query)
	case entity.CollectionServices:
		return findUsage[entity.DbService](ctx, coll, filter, query)
	default:
		return nil, fmt.Errorf("unknown usage collection: %s", query.Collection)
	}
}

func findUsage[T any, PT interface {
	*T
	entity.UsageRecord
}](ctx context.Context, coll *mongo.Collection, filter bson.M, query entity.UsageQuery) ([]entity.UsageItem, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := cursor.All(ctx, &rows); err != nil {
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
