package mongodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (r *Repository) tags() *mongo.Collection {
	return r.collection(entity.DbMediaTag{}.TableName())
}

// CreateTag inserts a new tag.
func (r *Repository) CreateTag(ctx context.Context, tag *entity.DbMediaTag) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if tag == nil {
		return fmt.Errorf("tag is nil")
	}
	if tag.ID == "" {
		tag.ID = entity.NewID()
	}
	// $addToSet fails on a null field
	if tag.MediaFiles == nil {
		tag.MediaFiles = entity.StringArray{}
	}
	tag.CreatedAt = now()
	tag.UpdatedAt = tag.CreatedAt

	_, err := r.tags().InsertOne(ctx, tag)
	return translateError(err)
}

func (r *Repository) GetTag(ctx context.Context, id string) (*entity.DbMediaTag, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	if strings.TrimSpace(id) == "" {
		return nil, entity.ErrNotFound
	}
	return findOne[entity.DbMediaTag](ctx, r.tags(), bson.M{"_id": id})
}

// ListTags returns tags newest first, optionally filtered by name.
func (r *Repository) ListTags(ctx context.Context, params *entity.TagQuery) ([]entity.DbMediaTag, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.TagQuery{}
	}
	params.Normalize(50, 200)

	filter := bson.M{}
	if search := strings.TrimSpace(params.Search); search != "" {
		filter = containsFilter([]string{"name"}, search)
	}
	return findPage[entity.DbMediaTag](ctx, r.tags(), filter, &params.BaseParams)
}

func (r *Repository) UpdateTag(ctx context.Context, id string, updates entity.TagUpdates) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if strings.TrimSpace(id) == "" {
		return entity.ErrNotFound
	}
	if updates.IsEmpty() {
		return nil
	}
	return setFields(ctx, r.tags(), id, updates.ToMap())
}

func (r *Repository) DeleteTag(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteByID(ctx, r.tags(), id)
}

// detachFilter selects tags holding mediaURL that are not listed in keepIDs.
func detachFilter(mediaURL string, keepIDs []string) bson.M {
	filter := bson.M{"media_files": mediaURL}
	if keep := normalizeIDs(keepIDs); len(keep) > 0 {
		filter["_id"] = bson.M{"$nin": keep}
	}
	return filter
}

// tagsForMediaFilter selects tags listed in tagIDs or holding mediaURL.
func tagsForMediaFilter(mediaURL string, tagIDs []string) bson.M {
	ids := normalizeIDs(tagIDs)
	if len(ids) == 0 {
		return bson.M{"media_files": mediaURL}
	}
	return bson.M{"$or": bson.A{
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"media_files": mediaURL},
	}}
}

// recountPipeline sets media_count to the length of media_files.
func recountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "media_count", Value: bson.D{{Key: "$size", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$media_files", bson.A{}}},
			}}}},
		}}},
	}
}

// DetachMediaFromTags pulls mediaURL from every tag not in keepIDs and
// returns the ids of the tags it changed.
func (r *Repository) DetachMediaFromTags(ctx context.Context, mediaURL string, keepIDs []string) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	ids, err := idsMatching(ctx, r.tags(), detachFilter(mediaURL, keepIDs))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	_, err = r.tags().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{
			"$pull": bson.M{"media_files": mediaURL},
			"$set":  bson.M{"updated_at": now()},
		},
	)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AttachMediaToTags adds mediaURL to each existing tag in tagIDs and returns
// the ids that exist.
func (r *Repository) AttachMediaToTags(ctx context.Context, mediaURL string, tagIDs []string) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	ids := normalizeIDs(tagIDs)
	if len(ids) == 0 {
		return []string{}, nil
	}
	existing, err := idsMatching(ctx, r.tags(), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return existing, nil
	}
	_, err = r.tags().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": existing}},
		bson.M{
			"$addToSet": bson.M{"media_files": mediaURL},
			"$set":      bson.M{"updated_at": now()},
		},
	)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *Repository) FindTagsForMedia(ctx context.Context, mediaURL string, tagIDs []string) ([]entity.DbMediaTag, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	cursor, err := r.tags().Find(ctx, tagsForMediaFilter(mediaURL, tagIDs), options.Find().SetSort(newestFirst()))
	if err != nil {
		return nil, err
	}
	tags := make([]entity.DbMediaTag, 0)
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repository) RecountTagMedia(ctx context.Context, tagIDs []string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	ids := normalizeIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	_, err := r.tags().UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, recountPipeline())
	return err
}
