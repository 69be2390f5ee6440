// Package mongodb implements the repository on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Repository stores every entity in its own collection of one database.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
}

var errNotInitialised = fmt.Errorf("repository not initialised")

// NewRepository connects, verifies the connection and ensures indexes.
func NewRepository(ctx context.Context, uri, database string) (*Repository, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	if strings.TrimSpace(database) == "" {
		return nil, fmt.Errorf("mongo database is empty")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	repo := &Repository{client: client, db: client.Database(database)}
	if err := repo.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return repo, nil
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	plain := func(field string, order int) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: order}}}
	}

	indexes := map[string][]mongo.IndexModel{
		entity.DbUser{}.TableName():       {unique("email")},
		entity.DbMediaTag{}.TableName():   {unique("name"), unique("slug"), plain("media_files", 1), plain("created_at", -1)},
		entity.DbMediaAsset{}.TableName(): {plain("created_at", -1), plain("filename", 1)},
		entity.DbProject{}.TableName():    {unique("slug"), plain("created_at", -1)},
		entity.DbCategory{}.TableName():   {unique("slug"), plain("created_at", -1)},
		entity.DbService{}.TableName():    {unique("slug"), plain("created_at", -1)},
	}
	for collection, models := range indexes {
		if _, err := r.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", collection, err)
		}
	}
	return nil
}

// Ping checks the connection to the primary.
func (r *Repository) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errNotInitialised
	}
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (r *Repository) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// translateError maps driver errors to the backend-neutral sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return entity.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return entity.ErrDuplicate
	default:
		return err
	}
}

func now() time.Time {
	return time.Now().UTC()
}

func pagination(total, page, pageSize int64) *entity.Meta {
	return &entity.Meta{Total: total, Page: page, PageSize: pageSize}
}

// containsFilter matches documents where any field contains needle, ignoring case.
func containsFilter(fields []string, needle string) bson.M {
	pattern := regexp.QuoteMeta(strings.TrimSpace(needle))
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

// newestFirst sorts by creation time, newest first, with the id as tie-breaker.
func newestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
}

func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, params *entity.BaseParams) ([]T, *entity.Meta, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(params.Offset()).
		SetLimit(params.PageSize)
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, err
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, nil, err
	}
	return out, pagination(total, params.Page, params.PageSize), nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translateError(err)
	}
	return &out, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	if strings.TrimSpace(id) == "" {
		return entity.ErrNotFound
	}
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	result, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// setFields applies $set with a fresh updated_at to the document with id.
func setFields(ctx context.Context, coll *mongo.Collection, id string, fields map[string]interface{}) error {
	set := bson.M{"updated_at": now()}
	for k, v := range fields {
		set[k] = v
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// idsMatching returns the _id of every document matching filter.
func idsMatching(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]string, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// normalizeIDs trims, drops blanks and removes duplicates while keeping order.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
