package mongodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func (r *Repository) users() *mongo.Collection {
	return r.collection(entity.DbUser{}.TableName())
}

// CreateUser persists a new user record.
func (r *Repository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	if user.ID == "" {
		user.ID = entity.NewID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.users().InsertOne(ctx, user)
	return translateError(err)
}

// UpdateUser applies the non-nil fields of updates.
func (r *Repository) UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid user")
	}
	if updates.IsEmpty() {
		return nil
	}
	return setFields(ctx, r.users(), id, updates.ToMap())
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}
	return findOne[entity.DbUser](ctx, r.users(), bson.M{"email": strings.ToLower(trimmed)})
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	return findOne[entity.DbUser](ctx, r.users(), bson.M{"_id": id})
}

// ListUsers returns paginated users, newest first.
func (r *Repository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}
	if params == nil {
		params = &entity.UserQuery{}
	}
	params.Normalize(20, 100)

	filter := bson.M{}
	if role := strings.TrimSpace(params.Role); role != "" {
		filter["role"] = role
	}
	if keyword := strings.TrimSpace(params.Search); keyword != "" {
		for k, v := range containsFilter([]string{"email", "display_name"}, keyword) {
			filter[k] = v
		}
	}
	return findPage[entity.DbUser](ctx, r.users(), filter, &params.BaseParams)
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return deleteByID(ctx, r.users(), id)
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errNotInitialised
	}
	return r.users().CountDocuments(ctx, bson.M{})
}
