package entity

import (
	"errors"

	"github.com/google/uuid"
	"github.com/krsnavtr-code/rudra360-sub000/internal/entity/common"
)

// Type aliases for common types
type StringArray = common.StringArray
type StringMap = common.StringMap
type Meta = common.Meta
type BaseParams = common.BaseParams

// Backend-neutral repository errors. Both the gorm and the mongo repository
// translate their driver errors into these.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// NewID returns a fresh opaque identifier for a persisted record.
func NewID() string {
	return uuid.NewString()
}
