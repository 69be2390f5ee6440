package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// objectClient 是各云厂商 SDK 之上的最小对象操作集合
type objectClient interface {
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Remove 删除对象，对象不存在时不返回错误
	Remove(ctx context.Context, key string) error
}

// bucketStorage 在对象存储桶上实现 Storage，返回的键包含前缀
type bucketStorage struct {
	provider string
	client   objectClient
	prefix   string
	now      func() time.Time
}

func newBucketStorage(provider string, client objectClient, prefix string) *bucketStorage {
	return &bucketStorage{
		provider: provider,
		client:   client,
		prefix:   strings.Trim(strings.TrimSpace(prefix), "/"),
		now:      time.Now,
	}
}

func (s *bucketStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := withPrefix(s.prefix, ObjectKey(opts.Category, opts.BaseName, opts.Extension, s.now()))

	if opts.SkipIfExists {
		exists, err := s.client.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("%s: check object: %w", s.provider, err)
		}
		if exists {
			return key, nil
		}
	}

	if err := s.client.Put(ctx, key, data, contentTypeOf(opts)); err != nil {
		return "", fmt.Errorf("%s: put object: %w", s.provider, err)
	}
	return key, nil
}

func (s *bucketStorage) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty object key")
	}
	if err := s.client.Remove(ctx, key); err != nil {
		return fmt.Errorf("%s: delete object: %w", s.provider, err)
	}
	return nil
}

var _ Storage = (*bucketStorage)(nil)
