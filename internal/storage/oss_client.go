package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// ossObjects 适配阿里云 OSS
type ossObjects struct {
	bucket *oss.Bucket
}

func (o *ossObjects) Exists(ctx context.Context, key string) (bool, error) {
	return o.bucket.IsObjectExist(key, oss.WithContext(ctx))
}

func (o *ossObjects) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return o.bucket.PutObject(key, bytes.NewReader(data), oss.WithContext(ctx), oss.ContentType(contentType))
}

// Remove OSS 删除不存在的对象同样返回成功
func (o *ossObjects) Remove(ctx context.Context, key string) error {
	return o.bucket.DeleteObject(key, oss.WithContext(ctx))
}

// NewOSSStorage 使用 STORAGE_OSS_* 配置创建存储
func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if endpoint == "" || bucketName == "" {
		return nil, errors.New("storage: missing OSS endpoint or bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}
	return newBucketStorage(TypeOSS, &ossObjects{bucket: bucket}, cfg.StorageOSSPrefix), nil
}
