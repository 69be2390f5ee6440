package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/krsnavtr-code/rudra360-sub000/internal/config"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// cosObjects 适配腾讯云 COS
type cosObjects struct {
	client *cos.Client
}

func (o *cosObjects) Exists(ctx context.Context, key string) (bool, error) {
	return o.client.Object.IsExist(ctx, key)
}

func (o *cosObjects) Put(ctx context.Context, key string, data []byte, contentType string) error {
	resp, err := o.client.Object.Put(ctx, key, bytes.NewReader(data), &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
	})
	closeCOSResponse(resp)
	return err
}

func (o *cosObjects) Remove(ctx context.Context, key string) error {
	resp, err := o.client.Object.Delete(ctx, key)
	closeCOSResponse(resp)
	if err != nil && !cos.IsNotFoundError(err) {
		return err
	}
	return nil
}

func closeCOSResponse(resp *cos.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

// NewCOSStorage 使用 STORAGE_COS_* 配置创建存储
func NewCOSStorage(cfg config.Config) (Storage, error) {
	bucketURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if bucketURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	parsedURL, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}
	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsedURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{SecretID: secretID, SecretKey: secretKey},
	})
	return newBucketStorage(TypeCOS, &cosObjects{client: client}, cfg.StorageCOSPrefix), nil
}
