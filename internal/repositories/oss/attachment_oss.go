package oss

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

// StorageConfig holds the object storage connection settings
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// AttachmentOSS stores complaint attachments in an OSS bucket. Keys are
// namespaced by owner so a bucket listing groups evidence per student.
type AttachmentOSS struct {
	bucket *oss.Bucket
	config StorageConfig
}

func NewAttachmentOSS(config StorageConfig) (repositories.AttachmentRepository, error) {
	client, err := oss.New(config.Endpoint, config.AccessKeyID, config.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open OSS bucket %s: %w", config.Bucket, err)
	}

	return &AttachmentOSS{
		bucket: bucket,
		config: config,
	}, nil
}

// objectKey builds a collision-free key: complaints/{owner}/{unixnano}{ext}
func (a *AttachmentOSS) objectKey(ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("complaints/%s/%d%s", ownerID, time.Now().UnixNano(), ext)
}

func (a *AttachmentOSS) Upload(ctx context.Context, ownerID, filename, contentType string, size int64, body io.Reader) (*repositories.StoredObject, error) {
	key := a.objectKey(ownerID, filename)

	err := a.bucket.PutObject(key, body,
		oss.ContentType(contentType),
		oss.ContentLength(size),
		oss.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	url := fmt.Sprintf("https://%s.%s/%s", a.config.Bucket, strings.TrimPrefix(a.config.Endpoint, "https://"), key)

	return &repositories.StoredObject{
		Key:         key,
		URL:         url,
		Size:        size,
		ContentType: contentType,
	}, nil
}

func (a *AttachmentOSS) Delete(ctx context.Context, key string) error {
	if err := a.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", key, err)
	}
	return nil
}

// SignedURL issues a time-limited download URL so the bucket can stay private.
func (a *AttachmentOSS) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := a.bucket.SignURL(key, oss.HTTPGet, int64(expiry.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to sign attachment URL: %w", err)
	}
	return url, nil
}
