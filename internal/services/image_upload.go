package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"

	"storyhub/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrStorageDisabled is returned when no object storage is configured.
var ErrStorageDisabled = errors.New("object storage not configured")

// ErrUnsupportedImage is returned for content types outside the avatar whitelist.
var ErrUnsupportedImage = errors.New("unsupported image type")

// ImageUploadResult is where an uploaded image ended up.
type ImageUploadResult struct {
	URL        string `json:"url"`
	ObjectName string `json:"objectName"`
}

// ImageUploader stores user images and returns their public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, r io.Reader, size int64, contentType string) (*ImageUploadResult, error)
}

// MinIOUploader puts images into one bucket of a MinIO (or any S3) server.
type MinIOUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOUploader(cfg config.MinIOConfig) (*MinIOUploader, error) {
	if !cfg.Enabled() {
		return nil, ErrStorageDisabled
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}
	return &MinIOUploader{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

// EnsureBucket creates the bucket on first start.
func (u *MinIOUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", u.bucket, err)
	}
	return nil
}

func (u *MinIOUploader) UploadImage(ctx context.Context, r io.Reader, size int64, contentType string) (*ImageUploadResult, error) {
	ext, ok := ImageExtension(contentType)
	if !ok {
		return nil, fmt.Errorf("upload: %w: %q", ErrUnsupportedImage, contentType)
	}
	objectName := "avatars/" + uuid.NewString() + ext
	_, err := u.client.PutObject(ctx, u.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", objectName, err)
	}
	return &ImageUploadResult{
		URL:        u.publicURL + "/" + u.bucket + "/" + objectName,
		ObjectName: objectName,
	}, nil
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension maps an accepted avatar MIME type to the extension objects
// are stored under. Parameters and case in contentType are ignored.
func ImageExtension(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	ext, ok := imageExtensions[mediaType]
	return ext, ok
}
