package upload

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"idish/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader writes images directly to MinIO/S3 compatible storage.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioUploader connects to the object store and ensures the bucket exists.
func NewMinioUploader(cfg config.UploadConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := strings.TrimRight(cfg.Minio.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(client.EndpointURL().String(), "/")
	}
	return &MinioUploader{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (m *MinioUploader) Upload(ctx context.Context, file io.Reader, size int64, contentType string) (string, error) {
	if err := ValidateImage(size, contentType); err != nil {
		return "", err
	}

	key := objectKey(contentType)
	_, err := m.client.PutObject(ctx, m.bucket, key, file, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return m.publicURL + "/" + m.bucket + "/" + key, nil
}

// objectKey builds a unique name so uploads never collide or overwrite.
func objectKey(contentType string) string {
	return fmt.Sprintf("%s_%d%s", uuid.NewString(), time.Now().Unix(), imageExtensions[contentType])
}
