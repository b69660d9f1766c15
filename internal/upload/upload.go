// Package upload is the image side channel for dish, hosting and chef
// profile pictures. Files are validated locally (type and size) before any
// network activity; the configured uploader then either writes straight to
// object storage, proxies through the backend, or substitutes a placeholder
// when uploads are not configured.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"idish/internal/config"
	"idish/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrFileTooLarge    = errors.New("file too large, maximum size is 5MB")
	ErrUnsupportedType = errors.New("file type not supported, upload JPG, JPEG, or PNG")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// ValidateImage enforces the client-side constraints: JPEG/PNG only, at most
// 5 MiB. It must pass before an uploader touches the network.
func ValidateImage(size int64, contentType string) error {
	if size <= 0 {
		return ErrNoFile
	}
	if _, ok := imageExtensions[contentType]; !ok {
		return ErrUnsupportedType
	}
	if size > models.MaxImageSize {
		return ErrFileTooLarge
	}
	return nil
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, size int64, contentType string) (string, error)
}

// New selects the uploader for the configured mode.
func New(cfg config.UploadConfig, backendBaseURL string, logger *zerolog.Logger) (Uploader, error) {
	switch cfg.Mode {
	case "minio":
		return NewMinioUploader(cfg)
	case "proxy":
		return NewProxyUploader(backendBaseURL, cfg.Bucket), nil
	case "placeholder":
		logger.Warn().Msg("image upload not configured, using placeholder images")
		return PlaceholderUploader{}, nil
	}
	return nil, fmt.Errorf("unknown upload mode %q", cfg.Mode)
}

// PlaceholderUploader accepts valid images but stores nothing, returning the
// shared placeholder URL.
type PlaceholderUploader struct{}

func (PlaceholderUploader) Upload(ctx context.Context, file io.Reader, size int64, contentType string) (string, error) {
	if err := ValidateImage(size, contentType); err != nil {
		return "", err
	}
	return models.PlaceholderImageURL, nil
}
