package blob

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dberzins/accountd/internal/common"
	"github.com/dberzins/accountd/internal/logging"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Service validates and uploads logo images and disposes of superseded ones.
type Service struct {
	storage  Storage
	maxBytes int64
	logger   logging.Logger
}

func NewService(storage Storage, maxBytes int64, logger logging.Logger) *Service {
	return &Service{
		storage:  storage,
		maxBytes: maxBytes,
		logger:   logger.With("module", "blob"),
	}
}

// Upload validates the mime type against the image allow-list and the size
// against the configured ceiling before touching the backend, then stores
// the bytes and returns the external URL.
func (s *Service) Upload(ctx context.Context, data []byte, contentType string, ownerID string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: only image files (JPEG, PNG, GIF, WebP) are allowed", common.ErrorValidation)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: maximum size is %d bytes", common.ErrFileTooLarge, s.maxBytes)
	}

	key := storageKey(ownerID, ext)

	url, err := s.storage.Put(ctx, key, data, contentType)
	if err != nil {
		return "", err
	}

	return url, nil
}

// Delete removes a superseded blob best-effort. Failures are logged and
// swallowed: a stale orphaned blob is an operational cost, never a
// user-facing error.
func (s *Service) Delete(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		s.logger.Warn(ctx, "blob delete failed", "url", url, "error", err.Error())
	}
}

func storageKey(ownerID, ext string) string {
	return fmt.Sprintf("logos/%s/%s%s", ownerID, uuid.New(), ext)
}
