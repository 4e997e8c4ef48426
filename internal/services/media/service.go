package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrTooManyFiles = errors.New("too many files")
	ErrFileTooLarge = errors.New("file too large")
	ErrBadFileType  = errors.New("unsupported file type")
)

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutImage(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Upload is a single incoming file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Image is a stored photo with a short-lived signed URL for immediate
// display.
type Image struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Service struct {
	storage         ObjectStorage
	maxFiles        int
	maxFileSize     int64
	allowedTypes    map[string]struct{}
	signedURLExpiry time.Duration
}

func NewService(storage ObjectStorage, maxFiles, maxFileSizeMB int, allowedTypes []string, signedURLExpiry time.Duration) *Service {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 10
	}
	if signedURLExpiry <= 0 {
		signedURLExpiry = 5 * time.Minute
	}

	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			allowed[t] = struct{}{}
		}
	}

	return &Service{
		storage:         storage,
		maxFiles:        maxFiles,
		maxFileSize:     int64(maxFileSizeMB) * 1024 * 1024,
		allowedTypes:    allowed,
		signedURLExpiry: signedURLExpiry,
	}
}

// UploadImages validates the whole batch before storing anything, so one bad
// file rejects the request instead of leaving a partial set behind.
func (s *Service) UploadImages(ctx context.Context, ownerID string, uploads []Upload) ([]Image, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("media dependencies are not configured")
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || len(uploads) == 0 {
		return nil, ErrValidation
	}
	if len(uploads) > s.maxFiles {
		return nil, fmt.Errorf("%w: at most %d per upload", ErrTooManyFiles, s.maxFiles)
	}

	for _, upload := range uploads {
		if upload.Body == nil || upload.Size <= 0 {
			return nil, ErrValidation
		}
		if upload.Size > s.maxFileSize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, upload.FileName, s.maxFileSize)
		}
		contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
		if _, ok := s.allowedTypes[contentType]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadFileType, upload.ContentType)
		}
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	images := make([]Image, 0, len(uploads))
	stored := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		key, err := buildImageObjectKey(ownerID, upload.FileName)
		if err != nil {
			s.deleteAll(ctx, stored)
			return nil, fmt.Errorf("build object key: %w", err)
		}

		if err := s.storage.PutImage(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
			s.deleteAll(ctx, stored)
			return nil, fmt.Errorf("put object: %w", err)
		}
		stored = append(stored, key)

		url, err := s.storage.PresignGet(ctx, key, s.signedURLExpiry)
		if err != nil {
			s.deleteAll(ctx, stored)
			return nil, fmt.Errorf("presign image url: %w", err)
		}

		images = append(images, Image{Key: key, URL: url})
	}

	return images, nil
}

// SignImageURL refreshes the signed URL for a stored image key.
func (s *Service) SignImageURL(ctx context.Context, key string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}
	if strings.TrimSpace(key) == "" {
		return "", ErrValidation
	}

	url, err := s.storage.PresignGet(ctx, key, s.signedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign image url: %w", err)
	}

	return url, nil
}

func (s *Service) deleteAll(ctx context.Context, keys []string) {
	for _, key := range keys {
		_ = s.storage.Delete(ctx, key)
	}
}

func buildImageObjectKey(ownerID, fileName string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate object key: %w", err)
	}

	ext := strings.ToLower(path.Ext(fileName))
	return "items/" + ownerID + "/" + hex.EncodeToString(buf) + ext, nil
}
