package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxAvatarSize    = 5 * 1024 * 1024 // 5 MB
	presignedURLTTL  = 15 * time.Minute
	avatarPathPrefix = "avatars"
	sniffLen         = 512
)

var (
	ErrFileTooBig           = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType      = errors.New("invalid file type, only JPEG and PNG images are allowed")
	ErrBucketCreationFailed = errors.New("failed to create storage bucket")
	ErrUploadFailed         = errors.New("failed to upload file")
	ErrDeleteFailed         = errors.New("failed to delete file")
	ErrURLGenerationFailed  = errors.New("failed to generate presigned URL")
	ErrUnauthorizedAccess   = errors.New("object does not belong to user")
	ErrStorageDisabled      = errors.New("avatar storage is not configured")

	allowedContentTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
	}
)

// StorageService stores profile avatars in an S3-compatible bucket.
type StorageService interface {
	// UploadAvatar validates and stores an avatar, returning the object key.
	UploadAvatar(ctx context.Context, userID string, file io.Reader, fileSize int64, contentType string) (string, error)

	// DeleteAvatar removes an avatar the user owns. Empty keys are a no-op.
	DeleteAvatar(ctx context.Context, userID, objectKey string) error

	// GenerateAvatarURL returns a short-lived presigned GET URL.
	GenerateAvatarURL(ctx context.Context, objectKey string) (string, error)
}

// disabledStorageService is the StorageService used when no storage
// endpoint is configured. Avatar operations fail with ErrStorageDisabled;
// everything else runs normally.
type disabledStorageService struct{}

func NewDisabledStorageService() StorageService {
	return disabledStorageService{}
}

func (disabledStorageService) UploadAvatar(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", ErrStorageDisabled
}

func (disabledStorageService) DeleteAvatar(_ context.Context, _, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	return ErrStorageDisabled
}

func (disabledStorageService) GenerateAvatarURL(context.Context, string) (string, error) {
	return "", ErrStorageDisabled
}

// MinIOStorageService implements StorageService against MinIO or any
// S3-compatible endpoint. Bucket creation is deferred to first use so
// that an unreachable store does not block process startup.
type MinIOStorageService struct {
	client     *minio.Client
	bucketName string

	initOnce sync.Once
	initErr  error
}

func NewMinIOStorageService(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOStorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOStorageService{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (s *MinIOStorageService) ensureBucketExists(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = fmt.Errorf("%w: check bucket existence: %v", ErrBucketCreationFailed, err)
			return
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
				s.initErr = fmt.Errorf("%w: create bucket: %v", ErrBucketCreationFailed, err)
			}
		}
	})
	return s.initErr
}

// UploadAvatar validates size and content type before storing the object.
// The content type is detected from the first bytes of the file rather
// than trusted from the client-supplied header.
func (s *MinIOStorageService) UploadAvatar(ctx context.Context, userID string, file io.Reader, fileSize int64, contentType string) (string, error) {
	if fileSize > maxAvatarSize {
		return "", ErrFileTooBig
	}

	declared := strings.ToLower(strings.TrimSpace(contentType))
	if _, allowed := allowedContentTypes[declared]; !allowed {
		return "", ErrInvalidFileType
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: read file: %v", ErrUploadFailed, err)
	}
	head = head[:n]

	detected := http.DetectContentType(head)
	if _, allowed := allowedContentTypes[detected]; !allowed {
		return "", ErrInvalidFileType
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("%s/user-%s/%s%s", avatarPathPrefix, userID, uuid.New().String(), contentTypeToExtension(detected))

	body := io.MultiReader(bytes.NewReader(head), file)
	_, err = s.client.PutObject(ctx, s.bucketName, objectKey, body, fileSize, minio.PutObjectOptions{
		ContentType: detected,
		UserMetadata: map[string]string{
			"User-ID":     userID,
			"Uploaded-At": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return objectKey, nil
}

// DeleteAvatar removes an object after checking it lives under the
// caller's namespace, so one user cannot delete another user's avatar.
func (s *MinIOStorageService) DeleteAvatar(ctx context.Context, userID, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}

	if !ownsObject(userID, objectKey) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAccess, objectKey)
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *MinIOStorageService) GenerateAvatarURL(ctx context.Context, objectKey string) (string, error) {
	if strings.TrimSpace(objectKey) == "" {
		return "", fmt.Errorf("%w: empty object key", ErrURLGenerationFailed)
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, presignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURLGenerationFailed, err)
	}
	return presigned.String(), nil
}

// ownsObject reports whether the key sits directly under the user's
// avatar prefix. Path traversal segments are rejected outright.
func ownsObject(userID, objectKey string) bool {
	if strings.Contains(objectKey, "..") {
		return false
	}
	prefix := fmt.Sprintf("%s/user-%s/", avatarPathPrefix, userID)
	return strings.HasPrefix(objectKey, prefix)
}

func contentTypeToExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}
