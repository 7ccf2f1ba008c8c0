package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by the file store
type S3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Storage stores uploaded course files (lecture attachments, thumbnails) in an S3 bucket
type s3Storage struct {
	client        S3API
	bucket        string
	publicBaseURL string
}

// NewS3Storage creates a new S3-backed file store
//
// "publicBaseURL" is the URL prefix under which the bucket objects are served,
// file references outside of it are not managed by this store.
func NewS3Storage(client S3API, bucket, publicBaseURL string) *s3Storage {
	return &s3Storage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// objectKey extracts the object key from a public file URL
func (s *s3Storage) objectKey(fileURL string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if s.publicBaseURL == "" || !strings.HasPrefix(fileURL, prefix) {
		return "", false
	}

	key := strings.TrimPrefix(fileURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	unescaped, err := url.PathUnescape(key)
	if err != nil || unescaped == "" {
		return "", false
	}
	return unescaped, true
}

// Delete removes the object behind a file URL
//
// References that do not point into the bucket (external links) and objects that are already gone are not errors.
func (s *s3Storage) Delete(ctx context.Context, fileURL string) error {
	key, ok := s.objectKey(fileURL)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}

	return nil
}

// noopStorage is used when no bucket is configured
type noopStorage struct{}

// NewNoopStorage creates a file store that never deletes anything
func NewNoopStorage() *noopStorage {
	return &noopStorage{}
}

// Delete does nothing
func (s *noopStorage) Delete(ctx context.Context, fileURL string) error {
	return nil
}
