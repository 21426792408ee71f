package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matboka/matboka-backend/config"
)

// S3BlobStore stores recipe images in the configured S3 bucket behind
// the BlobStore interface.
type S3BlobStore struct {
	s3Config *config.S3Config
}

// NewS3BlobStore creates a new S3BlobStore instance.
func NewS3BlobStore(s3Config *config.S3Config) *S3BlobStore {
	return &S3BlobStore{s3Config: s3Config}
}

// Upload puts the image under key and returns its public URL.
func (s *S3BlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}

// Delete removes the object under key.
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
