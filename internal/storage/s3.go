package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Service uploads feed snapshots to Amazon S3 (or compatible APIs).
type S3Service struct {
	uploader *manager.Uploader
}

func NewS3Service(client *s3.Client) *S3Service {
	return &S3Service{uploader: manager.NewUploader(client)}
}

func (s *S3Service) Upload(ctx context.Context, obj Object) (string, error) {
	input, err := putInput(obj)
	if err != nil {
		return "", err
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", *input.Key, err)
	}
	return fmt.Sprintf("s3://%s/%s", obj.Bucket, *input.Key), nil
}

func putInput(obj Object) (*s3.PutObjectInput, error) {
	if obj.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	key := strings.Trim(obj.Key, "/")
	if key == "" {
		return nil, fmt.Errorf("object key is required")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(key),
		Body:   obj.Body,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	if obj.CacheControl != "" {
		input.CacheControl = aws.String(obj.CacheControl)
	}
	// Buckets with object ownership enforced reject any ACL header.
	if obj.ACL != "" {
		input.ACL = types.ObjectCannedACL(obj.ACL)
	}
	return input, nil
}

var _ Service = (*S3Service)(nil)
