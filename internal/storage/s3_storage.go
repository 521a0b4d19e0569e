package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

var ErrObjectNotFound = errors.New("object not found")

// S3API is the part of the S3 client the storage uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage reads catalog files from and writes exports to one bucket, under an optional key prefix.
type S3Storage struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Storage(ctx context.Context, region, bucket, accessKeyID, secretAccessKey, prefix string) (*S3Storage, error) {
	var cfg aws.Config

	// Static credentials win; otherwise the default chain (env, shared config, IAM role).
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		var err error
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	return NewS3StorageWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func NewS3StorageWithClient(client S3API, bucket, prefix string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *S3Storage) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// GetObject returns the whole object body. A missing key yields ErrObjectNotFound.
func (s *S3Storage) GetObject(ctx context.Context, key string) ([]byte, error) {
	fullKey := s.objectKey(key)
	logger.Debug("Fetching object", map[string]interface{}{
		"bucket": s.bucket,
		"key":    fullKey,
	})

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%s: %w", fullKey, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get object %s: %w", fullKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", fullKey, err)
	}
	return data, nil
}

func (s *S3Storage) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	fullKey := s.objectKey(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Failed to upload object", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    fullKey,
		})
		return fmt.Errorf("failed to put object %s: %w", fullKey, err)
	}

	logger.Info("Object uploaded", map[string]interface{}{
		"bucket": s.bucket,
		"key":    fullKey,
		"bytes":  len(body),
	})
	return nil
}
