package uploads

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config configures an S3-compatible photo sink. Endpoint may point at
// MinIO or any other S3-compatible store.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// LinkExpiry is how long presigned photo links stay valid.
	// Defaults to 7 days.
	LinkExpiry time.Duration
}

// S3 stores photos in an object bucket and returns presigned GET links.
type S3 struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	linkExpiry time.Duration
}

// NewS3 builds the client from static credentials and an optional custom
// endpoint.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.LinkExpiry
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}

	return &S3{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		linkExpiry: expiry,
	}, nil
}

// Store puts the photo under a date-partitioned random key and returns a
// presigned GET URL for it.
func (s *S3) Store(ctx context.Context, data []byte, originalName string) (string, error) {
	key := storageKey(originalName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: putting object: %v", ErrUploadFailed, err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.linkExpiry))
	if err != nil {
		return "", fmt.Errorf("%w: presigning link: %v", ErrUploadFailed, err)
	}

	return req.URL, nil
}

// storageKey partitions photos by date with a random name, keeping only
// the original extension.
func storageKey(originalName string) string {
	now := time.Now()
	return fmt.Sprintf("proofs/%04d/%02d/%02d/%s%s",
		now.Year(), now.Month(), now.Day(), uuid.New(), filepath.Ext(originalName))
}
