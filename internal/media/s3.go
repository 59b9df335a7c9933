package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"BOOKWORM_BACK-END/internal/config"
)

const keyPrefix = "books/"

// S3API is the part of *s3.Client the store needs.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewS3Client builds an S3 client for AWS or any S3 compatible endpoint (MinIO, R2).
func NewS3Client(ctx context.Context, cfg config.MediaConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

type S3Store struct {
	client        S3API
	bucket        string
	publicBaseURL string
	decoder       *Decoder
	newKey        func(ext string) string
}

func NewS3Store(client S3API, cfg config.MediaConfig) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		decoder:       NewDecoder(NewFetchClient(cfg.FetchTimeout), cfg.MaxUploadBytes),
		newKey: func(ext string) string {
			return keyPrefix + uuid.NewString() + ext
		},
	}
}

func (s *S3Store) Upload(ctx context.Context, image string) (string, error) {
	p, err := s.decoder.Decode(ctx, image)
	if err != nil {
		return "", err
	}

	key := s.newKey(p.Extension)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(p.Data),
		ContentType:   aws.String(p.ContentType),
		ContentLength: aws.Int64(int64(len(p.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func (s *S3Store) Owns(url string) bool {
	return s.publicBaseURL != "" && strings.HasPrefix(url, s.publicBaseURL+"/")
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return fmt.Errorf("delete image: %q is not in this store", url)
	}
	key := strings.TrimPrefix(url, s.publicBaseURL+"/")
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
