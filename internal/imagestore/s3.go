package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Korixo/demolition-tracker/internal/common"
)

// S3Config holds bucket coordinates. Endpoint is set when pointing at a
// MinIO or other S3-compatible server instead of AWS proper.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string // base for returned links; defaults to the endpoint or AWS URL
}

// S3Store uploads notice images to an S3 bucket.
type S3Store struct {
	cfg    S3Config
	client *s3.Client
	logger *slog.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "s3 bucket is not set", common.ErrStore)
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", common.ErrStore, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{cfg: cfg, client: client, logger: logger}, nil
}

func (s *S3Store) Put(ctx context.Context, contentType string, data []byte) (string, error) {
	key := storageKey(contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3 put %s: %v", common.ErrStore, key, err)
	}

	s.logger.Debug("image stored", "bucket", s.cfg.Bucket, "key", key, "bytes", len(data))
	return s.objectURL(key), nil
}

func storageKey(contentType string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("notices/%04d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), ExtForContentType(contentType))
}

func (s *S3Store) objectURL(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
