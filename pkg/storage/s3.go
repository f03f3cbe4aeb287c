package storage

import (
	"bytes"
	"context"
	"fmt"

	"loyalty-rewards/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads to an S3 compatible bucket (AWS or MinIO).
type S3Store struct {
	client    objectPutter
	bucket    string
	publicURL string
	log       *zap.Logger
}

func NewS3Store(ctx context.Context, cfg utils.S3Config, log *zap.Logger) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return newS3Store(client, cfg.Bucket, publicURL, log), nil
}

func newS3Store(client objectPutter, bucket, publicURL string, log *zap.Logger) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		log:       log.With(zap.String("storage", "s3"), zap.String("bucket", bucket)),
	}
}

func (s *S3Store) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.log.Error("Failed to put object", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}
