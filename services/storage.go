package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/errs"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type StorageConfig struct {
	Bucket string
	// PublicBaseURL serves uploaded objects, e.g. a CloudFront origin.
	// Defaults to the bucket's virtual-hosted S3 URL.
	PublicBaseURL string
	Region        string
}

// Storage keeps App Lab APKs and screenshots in S3.
type Storage struct {
	cfg    StorageConfig
	s3     objectPutter
	now    func() time.Time
	logger zerolog.Logger
}

func NewStorage(client objectPutter, cfg StorageConfig) *Storage {
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Storage{
		cfg:    cfg,
		s3:     client,
		now:    time.Now,
		logger: log.With().Str("service", "s3").Logger(),
	}
}

func (s *Storage) Configured() bool {
	return s != nil && s.s3 != nil && s.cfg.Bucket != ""
}

// Upload stores body under uploads/{yyyy/mm}/{uuid}-{name} and returns its public URL.
func (s *Storage) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if !s.Configured() {
		return "", errs.NewConfigMissingError("S3_BUCKET")
	}

	key := s.objectKey(filename)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.s3.PutObject(ctx, input); err != nil {
		return "", errs.NewStorageError(err)
	}

	s.logger.Info().Str("key", key).Msg("Uploaded object")
	return s.cfg.PublicBaseURL + "/" + key, nil
}

func (s *Storage) objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := catalog.Slug(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("uploads/%s/%s-%s%s", s.now().UTC().Format("2006/01"), uuid.NewString(), base, ext)
}
