package storage

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"

	"github.com/lingualink/api/infrastructure/config"
)

type S3Storage struct {
	client    *s3.S3
	bucket    string
	publicURL string
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Storage.S3Region)
	if cfg.Storage.S3Endpoint != "" {
		// Non-AWS, S3-compatible endpoints (minio and friends) need
		// path-style addressing.
		awsCfg = awsCfg.WithEndpoint(cfg.Storage.S3Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create aws session")
	}

	publicURL := cfg.Storage.S3PublicURL
	if publicURL == "" {
		publicURL = "https://" + cfg.Storage.S3Bucket + ".s3." + cfg.Storage.S3Region + ".amazonaws.com"
	}

	return &S3Storage{
		client:    s3.New(sess),
		bucket:    cfg.Storage.S3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to upload object %s", key)
	}

	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete object %s", key)
	}

	return nil
}

func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + key
}
