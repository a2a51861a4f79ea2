// Package artifact mirrors run workbooks to S3.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PutObjectAPI is the slice of the S3 client the mirror uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config locates the mirror.
type S3Config struct {
	Bucket string
	Prefix string
	Logger *slog.Logger

	// Client overrides the client built from the default AWS config chain.
	Client PutObjectAPI
}

// S3Mirror writes each workbook to s3://bucket/prefix/<project id>/<filename>.
type S3Mirror struct {
	log    *slog.Logger
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Mirror builds a mirror. Credentials and region come from the standard
// AWS environment (env vars, shared config, instance role).
func NewS3Mirror(ctx context.Context, cfg S3Config) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client := cfg.Client
	if client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Mirror{
		log:    cfg.Logger,
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Key returns the object key for a project's workbook.
func (m *S3Mirror) Key(projectID uuid.UUID, filename string) string {
	return path.Join(m.prefix, projectID.String(), filename)
}

// Put uploads data, replacing any object with the same key.
func (m *S3Mirror) Put(ctx context.Context, projectID uuid.UUID, filename string, data []byte) error {
	key := m.Key(projectID, filename)

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", m.bucket, key, err)
	}

	m.log.Info("artifact mirrored", "bucket", m.bucket, "key", key, "bytes", len(data))
	return nil
}
