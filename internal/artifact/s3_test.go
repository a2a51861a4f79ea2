package artifact

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestNewS3Mirror_RequiresBucket(t *testing.T) {
	_, err := NewS3Mirror(context.Background(), S3Config{Client: &fakeS3{}})
	assert.Error(t, err)
}

func TestS3Mirror_Put(t *testing.T) {
	fake := &fakeS3{}
	m, err := NewS3Mirror(context.Background(), S3Config{Bucket: "reports", Prefix: "/surveybase/", Client: fake})
	require.NoError(t, err)

	id := uuid.MustParse("6f1c1f3e-8d3e-4b8e-9a53-0d1a5d3f2b11")
	require.NoError(t, m.Put(context.Background(), id, "Encuesta-2026-03-05-pr.xlsx", []byte("PK")))

	assert.Equal(t, "reports", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "surveybase/6f1c1f3e-8d3e-4b8e-9a53-0d1a5d3f2b11/Encuesta-2026-03-05-pr.xlsx", aws.ToString(fake.input.Key))
	assert.Equal(t, ContentType, aws.ToString(fake.input.ContentType))
	assert.Equal(t, []byte("PK"), fake.body)
}

func TestS3Mirror_PutError(t *testing.T) {
	fake := &fakeS3{err: errors.New("AccessDenied")}
	m, err := NewS3Mirror(context.Background(), S3Config{Bucket: "reports", Client: fake})
	require.NoError(t, err)

	err = m.Put(context.Background(), uuid.New(), "a.xlsx", nil)
	assert.ErrorContains(t, err, "AccessDenied")
	assert.ErrorContains(t, err, "s3://reports/")
}
