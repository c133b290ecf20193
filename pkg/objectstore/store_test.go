package objectstore_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	"github.com/aaravmahajanofficial/bookstore-platform/pkg/objectstore"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func TestPut(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Public Read With Configured Base URL", func(t *testing.T) {
		client := new(mockS3)
		store := objectstore.NewWithClient(client, config.Storage{Bucket: "media", PublicBaseURL: "https://cdn.example.com/"})

		client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, _ := io.ReadAll(in.Body)

			return aws.ToString(in.Bucket) == "media" &&
				aws.ToString(in.Key) == "book-1.png" &&
				aws.ToString(in.ContentType) == "image/png" &&
				in.ACL == types.ObjectCannedACLPublicRead &&
				string(body) == "png-bytes"
		})).Return(&s3.PutObjectOutput{}, nil).Once()

		url, err := store.Put(ctx, "book-1.png", "image/png", []byte("png-bytes"))

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/book-1.png", url)
		client.AssertExpectations(t)
	})

	t.Run("Success - Default AWS URL", func(t *testing.T) {
		client := new(mockS3)
		store := objectstore.NewWithClient(client, config.Storage{Bucket: "media", Region: "eu-west-1"})

		client.On("PutObject", ctx, mock.Anything).Return(&s3.PutObjectOutput{}, nil).Once()

		url, err := store.Put(ctx, "avatar-1.jpg", "image/jpeg", []byte("x"))

		require.NoError(t, err)
		assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/avatar-1.jpg", url)
	})

	t.Run("Failure - Upload Error", func(t *testing.T) {
		client := new(mockS3)
		store := objectstore.NewWithClient(client, config.Storage{Bucket: "media", Endpoint: "http://minio:9000"})
		uploadErr := errors.New("access denied")

		client.On("PutObject", ctx, mock.Anything).Return(nil, uploadErr).Once()

		url, err := store.Put(ctx, "book-2.png", "image/png", []byte("x"))

		require.Error(t, err)
		assert.Empty(t, url)
		assert.ErrorIs(t, err, uploadErr)
	})
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	client := new(mockS3)
	store := objectstore.NewWithClient(client, config.Storage{Bucket: "media"})

	client.On("HeadBucket", ctx, mock.Anything).Return(&s3.HeadBucketOutput{}, nil).Once()
	require.NoError(t, store.Ping(ctx))

	client.On("HeadBucket", ctx, mock.Anything).Return(nil, errors.New("no such bucket")).Once()
	err := store.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket media is unreachable")
}
