package assets

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts          []*s3.PutObjectInput
	bodies        [][]byte
	headErr       error
	createdBucket string
	putErr        error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createdBucket = aws.ToString(in.Bucket)
	return &s3.CreateBucketOutput{}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadPNG(t *testing.T) {
	fake := &fakeS3{}
	store := newQRStore(fake, "mealturn-qr", "https://cdn.example.com/", 1024)

	url, err := store.Upload(context.Background(), pngHeader)
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Equal(t, "mealturn-qr", aws.ToString(put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(put.ContentType))
	assert.True(t, strings.HasPrefix(aws.ToString(put.Key), "qr/"))
	assert.True(t, strings.HasSuffix(aws.ToString(put.Key), ".png"))
	assert.Equal(t, pngHeader, fake.bodies[0])
	assert.Equal(t, "https://cdn.example.com/mealturn-qr/"+aws.ToString(put.Key), url)
}

func TestUploadRejectsNonImages(t *testing.T) {
	fake := &fakeS3{}
	store := newQRStore(fake, "b", "http://s3", 1024)

	_, err := store.Upload(context.Background(), []byte("%PDF-1.4 not an image"))
	require.Error(t, err)
	assert.True(t, IsRejected(err))
	assert.Empty(t, fake.puts)

	_, err = store.Upload(context.Background(), nil)
	assert.True(t, IsRejected(err))
}

func TestUploadRejectsOversize(t *testing.T) {
	store := newQRStore(&fakeS3{}, "b", "http://s3", 8)

	_, err := store.Upload(context.Background(), pngHeader)
	require.Error(t, err)
	assert.True(t, IsRejected(err))
}

func TestUploadBackendFailureIsNotARejection(t *testing.T) {
	store := newQRStore(&fakeS3{putErr: errors.New("connection refused")}, "b", "http://s3", 0)

	_, err := store.Upload(context.Background(), pngHeader)
	require.Error(t, err)
	assert.False(t, IsRejected(err))
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{headErr: errors.New("not found")}
	store := newQRStore(fake, "mealturn-qr", "http://s3", 0)

	require.NoError(t, store.ensureBucket(context.Background()))
	assert.Equal(t, "mealturn-qr", fake.createdBucket)

	fake = &fakeS3{}
	store = newQRStore(fake, "mealturn-qr", "http://s3", 0)
	require.NoError(t, store.ensureBucket(context.Background()))
	assert.Empty(t, fake.createdBucket)
}
