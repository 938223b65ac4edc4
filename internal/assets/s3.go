// Package assets stores payment QR images in an S3-compatible bucket.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/mansoorceksport/mealturn/internal/config"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/oklog/ulid/v2"
)

// ErrUnsupportedImage is returned for uploads that are not PNG, JPEG or WebP
var ErrUnsupportedImage = &domain.ValidationError{Field: "qrCodeImage", Message: "Ảnh QR phải là PNG, JPEG hoặc WebP"}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// QRStore uploads QR images and returns their public URL
type QRStore struct {
	client    objectAPI
	bucket    string
	publicURL string
	maxBytes  int64
}

// NewQRStore connects to the bucket described by cfg, creating it when
// missing.
func NewQRStore(ctx context.Context, cfg appConfig.S3Config, maxBytes int64) (*QRStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = cfg.Endpoint
	}

	store := newQRStore(client, cfg.Bucket, publicURL, maxBytes)
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newQRStore(client objectAPI, bucket, publicURL string, maxBytes int64) *QRStore {
	return &QRStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
	}
}

// Upload stores an image and returns the URL to send as qrCodeImage. The
// content type is sniffed from the bytes, not trusted from the form.
func (s *QRStore) Upload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &domain.ValidationError{Field: "qrCodeImage", Message: "Ảnh QR trống"}
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", &domain.ValidationError{
			Field:   "qrCodeImage",
			Message: fmt.Sprintf("Ảnh QR không được vượt quá %d KB", s.maxBytes/1024),
		}
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}

	key := path.Join("qr", strings.ToLower(ulid.Make().String())+ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload QR image: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

func (s *QRStore) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// IsRejected reports whether err is an upload the user must fix
func IsRejected(err error) bool {
	var v *domain.ValidationError
	return errors.As(err, &v)
}
