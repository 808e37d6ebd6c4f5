// Package media stores uploaded files in S3 and issues presigned upload URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"cheapbite/internal/config"
	"cheapbite/internal/models"
	"cheapbite/internal/observability"
)

const presignExpiry = 5 * time.Minute

// uploader is the subset of the S3 client the store uses. Narrowed for
// testability.
type uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store writes media objects to an S3 bucket and derives durable public URLs
// from the configured base.
type Store struct {
	client  uploader
	presign func(ctx context.Context, in *s3.PutObjectInput) (string, error)
	bucket  string
	baseURL string
	region  string
}

// NewStore builds a Store from the ambient AWS credential chain.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	presignClient := s3.NewPresignClient(client)

	return &Store{
		client: client,
		presign: func(ctx context.Context, in *s3.PutObjectInput) (string, error) {
			req, err := presignClient.PresignPutObject(ctx, in, func(opts *s3.PresignOptions) {
				opts.Expires = presignExpiry
			})
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket:  cfg.S3Bucket,
		baseURL: cfg.MediaBaseURL,
		region:  cfg.AWSRegion,
	}, nil
}

// ObjectKey derives the storage key for an upload: a per-user prefix, a
// random ID and the extension implied by the content type.
func ObjectKey(userID uint, contentType string) string {
	ext := extensionFor(contentType)
	return fmt.Sprintf("uploads/%d/%s%s", userID, uuid.New().String(), ext)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// AllowedContentType limits uploads to the media types posts can carry.
func AllowedContentType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "video/mp4":
		return true
	}
	return false
}

// URLFor returns the durable public URL for a stored key. Falls back to the
// virtual-hosted S3 form when no media base URL is configured.
func (s *Store) URLFor(key string) string {
	if s.baseURL != "" {
		return strings.TrimRight(s.baseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// Upload writes the object and returns its durable URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if !AllowedContentType(contentType) {
		return "", models.NewValidationError("unsupported content type: " + contentType)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", models.NewUnavailableError("media store unavailable", err)
	}
	if size > 0 {
		observability.MediaUploadBytes.Observe(float64(size))
	}
	return s.URLFor(key), nil
}

// PresignUpload issues a presigned PUT URL the client uploads to directly,
// plus the durable URL the object will have once uploaded.
func (s *Store) PresignUpload(ctx context.Context, userID uint, contentType string) (uploadURL, publicURL string, err error) {
	if !AllowedContentType(contentType) {
		return "", "", models.NewValidationError("unsupported content type: " + contentType)
	}

	key := ObjectKey(userID, contentType)
	uploadURL, err = s.presign(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", models.NewUnavailableError("media store unavailable", err)
	}
	return uploadURL, s.URLFor(key), nil
}

// newTestStore is used by tests to inject fakes.
func newTestStore(client uploader, presign func(context.Context, *s3.PutObjectInput) (string, error), bucket, baseURL, region string) *Store {
	return &Store{client: client, presign: presign, bucket: bucket, baseURL: baseURL, region: region}
}

// KeyFromURL recovers the object key from a durable URL issued by this
// store. Returns "" when the URL is not ours.
func (s *Store) KeyFromURL(rawURL string) string {
	base := strings.TrimRight(s.baseURL, "/") + "/"
	if s.baseURL != "" && strings.HasPrefix(rawURL, base) {
		return strings.TrimPrefix(rawURL, base)
	}
	hosted := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	if strings.HasPrefix(rawURL, hosted) {
		return strings.TrimPrefix(rawURL, hosted)
	}
	return ""
}
