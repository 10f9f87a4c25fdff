package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Options struct {
	Bucket string
	Prefix string
	// PublicBaseURL, when set, is joined with the object key to form the returned URL.
	// Otherwise a presigned GET URL valid for PresignTTL is returned.
	PublicBaseURL string
	PresignTTL    time.Duration
}

// S3 stores photos in an S3 bucket.
type S3 struct {
	put     s3PutAPI
	presign s3PresignAPI
	opts    S3Options
	newKey  func() string
}

func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 uploader: bucket is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 uploader: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return newS3(client, s3.NewPresignClient(client), opts), nil
}

func newS3(put s3PutAPI, presign s3PresignAPI, opts S3Options) *S3 {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 7 * 24 * time.Hour
	}
	return &S3{put: put, presign: presign, opts: opts, newKey: uuid.NewString}
}

func (s *S3) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	ct, img, err := sniffImage(body)
	if err != nil {
		return "", err
	}
	// PutObject needs a seekable body to sign the payload.
	b, err := io.ReadAll(img)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	key := path.Join(s.opts.Prefix, s.newKey()+extensionFor(ct, filename))
	_, err = s.put.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(b),
		ContentType:   aws.String(ct),
		ContentLength: aws.Int64(int64(len(b))),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}

	if s.opts.PublicBaseURL != "" {
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + key, nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = s.opts.PresignTTL
	})
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", key, err)
	}
	return req.URL, nil
}

func extensionFor(contentType, filename string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	}
	return strings.ToLower(filepath.Ext(filename))
}
