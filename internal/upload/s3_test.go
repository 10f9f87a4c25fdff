package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePut struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePut) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

type fakePresign struct {
	key     string
	expires time.Duration
}

func (f *fakePresign) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.key = aws.ToString(in.Key)
	var po s3.PresignOptions
	for _, fn := range optFns {
		fn(&po)
	}
	f.expires = po.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.amazonaws.com/" + f.key + "?X-Amz-Signature=sig"}, nil
}

func TestS3UploadPublicURL(t *testing.T) {
	put := &fakePut{}
	s := newS3(put, &fakePresign{}, S3Options{Bucket: "photos", Prefix: "profiles", PublicBaseURL: "https://cdn.example.com/"})
	s.newKey = func() string { return "k1" }

	url, err := s.Upload(context.Background(), "Me.PNG", strings.NewReader(string(pngBytes)))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/profiles/k1.png", url)
	assert.Equal(t, "photos", aws.ToString(put.in.Bucket))
	assert.Equal(t, "profiles/k1.png", aws.ToString(put.in.Key))
	assert.Equal(t, "image/png", aws.ToString(put.in.ContentType))
	assert.Equal(t, int64(len(pngBytes)), aws.ToInt64(put.in.ContentLength))
	assert.Equal(t, pngBytes, put.body)
}

func TestS3UploadPresigned(t *testing.T) {
	pre := &fakePresign{}
	s := newS3(&fakePut{}, pre, S3Options{Bucket: "photos", Prefix: "p"})
	s.newKey = func() string { return "k2" }

	url, err := s.Upload(context.Background(), "me.png", strings.NewReader(string(pngBytes)))
	require.NoError(t, err)

	assert.Equal(t, "p/k2.png", pre.key)
	assert.Equal(t, 7*24*time.Hour, pre.expires)
	assert.True(t, strings.HasPrefix(url, "https://bucket.s3.amazonaws.com/p/k2.png?"))
}

func TestS3UploadPutError(t *testing.T) {
	s := newS3(&fakePut{err: errors.New("access denied")}, &fakePresign{}, S3Options{Bucket: "photos"})
	_, err := s.Upload(context.Background(), "me.png", strings.NewReader(string(pngBytes)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3RejectsNonImage(t *testing.T) {
	put := &fakePut{}
	s := newS3(put, &fakePresign{}, S3Options{Bucket: "photos"})
	_, err := s.Upload(context.Background(), "x.txt", strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, put.in)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg", "a.jpeg"))
	assert.Equal(t, ".webp", extensionFor("image/webp", "a"))
	assert.Equal(t, ".ico", extensionFor("image/x-icon", "favicon.ICO"))
}
