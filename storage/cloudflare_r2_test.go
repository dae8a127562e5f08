package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectClient struct {
	putInput    *s3.PutObjectInput
	putBody     string
	deletedKeys []string
	err         error
}

func (f *fakeObjectClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.putInput = in
	body, _ := io.ReadAll(in.Body)
	f.putBody = string(body)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func (f *fakeObjectClient) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletedKeys = append(f.deletedKeys, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestNewCloudflareR2UploaderRequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID:  "acc",
		BucketName: "bucket",
	})
	assert.ErrorIs(t, err, ErrInvalidR2Config)
}

func TestUploadStoresObjectAndReturnsPublicURL(t *testing.T) {
	client := &fakeObjectClient{}
	u, err := newR2Uploader(client, "tournaments", "https://cdn.example.com/media")
	require.NoError(t, err)

	res, err := u.Upload(context.Background(), "tournaments/1/image-1.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "tournaments/1/image-1.png", res.Key)
	assert.Equal(t, "https://cdn.example.com/media/tournaments/1/image-1.png", res.Location)
	assert.Equal(t, "abc123", res.ETag)

	require.NotNil(t, client.putInput)
	assert.Equal(t, "tournaments", aws.ToString(client.putInput.Bucket))
	assert.Equal(t, "image/png", aws.ToString(client.putInput.ContentType))
	assert.Equal(t, "png-bytes", client.putBody)
	assert.Equal(t, int64(len("png-bytes")), aws.ToInt64(client.putInput.ContentLength))
}

func TestUploadSendsKnownContentLength(t *testing.T) {
	content := []byte("\x89PNG\r\n\x1a\ntournament-cover")

	var (
		gotLength   int64
		gotEncoding []string
		gotSize     string
	)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.ContentLength
		gotEncoding = r.TransferEncoding
		// При trailing checksum тело уходит в aws-chunked, исходный размер в отдельном заголовке.
		gotSize = r.Header.Get("X-Amz-Decoded-Content-Length")
		if gotSize == "" {
			gotSize = strconv.FormatInt(r.ContentLength, 10)
		}
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := s3.New(s3.Options{
		Region:       "auto",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
		HTTPClient:   srv.Client(),
	})
	u, err := newR2Uploader(client, "tournaments", "https://cdn.example.com")
	require.NoError(t, err)

	res, err := u.Upload(context.Background(), "tournaments/1/image-1.png", "image/png", bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "etag-1", res.ETag)
	assert.Positive(t, gotLength, "request must carry Content-Length")
	assert.Empty(t, gotEncoding, "request must not be sent chunked")
	assert.Equal(t, strconv.Itoa(len(content)), gotSize)
}

func TestUploadKeepsReadPosition(t *testing.T) {
	client := &fakeObjectClient{}
	u, err := newR2Uploader(client, "b", "https://cdn.example.com")
	require.NoError(t, err)

	body := strings.NewReader("headerpayload")
	_, err = body.Seek(int64(len("header")), io.SeekStart)
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), "k", "image/png", body)
	require.NoError(t, err)
	assert.Equal(t, int64(len("payload")), aws.ToInt64(client.putInput.ContentLength))
	assert.Equal(t, "payload", client.putBody)
}

func TestUploadWrapsClientError(t *testing.T) {
	boom := errors.New("bucket unavailable")
	u, err := newR2Uploader(&fakeObjectClient{err: boom}, "b", "https://cdn.example.com")
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), "k", "image/png", strings.NewReader(""))
	assert.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	client := &fakeObjectClient{}
	u, err := newR2Uploader(client, "b", "https://cdn.example.com")
	require.NoError(t, err)

	require.NoError(t, u.Delete(context.Background(), "tournaments/1/image-1.png"))
	assert.Equal(t, []string{"tournaments/1/image-1.png"}, client.deletedKeys)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{base: "https://cdn.example.com", key: "a/b.png", want: "https://cdn.example.com/a/b.png"},
		{base: "https://cdn.example.com/", key: "/a/b.png", want: "https://cdn.example.com/a/b.png"},
		{base: "https://cdn.example.com/media", key: "a.png", want: "https://cdn.example.com/media/a.png"},
		{base: "https://cdn.example.com", key: "", want: ""},
	}
	for _, tt := range tests {
		u, err := newR2Uploader(&fakeObjectClient{}, "b", tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, u.publicURL(tt.key), "base=%q key=%q", tt.base, tt.key)
	}
}
