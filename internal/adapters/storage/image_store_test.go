package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func TestS3ImageStore_Save(t *testing.T) {
	client := new(mockS3)
	store := &S3ImageStore{client: client, bucket: "vendors", prefix: "uploads/"}

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "vendors" && *in.Key == "uploads/vendor_u1_logo.png" && *in.ContentType == "image/png"
	})).Return(nil)

	ref, err := store.Save(context.Background(), "vendor_u1_logo.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "vendor_u1_logo.png", ref)
	client.AssertExpectations(t)
}

func TestS3ImageStore_SaveError(t *testing.T) {
	client := new(mockS3)
	store := &S3ImageStore{client: client, bucket: "vendors", prefix: "uploads/"}
	client.On("PutObject", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := store.Save(context.Background(), "k.png", "image/png", strings.NewReader(""))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLocalImageStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalImageStore(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "review_c1_v1_photo.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "review_c1_v1_photo.jpg", ref)

	f, err := os.Open(filepath.Join(dir, ref))
	require.NoError(t, err)
	defer f.Close()
	content, _ := io.ReadAll(f)
	assert.Equal(t, "jpeg-bytes", string(content))
}

func TestLocalImageStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../escape.png", "image/png", strings.NewReader(""))
	assert.Error(t, err)
}
