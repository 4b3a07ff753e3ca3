package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-api/backend/internal/testhelpers"
)

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	info, err := ValidateImage(testhelpers.PNG(t))
	require.NoError(t, err)
	assert.Equal(t, ".png", info.Ext)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, 10, info.Width)

	info, err = ValidateImage(jpegBytes(t))
	require.NoError(t, err)
	assert.Equal(t, ".jpg", info.Ext)

	_, err = ValidateImage([]byte("notimage"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = ValidateImage(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	png := testhelpers.PNG(t)
	_, err = ValidateImage(png[:len(png)/2])
	assert.ErrorIs(t, err, ErrInvalidImage, "truncated image must be rejected")
}

func TestNewImageKey(t *testing.T) {
	a := NewImageKey(".png")
	b := NewImageKey(".png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "uploads/recipe/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.True(t, validKey(a))
}

func TestValidKey(t *testing.T) {
	assert.True(t, validKey("uploads/recipe/a.png"))
	assert.False(t, validKey(""))
	assert.False(t, validKey("/etc/passwd"))
	assert.False(t, validKey("../secret"))
	assert.False(t, validKey("uploads/../../secret"))
	assert.False(t, validKey(".."))
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	key := "uploads/recipe/test.png"
	data := testhelpers.PNG(t)
	require.NoError(t, store.Save(ctx, key, data, "image/png"))

	got, err := os.ReadFile(filepath.Join(root, "uploads", "recipe", "test.png"))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	entries, err := os.ReadDir(filepath.Join(root, "uploads", "recipe"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	assert.Equal(t, "/media/uploads/recipe/test.png", store.URL(key))
	assert.Equal(t, "", store.URL(""))

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "uploads", "recipe", "test.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, key), "deleting a missing file is not an error")
	assert.ErrorIs(t, store.Save(ctx, "../escape.png", data, "image/png"), ErrInvalidKey)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3Store(t *testing.T) {
	client := new(mockS3)
	store := &S3Store{
		client: client,
		bucket: "recipes",
		urlFor: func(key string) string { return "https://recipes.s3.amazonaws.com/" + key },
	}
	ctx := context.Background()
	key := "uploads/recipe/a.png"

	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "recipes" && *in.Key == key && *in.ContentType == "image/png"
	})).Return(nil).Once()
	require.NoError(t, store.Save(ctx, key, []byte("data"), "image/png"))

	client.On("DeleteObject", ctx, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == key
	})).Return(errors.New("boom")).Once()
	assert.Error(t, store.Delete(ctx, key))

	assert.Equal(t, "https://recipes.s3.amazonaws.com/"+key, store.URL(key))
	client.AssertExpectations(t)
}
