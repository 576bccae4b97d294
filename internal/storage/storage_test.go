package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeshare/apiserver/config"
)

func TestNewFromConfigDisabled(t *testing.T) {
	s, err := NewFromConfig(context.Background(), config.StorageConfig{Backend: config.StorageBackendNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = NewFromConfig(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), config.StorageConfig{Backend: config.StorageBackendMinio})
	assert.Error(t, err, "minio requires credentials")
}

func TestStorageWithMemoryBackend(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryClient("media")
	s := NewStorage(backend)

	require.NoError(t, s.EnsureBucket(ctx))
	assert.Equal(t, "media", s.Bucket())

	require.NoError(t, s.Put(ctx, "thumbnails/1/a.png", strings.NewReader("png"), 3, "image/png"))

	rc, err := s.Get(ctx, "thumbnails/1/a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png", string(data))

	obj, ok := backend.Object("thumbnails/1/a.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, s.Delete(ctx, "thumbnails/1/a.png"))
	require.NoError(t, s.Delete(ctx, "thumbnails/1/a.png"), "deleting a missing object succeeds")

	_, err = s.Get(ctx, "thumbnails/1/a.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
