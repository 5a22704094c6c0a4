package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	s := NewMemoryStorage("http://localhost:9000/uploads/")
	ctx := context.Background()

	err := s.Upload(ctx, "a/b.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)

	obj, info, err := s.Get(ctx, "a/b.txt")
	require.NoError(t, err)
	defer obj.Close()

	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", info.ContentType)
	assert.Equal(t, int64(5), info.Size)
	assert.NotEmpty(t, info.ETag)

	// Trailing slash on the public base is normalized away.
	assert.Equal(t, "http://localhost:9000/uploads/a/b.txt", s.PublicURL("a/b.txt"))
}

func TestMemoryStorageOverwrite(t *testing.T) {
	s := NewMemoryStorage("http://example.com")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "k", strings.NewReader("first"), 5, "text/plain"))
	require.NoError(t, s.Upload(ctx, "k", strings.NewReader("second"), 6, "image/png"))

	obj, info, err := s.Get(ctx, "k")
	require.NoError(t, err)
	defer obj.Close()

	data, _ := io.ReadAll(obj)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStorageNotFound(t *testing.T) {
	s := NewMemoryStorage("http://example.com")

	obj, info, err := s.Get(context.Background(), "missing")
	assert.Nil(t, obj)
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(context.Background(), "missing"))
}
