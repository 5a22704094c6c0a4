package upload

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeyCallerPath(t *testing.T) {
	assert.Equal(t, "avatars/me.png", DeriveKey("/avatars/me.png", "original.jpg"))
	assert.Equal(t, "plain", DeriveKey("/plain", ""))
}

func TestDeriveKeyGeneratedWithExtension(t *testing.T) {
	key := DeriveKey("/", "photo.jpg")
	require.True(t, strings.HasSuffix(key, ".jpg"), "key %q", key)

	_, err := uuid.Parse(strings.TrimSuffix(key, ".jpg"))
	assert.NoError(t, err)
}

func TestDeriveKeyGeneratedNoExtension(t *testing.T) {
	key := DeriveKey("", "README")
	_, err := uuid.Parse(key)
	assert.NoError(t, err)
}

func TestDeriveKeyLastDotWins(t *testing.T) {
	key := DeriveKey("/", "archive.tar.gz")
	assert.True(t, strings.HasSuffix(key, ".gz"))
	assert.False(t, strings.HasSuffix(key, ".tar.gz.gz"))
}

func TestDeriveKeyUnique(t *testing.T) {
	a := DeriveKey("/", "a.png")
	b := DeriveKey("/", "a.png")
	assert.NotEqual(t, a, b)
}
