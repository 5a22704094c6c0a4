package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"strings"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStorage is an in-memory Storage implementation used by tests and
// local development without a running MinIO.
type MemoryStorage struct {
	mu         sync.RWMutex
	objects    map[string]memoryObject
	publicBase string
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage(publicBase string) *MemoryStorage {
	return &MemoryStorage{
		objects:    make(map[string]memoryObject),
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// Upload stores the object under key, overwriting any existing one.
func (s *MemoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read upload %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

// Get returns the stored object and its metadata, or ErrNotFound.
func (s *MemoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, nil, ErrNotFound
	}

	return io.NopCloser(bytes.NewReader(obj.data)), &ObjectInfo{
		ContentType: obj.contentType,
		ETag:        fmt.Sprintf("%x", md5.Sum(obj.data)),
		Size:        int64(len(obj.data)),
	}, nil
}

// Delete removes the object at key. Deleting an absent key is a no-op,
// matching S3 semantics.
func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// PublicURL returns the public URL for the given key.
func (s *MemoryStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// Len reports the number of stored objects.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
