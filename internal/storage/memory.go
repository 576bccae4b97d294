package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryObject is an object held by MemoryClient.
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryClient keeps objects in process memory.
type MemoryClient struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]MemoryObject
}

func NewMemoryClient(bucket string) *MemoryClient {
	return &MemoryClient{bucket: bucket, objects: make(map[string]MemoryObject)}
}

func (m *MemoryClient) EnsureBucket(ctx context.Context) error {
	return nil
}

func (m *MemoryClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{Data: data, ContentType: contentType}
	return nil
}

func (m *MemoryClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.Data)), nil
}

func (m *MemoryClient) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryClient) Bucket() string {
	return m.bucket
}

// Object returns a stored object and whether it exists.
func (m *MemoryClient) Object(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}
