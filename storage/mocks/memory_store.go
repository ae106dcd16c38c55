package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tournament-platform/storage"
)

// MemoryStore is an in-memory ObjectStore and Presigner for tests.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]storedObject

	UploadCalls  int
	ListCalls    int
	DeleteCalls  int
	PresignCalls int

	// Failures injected by tests; nil means succeed.
	UploadErr error
	ListErr   error
	DeleteErr error
}

type storedObject struct {
	name        string
	contentType string
	data        []byte
}

// NewMemoryStore creates an empty store whose URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string]storedObject),
	}
}

func (m *MemoryStore) Upload(ctx context.Context, in storage.UploadInput) (*storage.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UploadCalls++
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}

	key := storage.ObjectKey(in.Folder, in.Name)
	if _, ok := m.objects[key]; ok && !in.Overwrite {
		return nil, storage.ErrObjectExists
	}
	data := make([]byte, len(in.Data))
	copy(data, in.Data)
	m.objects[key] = storedObject{name: in.Name, contentType: in.ContentType, data: data}

	return &storage.UploadResult{FileID: key, Name: in.Name, URL: m.baseURL + "/" + key}, nil
}

func (m *MemoryStore) ListFiles(ctx context.Context, folder, nameQuery string) ([]storage.RemoteFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var files []storage.RemoteFile
	for key, obj := range m.objects {
		if obj.name == nameQuery && storage.KeyMatches(key, folder, nameQuery) {
			files = append(files, storage.RemoteFile{FileID: key, Name: obj.name, Size: int64(len(obj.data))})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].FileID < files[j].FileID })
	return files, nil
}

func (m *MemoryStore) DeleteFile(ctx context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.objects[fileID]; !ok {
		return fmt.Errorf("file not found: %s", fileID)
	}
	delete(m.objects, fileID)
	return nil
}

func (m *MemoryStore) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*storage.PresignedUpload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PresignCalls++
	return &storage.PresignedUpload{
		URL:       m.baseURL + "/" + key + "?signature=test",
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": contentType},
		Key:       key,
		PublicURL: m.baseURL + "/" + key,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// Has reports whether an object with this key is stored.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Put seeds an object directly, bypassing counters.
func (m *MemoryStore) Put(folder, name string, data []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := storage.ObjectKey(folder, name)
	m.objects[key] = storedObject{name: name, data: data}
	return m.baseURL + "/" + key
}

// Calls returns the total number of store round-trips made so far.
func (m *MemoryStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UploadCalls + m.ListCalls + m.DeleteCalls
}
