package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// ErrObjectExists is returned by Upload when Overwrite is false and the key is taken.
var ErrObjectExists = errors.New("object already exists")

// UploadInput describes one file sent to the store.
type UploadInput struct {
	Data        []byte
	Name        string
	Folder      string
	ContentType string
	Overwrite   bool
}

// UploadResult is what the store hands back after a confirmed upload.
type UploadResult struct {
	FileID string
	Name   string
	URL    string
}

// RemoteFile is one entry returned by ListFiles.
type RemoteFile struct {
	FileID string
	Name   string
	Size   int64
}

// ObjectStore is the remote image host.
type ObjectStore interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)

	// ListFiles returns the stored files in folder whose name equals
	// nameQuery. An empty folder searches the whole store.
	ListFiles(ctx context.Context, folder, nameQuery string) ([]RemoteFile, error)

	DeleteFile(ctx context.Context, fileID string) error
}

// PresignedUpload lets a client PUT a file straight to the store.
type PresignedUpload struct {
	URL       string
	Method    string
	Headers   map[string]string
	Key       string
	PublicURL string
	ExpiresAt time.Time
}

// Presigner issues direct-upload URLs.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*PresignedUpload, error)
}

// ObjectKey joins folder and name into the key used by the store.
func ObjectKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// KeyMatches reports whether key is the object folder/name, or any object
// called name when folder is empty.
func KeyMatches(key, folder, name string) bool {
	if strings.Trim(folder, "/") == "" {
		return NameFromKey(key) == name
	}
	return key == ObjectKey(folder, name)
}

// NameFromKey returns the file name part of an object key.
func NameFromKey(key string) string {
	return path.Base(key)
}
