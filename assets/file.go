package assets

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// Logical folders on the object store.
const (
	FolderPlayers     = "player_images"
	FolderTeams       = "team_images"
	FolderTournaments = "tournament_images"
	FolderNews        = "news_images"
	FolderGallery     = "gallery_images"
)

// Folders lists every folder clients may target.
var Folders = map[string]bool{
	FolderPlayers:     true,
	FolderTeams:       true,
	FolderTournaments: true,
	FolderNews:        true,
	FolderGallery:     true,
}

// File is an inbound upload candidate. Its content is only opened by Upload.
type File struct {
	Name        string
	Size        int64
	ContentType string

	open func() (io.ReadCloser, error)
}

// FileFromHeader adapts a multipart part. A nil header yields a nil File.
func FileFromHeader(h *multipart.FileHeader) *File {
	if h == nil {
		return nil
	}
	return &File{
		Name:        h.Filename,
		Size:        h.Size,
		ContentType: h.Header.Get("Content-Type"),
		open: func() (io.ReadCloser, error) {
			return h.Open()
		},
	}
}

// NewFile wraps in-memory content.
func NewFile(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Supplied reports whether the client actually sent a file.
func (f *File) Supplied() bool {
	return f != nil && f.Name != "" && f.Size > 0
}

// MimeSubtype returns the lower-cased subtype of the declared content type.
func (f *File) MimeSubtype() string {
	if f == nil {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		mediaType = f.ContentType
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(sub))
}

// Asset is a stored file as referenced by an entity.
type Asset struct {
	URL    string
	Name   string
	Folder string
}

// IsZero reports whether no asset is referenced.
func (a Asset) IsZero() bool {
	return a.URL == "" && a.Name == ""
}

// AssetFromURL rebuilds an Asset for rows that only kept the URL.
func AssetFromURL(raw string) Asset {
	return Asset{URL: raw, Name: NameFromURL(raw), Folder: FolderFromURL(raw)}
}

// Ref builds the asset for an entity's stored URL and name, falling back to
// the URL's last path segment when the name was never recorded.
func Ref(rawURL, name string) Asset {
	if name == "" {
		return AssetFromURL(rawURL)
	}
	return Asset{URL: rawURL, Name: name, Folder: FolderFromURL(rawURL)}
}

// FolderFromURL returns the store folder of a stored URL, the segment before
// the name. Segments that are not a known folder yield "".
func FolderFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	dir := path.Dir(strings.TrimRight(u.Path, "/"))
	folder := path.Base(dir)
	if !Folders[folder] {
		return ""
	}
	return folder
}

// NameFromURL returns the generated name embedded in a stored URL, which is
// the last path segment of https://<host>/<account>/<folder>/<name>.
func NameFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// sanitizeFileName keeps the extension and slugs the stem so the generated
// name is URL-safe.
func sanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return stem + ext
}
