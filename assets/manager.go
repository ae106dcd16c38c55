package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tournament-platform/storage"
)

// DefaultMaxBytes is the exclusive upper bound on upload size.
const DefaultMaxBytes int64 = 2_000_000

// DefaultSubtypes are the accepted image mime subtypes.
var DefaultSubtypes = []string{"png", "jpg", "jpeg"}

// OrphanRecorder keeps track of stored assets that could not be removed.
type OrphanRecorder interface {
	RecordOrphan(ctx context.Context, asset Asset, cause error) error
}

type Options struct {
	MaxBytes int64
	Subtypes []string
	// Protected URLs are never deleted, e.g. shared placeholder images.
	Protected []string
	Orphans   OrphanRecorder
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Manager owns the upload, locate, delete and replace lifecycle of every
// stored image.
type Manager struct {
	store     storage.ObjectStore
	maxBytes  int64
	subtypes  map[string]struct{}
	protected map[string]struct{}
	orphans   OrphanRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

func NewManager(store storage.ObjectStore, opts Options) *Manager {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if len(opts.Subtypes) == 0 {
		opts.Subtypes = DefaultSubtypes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Manager{
		store:     store,
		maxBytes:  opts.MaxBytes,
		subtypes:  make(map[string]struct{}, len(opts.Subtypes)),
		protected: make(map[string]struct{}, len(opts.Protected)),
		orphans:   opts.Orphans,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	for _, s := range opts.Subtypes {
		m.subtypes[strings.ToLower(s)] = struct{}{}
	}
	for _, u := range opts.Protected {
		if u != "" {
			m.protected[u] = struct{}{}
		}
	}
	return m
}

// SetOrphanRecorder wires the recorder after construction.
func (m *Manager) SetOrphanRecorder(r OrphanRecorder) {
	m.orphans = r
}

// ValidatedFile is a File that passed Validate. Upload only accepts these.
type ValidatedFile struct {
	file *File
}

func (v *ValidatedFile) Name() string {
	return v.file.Name
}

// Validate checks size first, then format, and reports the first failure.
func (m *Manager) Validate(f *File) (*ValidatedFile, error) {
	if f == nil {
		return nil, &ValidationError{Err: ErrUnsupportedFormat, Message: "No file supplied"}
	}
	if f.Size >= m.maxBytes {
		return nil, m.tooLarge()
	}
	if _, ok := m.subtypes[f.MimeSubtype()]; !ok {
		return nil, &ValidationError{
			Err:     ErrUnsupportedFormat,
			Message: "Only " + strings.ToUpper(strings.Join(m.sortedSubtypes(), ", ")) + " files are allowed",
		}
	}
	return &ValidatedFile{file: f}, nil
}

// CheckContentType validates a declared content type without a file body.
func (m *Manager) CheckContentType(contentType string) error {
	_, err := m.Validate(&File{Name: "content-type-check", Size: 1, ContentType: contentType})
	return err
}

func (m *Manager) tooLarge() error {
	return &ValidationError{
		Err:     ErrFileTooLarge,
		Message: SizeLimitMessage(m.maxBytes),
	}
}

// SizeLimitMessage is the client message for a photo of maxBytes or more.
func SizeLimitMessage(maxBytes int64) string {
	return fmt.Sprintf("Photo size should be less than %gMB", float64(maxBytes)/1_000_000)
}

func (m *Manager) sortedSubtypes() []string {
	out := make([]string, 0, len(m.subtypes))
	for _, s := range DefaultSubtypes {
		if _, ok := m.subtypes[s]; ok {
			out = append(out, s)
		}
	}
	for s := range m.subtypes {
		if !contains(DefaultSubtypes, s) {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GenerateName builds the stored name for an original file name.
func (m *Manager) GenerateName(original string) string {
	return fmt.Sprintf("%d_%s", m.now().UnixMilli(), sanitizeFileName(original))
}

// Upload reads the file fully and stores it under a generated name. The
// returned asset URL is the one confirmed by the store.
func (m *Manager) Upload(ctx context.Context, vf *ValidatedFile, folder string) (Asset, error) {
	if vf == nil || vf.file == nil {
		return Asset{}, errors.New("upload requires a validated file")
	}
	f := vf.file
	if f.open == nil {
		return Asset{}, errors.New("file has no content")
	}

	rc, err := f.open()
	if err != nil {
		return Asset{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, m.maxBytes))
	if err != nil {
		return Asset{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) >= m.maxBytes {
		return Asset{}, m.tooLarge()
	}

	name := m.GenerateName(f.Name)
	res, err := m.store.Upload(ctx, storage.UploadInput{
		Data:        data,
		Name:        name,
		Folder:      folder,
		ContentType: f.ContentType,
		Overwrite:   true,
	})
	if err != nil {
		return Asset{}, &StoreError{Op: "upload", Err: err}
	}
	if res == nil || res.URL == "" {
		return Asset{}, &StoreError{Op: "upload", Err: errors.New("store returned no url")}
	}

	m.logger.Debug().Str("folder", folder).Str("name", name).Msg("asset uploaded")
	return Asset{URL: res.URL, Name: name, Folder: folder}, nil
}

// Store validates and uploads in one step.
func (m *Manager) Store(ctx context.Context, f *File, folder string) (Asset, error) {
	vf, err := m.Validate(f)
	if err != nil {
		return Asset{}, err
	}
	return m.Upload(ctx, vf, folder)
}

// StoreOrDefault uploads f when supplied and otherwise returns the default
// URL without touching the store.
func (m *Manager) StoreOrDefault(ctx context.Context, f *File, folder, defaultURL string) (Asset, error) {
	if !f.Supplied() {
		return Asset{URL: defaultURL}, nil
	}
	return m.Store(ctx, f, folder)
}

// LocateByName returns the remote id of the first file in folder whose name
// matches exactly. An empty folder searches every folder. Results are never
// cached.
func (m *Manager) LocateByName(ctx context.Context, folder, name string) (string, bool, error) {
	if name == "" {
		return "", false, nil
	}
	files, err := m.store.ListFiles(ctx, folder, name)
	if err != nil {
		return "", false, &StoreError{Op: "search", Err: err}
	}
	for _, f := range files {
		if f.Name == name && storage.KeyMatches(f.FileID, folder, name) {
			return f.FileID, true, nil
		}
	}
	return "", false, nil
}

// DeleteByName removes the named file from folder. A missing file is not an
// error.
func (m *Manager) DeleteByName(ctx context.Context, folder, name string) error {
	id, found, err := m.LocateByName(ctx, folder, name)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := m.store.DeleteFile(ctx, id); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	m.logger.Debug().Str("folder", folder).Str("name", name).Msg("asset deleted")
	return nil
}

// Delete removes the file referenced by a stored URL. Only the folder named
// in the URL is searched.
func (m *Manager) Delete(ctx context.Context, assetURL string) error {
	if m.isProtected(assetURL) {
		return nil
	}
	a := AssetFromURL(assetURL)
	return m.DeleteByName(ctx, a.Folder, a.Name)
}

// Replace uploads the replacement for current. Without a supplied file it
// returns current unchanged and makes no store calls. The caller persists
// the returned asset and then calls Cleanup on the old one.
func (m *Manager) Replace(ctx context.Context, current Asset, f *File, folder string) (Asset, error) {
	if !f.Supplied() {
		return current, nil
	}
	return m.Store(ctx, f, folder)
}

// Swap runs Replace, persists the resulting asset, and only then removes the
// old one. persist is called with current when no file was supplied. If
// persist fails a new upload is discarded and current is returned.
func (m *Manager) Swap(ctx context.Context, current Asset, f *File, folder string, persist func(Asset) error) (Asset, error) {
	next, err := m.Replace(ctx, current, f, folder)
	if err != nil {
		return current, err
	}
	replaced := next != current
	if err := persist(next); err != nil {
		if replaced {
			m.Cleanup(ctx, next)
		}
		return current, err
	}
	if replaced {
		m.Cleanup(ctx, current)
	}
	return next, nil
}

// Create uploads f (or uses defaultURL when none is supplied) and persists
// it. A failed persist discards the upload.
func (m *Manager) Create(ctx context.Context, f *File, folder, defaultURL string, persist func(Asset) error) (Asset, error) {
	a, err := m.StoreOrDefault(ctx, f, folder, defaultURL)
	if err != nil {
		return Asset{}, err
	}
	if err := persist(a); err != nil {
		m.Cleanup(ctx, a)
		return Asset{}, err
	}
	return a, nil
}

// Cleanup deletes a no longer referenced asset. Failures are logged and
// recorded as orphans, never returned.
func (m *Manager) Cleanup(ctx context.Context, a Asset) {
	if a.IsZero() || m.isProtected(a.URL) {
		return
	}
	if a.Name == "" {
		a.Name = NameFromURL(a.URL)
	}
	if a.Name == "" {
		return
	}
	if a.Folder == "" {
		a.Folder = FolderFromURL(a.URL)
	}

	err := m.DeleteByName(ctx, a.Folder, a.Name)
	if err == nil {
		return
	}

	m.logger.Warn().Err(err).Str("name", a.Name).Str("url", a.URL).Msg("failed to delete stale asset")
	if m.orphans == nil {
		return
	}
	if rerr := m.orphans.RecordOrphan(ctx, a, err); rerr != nil {
		m.logger.Error().Err(rerr).Str("name", a.Name).Msg("failed to record orphaned asset")
	}
}

func (m *Manager) isProtected(u string) bool {
	_, ok := m.protected[u]
	return ok
}
