package ingest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	e "github.com/julianlk522/miniface/error"
)

const DEFAULT_IMAGE_EXTENSION = ".jpg"

var safe_extension = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

type BlobStore interface {
	Store(ctx context.Context, data []byte, filename_hint string, mime_type_hint string) (string, error)
	Delete(ctx context.Context, locator string) error
}

// DiskBlobStore writes blobs into Dir and hands out locators under
// MountPath, where Dir is served as static content.
type DiskBlobStore struct {
	Dir       string
	MountPath string
}

func NewDiskBlobStore(dir string, mount_path string) *DiskBlobStore {
	return &DiskBlobStore{
		Dir:       dir,
		MountPath: "/" + strings.Trim(mount_path, "/"),
	}
}

// Store writes data under a fresh random name; only the extension is
// taken from the hints.
func (ds *DiskBlobStore) Store(ctx context.Context, data []byte, filename_hint string, mime_type_hint string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", e.ErrEmptyImage
	}

	if err := os.MkdirAll(ds.Dir, 0o755); err != nil {
		return "", err
	}
	root, err := os.OpenRoot(ds.Dir)
	if err != nil {
		return "", err
	}
	defer root.Close()

	file_name := NewBlobName(ChooseExtension(filename_hint, mime_type_hint))
	f, err := root.OpenFile(file_name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	if _, err = f.Write(data); err != nil {
		f.Close()
		root.Remove(file_name)
		return "", err
	}
	if err = f.Close(); err != nil {
		root.Remove(file_name)
		return "", err
	}

	return ds.MountPath + "/" + file_name, nil
}

// Delete removes the blob behind a locator previously returned by Store.
// Missing blobs are not an error.
func (ds *DiskBlobStore) Delete(ctx context.Context, locator string) error {
	file_name, err := ds.FileName(locator)
	if err != nil {
		return err
	}

	root, err := os.OpenRoot(ds.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer root.Close()

	if err := root.Remove(file_name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// FileName maps "/uploads/<name>" back to "<name>".
func (ds *DiskBlobStore) FileName(locator string) (string, error) {
	file_name, found := strings.CutPrefix(locator, ds.MountPath+"/")
	if !found || file_name == "" || strings.ContainsAny(file_name, `/\`) || !filepath.IsLocal(file_name) {
		return "", e.ErrInvalidLocator
	}

	return file_name, nil
}

// Path on disk of the blob behind a locator.
func (ds *DiskBlobStore) Path(locator string) (string, error) {
	file_name, err := ds.FileName(locator)
	if err != nil {
		return "", err
	}

	return filepath.Join(ds.Dir, file_name), nil
}

func NewBlobName(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

// filename suffix > extension for the MIME type > ".jpg"
func ChooseExtension(filename_hint string, mime_type_hint string) string {
	if ext := ExtensionFromFilename(filename_hint); ext != "" {
		return ext
	}
	if ext := ExtensionFromMimeType(mime_type_hint); ext != "" {
		return ext
	}

	return DEFAULT_IMAGE_EXTENSION
}

// Returns "" unless the suffix is short and alphanumeric.
// Dotfiles like ".png" have no suffix.
func ExtensionFromFilename(file_name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(file_name), `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}

	ext := strings.ToLower(path.Ext(base))
	if ext == base {
		return ""
	}
	if !safe_extension.MatchString(ext) {
		return ""
	}

	return ext
}

func ExtensionFromMimeType(mime_type string) string {
	mime_type, _, _ = strings.Cut(mime_type, ";")
	mime_type = strings.ToLower(strings.TrimSpace(mime_type))
	if mime_type == "" {
		return ""
	}

	mt := mimetype.Lookup(mime_type)
	if mt == nil {
		return ""
	}

	ext := strings.ToLower(mt.Extension())
	if !safe_extension.MatchString(ext) {
		return ""
	}

	return ext
}
