package ocr

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DetectImage sniffs the content type of head and returns it with the file
// extension used on disk.
func DetectImage(head []byte) (mimeType, ext string, err error) {
	mimeType = http.DetectContentType(head)
	ext, ok := imageExtensions[mimeType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}
	return mimeType, ext, nil
}

// MimeTypeFor maps a stored file name back to its content type.
func MimeTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for mimeType, e := range imageExtensions {
		if e == ext {
			return mimeType
		}
	}
	return "application/octet-stream"
}

// DiskStorage keeps uploaded images under Dir/<user>/<uuid>.<ext>. Keys are
// slash-separated paths relative to Dir.
type DiskStorage struct {
	Dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStorage{Dir: dir}, nil
}

// Save writes r to a new file for owner and returns its key.
func (s *DiskStorage) Save(owner uuid.UUID, ext string, r io.Reader) (string, error) {
	key := path.Join(owner.String(), uuid.New().String()+ext)
	full := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create user upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return key, nil
}

func (s *DiskStorage) Read(key string) ([]byte, error) {
	return os.ReadFile(s.fullPath(key))
}

// Remove deletes the file; a missing file is not an error.
func (s *DiskStorage) Remove(key string) error {
	err := os.Remove(s.fullPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *DiskStorage) fullPath(key string) string {
	clean := path.Clean("/" + key)
	return filepath.Join(s.Dir, filepath.FromSlash(clean))
}
