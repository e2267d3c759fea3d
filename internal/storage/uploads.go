package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxProfileImageSize is the largest accepted profile image upload.
const MaxProfileImageSize = 5 << 20 // 5MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ErrUnsupportedImageType is returned for uploads that are not JPEG, PNG
// or GIF.
var ErrUnsupportedImageType = fmt.Errorf("invalid file type, only JPEG, PNG and GIF images are allowed")

// UploadStorage stores uploaded profile images on local disk under
// <dir>/profiles. Stored filenames are random, the original name is
// discarded.
type UploadStorage struct {
	dir string
}

// NewUploadStorage creates the uploads directory tree if needed.
func NewUploadStorage(dir string) (*UploadStorage, error) {
	if err := os.MkdirAll(filepath.Join(dir, "profiles"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &UploadStorage{dir: dir}, nil
}

// Dir returns the uploads root, for static file serving.
func (s *UploadStorage) Dir() string {
	return s.dir
}

// SaveProfileImage writes an uploaded image to disk and returns the stored
// filename relative to the profiles directory.
func (s *UploadStorage) SaveProfileImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext, ok := allowedImageTypes[header.Header.Get("Content-Type")]
	if !ok {
		return "", ErrUnsupportedImageType
	}

	if header.Size > MaxProfileImageSize {
		return "", fmt.Errorf("file exceeds the %d byte limit", MaxProfileImageSize)
	}

	filename := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, "profiles", filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxProfileImageSize)); err != nil {
		return "", err
	}

	return filename, nil
}

// RemoveProfileImage deletes a stored profile image. A missing file is not
// an error; the database reference is authoritative.
func (s *UploadStorage) RemoveProfileImage(filename string) error {
	err := os.Remove(filepath.Join(s.dir, "profiles", filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
