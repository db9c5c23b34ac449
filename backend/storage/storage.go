// Package storage keeps uploaded resource files on local disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"courseplatform/backend/apperr"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Buckets
const (
	BucketPDFs   = "pdfs"
	BucketImages = "images"
	BucketFiles  = "files"
)

var knownBuckets = map[string]bool{BucketPDFs: true, BucketImages: true, BucketFiles: true}

// PublicPrefix is the URL path the upload root is served under.
const PublicPrefix = "/uploads"

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
}

var allowedExts = map[string]bool{
	".pdf": true,
	".zip": true, ".tar": true, ".gz": true,
	".md": true, ".txt": true, ".html": true, ".css": true, ".js": true,
	".ts": true, ".json": true, ".xml": true, ".csv": true,
	".mp4": true, ".webm": true,
}

func init() {
	for ext := range imageExts {
		allowedExts[ext] = true
	}
}

// BucketFor picks the subdirectory for a file extension.
func BucketFor(ext string) string {
	ext = strings.ToLower(ext)
	switch {
	case ext == ".pdf":
		return BucketPDFs
	case imageExts[ext]:
		return BucketImages
	default:
		return BucketFiles
	}
}

// Stored describes a saved upload.
type Stored struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Store struct {
	Root     string
	MaxBytes int64
}

func New(root string, maxBytes int64) *Store {
	return &Store{Root: root, MaxBytes: maxBytes}
}

// Init creates the bucket directories.
func (s *Store) Init() error {
	for _, b := range []string{BucketPDFs, BucketImages, BucketFiles} {
		if err := os.MkdirAll(filepath.Join(s.Root, b), 0o755); err != nil {
			return fmt.Errorf("create upload dir %s: %w", b, err)
		}
	}
	return nil
}

// Save writes the upload under a random name and returns its public path.
func (s *Store) Save(fh *multipart.FileHeader) (*Stored, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return nil, apperr.InvalidFields(map[string]string{"file": "extension " + ext + " is not allowed"})
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return nil, apperr.InvalidFields(map[string]string{"file": "too large"})
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mime, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if ext == ".pdf" && !mime.Is("application/pdf") {
		return nil, apperr.InvalidFields(map[string]string{"file": "not a PDF document"})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	bucket := BucketFor(ext)
	name := uuid.NewString() + ext
	dir := filepath.Join(s.Root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &Stored{
		Path:        path.Join(PublicPrefix, bucket, name),
		ContentType: mime.String(),
		Size:        size,
	}, nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// upload root and missing files are ignored.
func (s *Store) Remove(publicPath string) error {
	cleaned := path.Clean(publicPath)
	rel, ok := strings.CutPrefix(cleaned, PublicPrefix+"/")
	if !ok {
		return nil
	}
	bucket, name, ok := strings.Cut(rel, "/")
	if !ok || !knownBuckets[bucket] || name == "" || strings.Contains(name, "/") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, bucket, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
