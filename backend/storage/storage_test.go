package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"courseplatform/backend/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart header the way fiber hands it over.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, BucketPDFs, BucketFor(".PDF"))
	assert.Equal(t, BucketImages, BucketFor(".svg"))
	assert.Equal(t, BucketFiles, BucketFor(".zip"))
}

func TestSave(t *testing.T) {
	root := t.TempDir()
	s := New(root, 1024)
	require.NoError(t, s.Init())

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF")
	stored, err := s.Save(fileHeader(t, "Slides.pdf", pdf))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "/uploads/pdfs/"))
	assert.True(t, strings.HasSuffix(stored.Path, ".pdf"))
	assert.Equal(t, "application/pdf", stored.ContentType)

	onDisk, err := os.ReadFile(filepath.Join(root, "pdfs", filepath.Base(stored.Path)))
	require.NoError(t, err)
	assert.Equal(t, pdf, onDisk)

	require.NoError(t, s.Remove(stored.Path))
	_, err = os.Stat(filepath.Join(root, "pdfs", filepath.Base(stored.Path)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Remove("/etc/passwd"))
}

func TestSaveRejects(t *testing.T) {
	s := New(t.TempDir(), 16)
	var ve *apperr.ValidationError

	_, err := s.Save(fileHeader(t, "run.exe", []byte("MZ")))
	require.ErrorAs(t, err, &ve)

	_, err = s.Save(fileHeader(t, "big.txt", bytes.Repeat([]byte("a"), 17)))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "too large", ve.Fields["file"])

	_, err = s.Save(fileHeader(t, "fake.pdf", []byte("plain text")))
	require.ErrorAs(t, err, &ve)
}

func TestRemoveStaysInsideBuckets(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "uploads")
	s := New(root, 1024)
	require.NoError(t, s.Init())

	outside := filepath.Join(parent, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	inRoot := filepath.Join(root, "keep.txt")
	require.NoError(t, os.WriteFile(inRoot, []byte("x"), 0o644))

	for _, p := range []string{"/uploads/../keep.txt", "/uploads/keep.txt", "/uploads/../../keep.txt", "/uploads/other/keep.txt", "/uploads/files/../keep.txt"} {
		assert.NoError(t, s.Remove(p), p)
	}

	_, err := os.Stat(outside)
	assert.NoError(t, err)
	_, err = os.Stat(inRoot)
	assert.NoError(t, err)
}
