package asset

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore persists generated media under the upload directory and hands
// back the public URL path clients use to fetch it.
type FileStore struct {
	uploadDir      string
	publicBasePath string
}

// NewFileStore creates a FileStore rooted at uploadDir. Files saved under a
// subdirectory are served at publicBasePath/subdir/filename.
func NewFileStore(uploadDir, publicBasePath string) *FileStore {
	if uploadDir == "" {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("uploadDir cannot be empty")
	}
	if publicBasePath == "" {
		publicBasePath = "/uploads"
	}

	return &FileStore{
		uploadDir:      uploadDir,
		publicBasePath: publicBasePath,
	}
}

// Save writes data into subdir under the upload root. The filename is the
// record id plus a fresh UUID, which makes regenerated assets cache-proof.
// It returns the public path to store on the record.
func (fs *FileStore) Save(subdir string, recordID uuid.UUID, ext string, data []byte) (string, error) {
	dir := filepath.Join(fs.uploadDir, filepath.FromSlash(subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	filename := fmt.Sprintf("%s-%s%s", recordID, uuid.NewString(), ext)

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset file %s: %w", filename, err)
	}

	return path.Join(fs.publicBasePath, subdir, filename), nil
}
