package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"time"
)

// StoredFile is the result of persisting an uploaded payload.
type StoredFile struct {
	URL string // public URL the file is served from
	ID  string // backend identifier used for deletion
}

// FileStore persists and removes uploaded file payloads. Two implementations
// exist: Cloudinary (authoritative) and a local-filesystem fallback used when
// Cloudinary is not configured. Selection happens at startup.
type FileStore interface {
	Store(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*StoredFile, error)
	Delete(ctx context.Context, id string) error
	// Authoritative reports whether this backend is the system of record for
	// file payloads. A failed delete on an authoritative backend aborts the
	// surrounding operation; on a fallback backend it is logged and ignored.
	Authoritative() bool
}

// NewFileStore picks the blob backend: Cloudinary when configured, the local
// uploads directory otherwise.
func NewFileStore(uploadsDir string) FileStore {
	if os.Getenv("CLOUDINARY_CLOUD_NAME") != "" {
		return &CloudinaryStore{}
	}
	return &LocalStore{Dir: uploadsDir}
}

// LocalStore writes uploads under Dir and serves them from /uploads. It is
// the non-authoritative fallback backend.
type LocalStore struct {
	Dir string
}

func (s *LocalStore) Authoritative() bool { return false }

func (s *LocalStore) Store(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*StoredFile, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create uploads dir: %v", err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	dst := filepath.Join(s.Dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("could not create file: %v", err)
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dst)
		return nil, fmt.Errorf("could not write file: %v", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("could not write file: %v", err)
	}

	return &StoredFile{
		URL: path.Join("/uploads", name),
		ID:  name,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	// id is the bare file name; refuse anything that escapes the directory
	if id == "" || id != filepath.Base(id) {
		return fmt.Errorf("invalid local file id: %q", id)
	}
	err := os.Remove(filepath.Join(s.Dir, id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
