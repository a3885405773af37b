package utils

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartFile(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("document")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return file, header
}

func TestLocalStore_StoreAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := &LocalStore{Dir: dir}

	file, header := multipartFile(t, "marksheet.pdf", "pdf-bytes")
	defer file.Close()

	stored, err := store.Store(context.Background(), file, header, "scholarship/documents")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(stored.URL, "/uploads/") {
		t.Errorf("URL = %q, want /uploads/ prefix", stored.URL)
	}
	if !strings.HasSuffix(stored.ID, "-marksheet.pdf") {
		t.Errorf("ID = %q, want timestamped original name", stored.ID)
	}

	data, err := os.ReadFile(filepath.Join(dir, stored.ID))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("stored content = %q, want %q", data, "pdf-bytes")
	}

	if err := store.Delete(context.Background(), stored.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stored.ID)); !os.IsNotExist(err) {
		t.Error("file should be gone after delete")
	}
}

func TestLocalStore_DeleteMissingIsNil(t *testing.T) {
	store := &LocalStore{Dir: t.TempDir()}
	if err := store.Delete(context.Background(), "never-existed.pdf"); err != nil {
		t.Errorf("deleting a missing file should be a no-op, got %v", err)
	}
}

func TestLocalStore_DeleteRejectsPathEscape(t *testing.T) {
	store := &LocalStore{Dir: t.TempDir()}
	for _, id := range []string{"", "../etc/passwd", "a/b.pdf"} {
		if err := store.Delete(context.Background(), id); err == nil {
			t.Errorf("Delete(%q) should be rejected", id)
		}
	}
}

func TestLocalStore_NotAuthoritative(t *testing.T) {
	store := &LocalStore{Dir: t.TempDir()}
	if store.Authoritative() {
		t.Error("local fallback must not be authoritative")
	}
}

func TestNewFileStore_Selection(t *testing.T) {
	t.Run("local when cloudinary unset", func(t *testing.T) {
		t.Setenv("CLOUDINARY_CLOUD_NAME", "")
		if _, ok := NewFileStore("./uploads").(*LocalStore); !ok {
			t.Error("expected LocalStore")
		}
	})
	t.Run("cloudinary when configured", func(t *testing.T) {
		t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
		s := NewFileStore("./uploads")
		if _, ok := s.(*CloudinaryStore); !ok {
			t.Error("expected CloudinaryStore")
		}
		if !s.Authoritative() {
			t.Error("cloudinary backend must be authoritative")
		}
	})
}
