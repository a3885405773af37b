package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
	workflow "github.com/pmsss/scholarship-portal-go/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDocumentDeleteFilter(t *testing.T) {
	id := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	t.Run("pending_only is part of the delete condition", func(t *testing.T) {
		filter := documentDeleteFilter(workflow.DeletePendingOnly, id, owner)
		if filter["_id"] != id || filter["student"] != owner {
			t.Error("filter must be scoped to the document and its owner")
		}
		if filter["status"] != models.DocumentPending {
			t.Error("pending_only must refuse a document verified after the policy check")
		}
	})

	t.Run("any policy does not constrain status", func(t *testing.T) {
		filter := documentDeleteFilter(workflow.DeleteAny, id, owner)
		if _, ok := filter["status"]; ok {
			t.Error("any policy must not filter on status")
		}
		if filter["student"] != owner {
			t.Error("ownership stays in the filter under any policy")
		}
	})
}

func TestCheckDocumentFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantOK   bool
	}{
		{"pdf within limit", "marksheet.pdf", 1024, true},
		{"uppercase extension", "receipt.PDF", 1024, true},
		{"oversized", "marksheet.pdf", maxDocumentSize + 1, false},
		{"disallowed type", "notes.docx", 1024, false},
		{"no extension", "marksheet", 1024, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{Filename: tt.filename, Size: tt.size}
			msg := checkDocumentFile(header)
			if ok := msg == ""; ok != tt.wantOK {
				t.Errorf("checkDocumentFile(%q, %d) = %q, want ok=%v", tt.filename, tt.size, msg, tt.wantOK)
			}
		})
	}
}

// bureauUploadRequest builds a multipart request carrying n files in the
// "documents" field.
func bureauUploadRequest(t *testing.T, path, filename string, n int) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for i := 0; i < n; i++ {
		part, err := w.CreateFormFile("documents", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte("content")); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	w.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func asBureau(id primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id.Hex())
	}
}

func TestUploadVerificationDocuments_Rejections(t *testing.T) {
	// These requests fail validation and never reach storage or the database.
	r := gin.New()
	r.POST("/verification", asBureau(primitive.NewObjectID()), UploadVerificationDocuments(&config.Config{}))

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"no files", bureauUploadRequest(t, "/verification", "accreditation.pdf", 0)},
		{"too many files", bureauUploadRequest(t, "/verification", "accreditation.pdf", maxBureauDocuments+1)},
		{"disallowed type", bureauUploadRequest(t, "/verification", "accreditation.exe", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
