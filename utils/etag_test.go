package utils

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateETag(t *testing.T) {
	id := primitive.NewObjectID()
	now := time.Now()

	etag := GenerateETag(id, now)
	if !strings.HasPrefix(etag, `"`) || !strings.HasSuffix(etag, `"`) {
		t.Errorf("etag %q should be quoted", etag)
	}

	if etag != GenerateETag(id, now) {
		t.Error("same inputs must produce the same etag")
	}
	if etag == GenerateETag(primitive.NewObjectID(), now) {
		t.Error("different ids must produce different etags")
	}
	if etag == GenerateETag(id, now.Add(time.Second)) {
		t.Error("different update times must produce different etags")
	}
}
