package controllers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gin-gonic/gin"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
)

func TestDisburseFilter(t *testing.T) {
	studentID := primitive.NewObjectID()
	filter := disburseFilter(studentID)

	if filter["_id"] != studentID || filter["role"] != models.RoleStudent {
		t.Error("filter must be scoped to the student account")
	}
	if filter["student.application.status"] != models.ApplicationApproved {
		t.Error("stamping must require an approved application")
	}
	want := bson.M{"$ne": models.PaymentStatusCompleted}
	if !reflect.DeepEqual(filter["student.payment_status"], want) {
		t.Errorf("payment_status condition = %v, want %v", filter["student.payment_status"], want)
	}
}

func TestUploadPaymentDocuments_Rejections(t *testing.T) {
	r := gin.New()
	r.POST("/documents", asBureau(primitive.NewObjectID()), UploadPaymentDocuments(&config.Config{}))

	for _, tt := range []struct {
		name string
		req  *http.Request
	}{
		{"no files", bureauUploadRequest(t, "/documents", "sanction.pdf", 0)},
		{"too many files", bureauUploadRequest(t, "/documents", "sanction.pdf", maxBureauDocuments+1)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
