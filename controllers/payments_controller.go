package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
	utils "github.com/pmsss/scholarship-portal-go/utils"
	workflow "github.com/pmsss/scholarship-portal-go/workflow"
)

// ---------------- PROCESS (finance bureau) ----------------

// ProcessDocumentPayment advances the independent payment status on a
// verified document.
func ProcessDocumentPayment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		processorID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid document id")
			return
		}

		var input struct {
			Status  string `json:"status" binding:"required,oneof=processing paid"`
			Remarks string `json:"remarks"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Conditional on the document being verified.
		now := time.Now()
		var updated models.Document
		err = cfg.Documents().FindOneAndUpdate(ctx,
			bson.M{"_id": oid, "status": models.DocumentVerified},
			bson.M{"$set": bson.M{
				"payment_status": input.Status,
				"updated_at":     now,
				"payment_details": bson.M{
					"processed_by": processorID,
					"processed_at": now,
					"remarks":      input.Remarks,
				},
			}},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			var existing models.Document
			if lookupErr := cfg.Documents().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); lookupErr != nil {
				utils.Fail(c, http.StatusNotFound, "document not found")
				return
			}
			utils.Fail(c, http.StatusBadRequest, workflow.ErrNotVerified.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "payment " + input.Status + " successfully",
			"document": updated,
		})
	}
}

// ---------------- STATUS (student) ----------------

func PaymentStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Documents().Find(ctx,
			bson.M{"student": studentID},
			options.Find().
				SetProjection(bson.M{
					"type":            1,
					"status":          1,
					"payment_status":  1,
					"payment_details": 1,
				}).
				SetSort(bson.D{{Key: "created_at", Value: -1}}),
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not fetch payment status")
			return
		}

		var documents []models.Document
		if err := cursor.All(ctx, &documents); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode payment status")
			return
		}
		if documents == nil {
			documents = []models.Document{}
		}

		c.JSON(http.StatusOK, documents)
	}
}

// ---------------- PROCESSED (finance bureau) ----------------

func ListProcessedPayments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Documents().Find(ctx,
			bson.M{"status": models.DocumentVerified},
			options.Find().SetSort(bson.D{{Key: "payment_details.processed_at", Value: -1}}),
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not fetch payments")
			return
		}

		var documents []models.Document
		if err := cursor.All(ctx, &documents); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode payments")
			return
		}
		if documents == nil {
			documents = []models.Document{}
		}

		c.JSON(http.StatusOK, documents)
	}
}
