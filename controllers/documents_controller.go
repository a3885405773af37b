package controllers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
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

const maxDocumentSize = 5 << 20 // 5MB

// maximum files per bureau-document upload request
const maxBureauDocuments = 5

var allowedDocumentExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".pdf":  true,
}

// checkDocumentFile applies the shared size and extension rules. A non-empty
// return value is the rejection message.
func checkDocumentFile(header *multipart.FileHeader) string {
	if header.Size > maxDocumentSize {
		return "file exceeds the 5MB limit"
	}
	if !allowedDocumentExts[strings.ToLower(filepath.Ext(header.Filename))] {
		return "only .png, .jpg, .jpeg and .pdf files are allowed"
	}
	return ""
}

// storeFormDocuments validates and stores every file in the "documents"
// multipart field, returning the stored URLs. On failure it writes the error
// response, cleans up any already-stored files and returns ok=false.
func storeFormDocuments(c *gin.Context, cfg *config.Config, folder string) ([]string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "please upload at least one document")
		return nil, false
	}
	files := form.File["documents"]
	if len(files) == 0 {
		utils.Fail(c, http.StatusBadRequest, "please upload at least one document")
		return nil, false
	}
	if len(files) > maxBureauDocuments {
		utils.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("a maximum of %d documents can be uploaded at once", maxBureauDocuments))
		return nil, false
	}
	for _, header := range files {
		if msg := checkDocumentFile(header); msg != "" {
			utils.Fail(c, http.StatusBadRequest, msg)
			return nil, false
		}
	}

	var urls []string
	var ids []string
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to open file")
			cleanupStoredFiles(cfg, ids)
			return nil, false
		}
		stored, err := cfg.Files.Store(c.Request.Context(), file, header, folder)
		file.Close()
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "document upload failed: "+err.Error())
			cleanupStoredFiles(cfg, ids)
			return nil, false
		}
		urls = append(urls, stored.URL)
		ids = append(ids, stored.ID)
	}
	return urls, true
}

func cleanupStoredFiles(cfg *config.Config, ids []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, id := range ids {
		if err := cfg.Files.Delete(ctx, id); err != nil {
			log.Printf("could not clean up stored file %s: %v", id, err)
		}
	}
}

// ---------------- LIST (student) ----------------

func ListStudentDocuments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		studentID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Documents().Find(ctx,
			bson.M{"student": studentID},
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not fetch documents")
			return
		}

		var documents []models.Document
		if err := cursor.All(ctx, &documents); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode documents")
			return
		}

		if len(documents) == 0 {
			c.JSON(http.StatusOK, []models.Document{})
			return
		}

		// --- Pick the most recently updated document ---
		latest := documents[0]
		for _, d := range documents {
			if d.UpdatedAt.After(latest.UpdatedAt) {
				latest = d
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, documents)
	}
}

// ---------------- UPLOAD (student) ----------------

func UploadDocument(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		studentID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		docType := c.PostForm("type")
		if !models.ValidDocumentType(docType) {
			utils.Fail(c, http.StatusBadRequest, "please provide a valid document type")
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "please upload a file")
			return
		}
		if msg := checkDocumentFile(fileHeader); msg != "" {
			utils.Fail(c, http.StatusBadRequest, msg)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to open file")
			return
		}
		defer file.Close()

		stored, err := cfg.Files.Store(c.Request.Context(), file, fileHeader, "scholarship/documents")
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "document upload failed: "+err.Error())
			return
		}

		now := time.Now()
		document := models.Document{
			ID:        primitive.NewObjectID(),
			Student:   studentID,
			Type:      docType,
			FileURL:   stored.URL,
			FileName:  fileHeader.Filename,
			StorageID: stored.ID,
			Status:    models.DocumentPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Documents().InsertOne(ctx, document); err != nil {
			// Metadata commit failed; don't leave the blob orphaned.
			if delErr := cfg.Files.Delete(ctx, stored.ID); delErr != nil {
				log.Printf("could not clean up stored file %s: %v", stored.ID, delErr)
			}
			utils.Fail(c, http.StatusInternalServerError, "could not create document")
			return
		}

		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": studentID, "role": models.RoleStudent},
			bson.M{"$push": bson.M{"student.documents": document.ID}},
		)
		if err != nil {
			log.Printf("could not attach document %s to student %s: %v", document.ID.Hex(), uid, err)
		}

		c.JSON(http.StatusCreated, document)
	}
}

// ---------------- DELETE (student) ----------------

// documentDeleteFilter scopes the delete to the owner and, under the
// pending_only policy, to documents still pending, so a verify committed
// after the policy check matches nothing instead of losing a processed
// document.
func documentDeleteFilter(policy string, id, owner primitive.ObjectID) bson.M {
	filter := bson.M{"_id": id, "student": owner}
	if policy == workflow.DeletePendingOnly {
		filter["status"] = models.DocumentPending
	}
	return filter
}

func DeleteDocument(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid document id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var document models.Document
		if err := cfg.Documents().FindOne(ctx, bson.M{"_id": oid}).Decode(&document); err != nil {
			utils.Fail(c, http.StatusNotFound, "document not found")
			return
		}

		switch err := workflow.CanDeleteDocument(cfg.DocumentDeletePolicy, uid, document.Student.Hex(), document.Status); err {
		case nil:
		case workflow.ErrForbidden:
			utils.Fail(c, http.StatusForbidden, "you are not authorized to delete this document")
			return
		default:
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		// Remove the payload first. The authoritative backend must succeed;
		// a fallback-backend failure is logged and does not block.
		if document.StorageID != "" {
			if err := cfg.Files.Delete(ctx, document.StorageID); err != nil {
				if cfg.Files.Authoritative() {
					utils.Fail(c, http.StatusInternalServerError, "could not delete stored file")
					return
				}
				log.Printf("file deletion warning for %s: %v", document.StorageID, err)
			}
		}

		res, err := cfg.Documents().DeleteOne(ctx,
			documentDeleteFilter(cfg.DocumentDeletePolicy, oid, document.Student))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to delete document")
			return
		}
		if res.DeletedCount == 0 {
			// status changed between the read above and the delete
			utils.Fail(c, http.StatusBadRequest, workflow.ErrNotDeletable.Error())
			return
		}

		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": document.Student, "role": models.RoleStudent},
			bson.M{"$pull": bson.M{"student.documents": oid}},
		)
		if err != nil {
			log.Printf("could not detach document %s from student: %v", oid.Hex(), err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "document deleted successfully",
			"id":      oid.Hex(),
		})
	}
}

// ---------------- LIST (bureau) ----------------

func ListAllDocuments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		cursor, err := cfg.Documents().Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not fetch documents")
			return
		}

		var documents []models.Document
		if err := cursor.All(ctx, &documents); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode documents")
			return
		}
		if documents == nil {
			documents = []models.Document{}
		}

		c.JSON(http.StatusOK, documents)
	}
}

// ---------------- VERIFY / REJECT (SAG bureau) ----------------

func UpdateDocumentStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		verifierID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
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
			Status  string `json:"status" binding:"required,oneof=verified rejected"`
			Remarks string `json:"remarks"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Conditional update: only a still-pending document can be processed,
		// so two concurrent verifiers cannot both win.
		now := time.Now()
		var updated models.Document
		err = cfg.Documents().FindOneAndUpdate(ctx,
			bson.M{"_id": oid, "status": models.DocumentPending},
			bson.M{"$set": bson.M{
				"status":     input.Status,
				"remarks":    input.Remarks,
				"updated_at": now,
				"verification_details": bson.M{
					"verified_by": verifierID,
					"verified_at": now,
					"remarks":     input.Remarks,
				},
			}},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			// Distinguish a missing document from one already processed.
			var existing models.Document
			if lookupErr := cfg.Documents().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); lookupErr != nil {
				utils.Fail(c, http.StatusNotFound, "document not found")
				return
			}
			utils.Fail(c, http.StatusBadRequest, workflow.ErrAlreadyProcessed.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "document " + input.Status + " successfully",
			"document": updated,
		})
	}
}
