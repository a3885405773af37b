package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
	utils "github.com/pmsss/scholarship-portal-go/utils"
	workflow "github.com/pmsss/scholarship-portal-go/workflow"
)

func GetSAGProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": account})
	}
}

func UpdateSAGProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name                string                      `json:"name"`
			OrganizationDetails *models.OrganizationDetails `json:"organization_details"`
			Settings            *models.SAGSettings         `json:"settings"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		uid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Name != "" {
			update["name"] = input.Name
		}
		if input.OrganizationDetails != nil {
			update["sag.organization_details"] = input.OrganizationDetails
		}
		if input.Settings != nil {
			update["sag.settings"] = input.Settings
		}
		if len(update) == 1 {
			utils.Fail(c, http.StatusBadRequest, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "role": models.RoleSAG},
			bson.M{"$set": update},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "SAG profile not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// ListApplications returns the pending applications in the bureau's
// jurisdiction.
func ListApplications(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		bureau, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		if bureau.SAG == nil {
			utils.Fail(c, http.StatusNotFound, "SAG profile not found")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Accounts().Find(ctx,
			bson.M{
				"role":                                   models.RoleStudent,
				"student.personal_details.address.state": bureau.SAG.State,
				"student.application.status":             models.ApplicationPending,
			},
			options.Find().SetProjection(bson.M{
				"name":                     1,
				"email":                    1,
				"student.application":      1,
				"student.personal_details": 1,
				"student.academic_details": 1,
			}),
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not fetch applications")
			return
		}

		var students []models.Account
		if err := cursor.All(ctx, &students); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode applications")
			return
		}
		if students == nil {
			students = []models.Account{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(students), "data": students})
	}
}

// ReviewApplication approves or rejects a student's application. The
// reviewing bureau's jurisdiction must match the student's declared state.
func ReviewApplication(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Status  string `json:"status" binding:"required,oneof=approved rejected"`
			Remarks string `json:"remarks"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		bureau, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		if bureau.SAG == nil {
			utils.Fail(c, http.StatusNotFound, "SAG profile not found")
			return
		}

		studentID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid student id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var student models.Account
		err = cfg.Accounts().
			FindOne(ctx, bson.M{"_id": studentID, "role": models.RoleStudent}).
			Decode(&student)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "student not found")
			return
		}

		if err := workflow.CanReviewApplication(bureau.SAG.State, student.State()); err != nil {
			utils.Fail(c, http.StatusForbidden, err.Error())
			return
		}

		now := time.Now()
		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": studentID, "role": models.RoleStudent},
			bson.M{"$set": bson.M{
				"student.application.status":      input.Status,
				"student.application.comments":    input.Remarks,
				"student.application.reviewed_by": bureau.ID,
				"student.application.reviewed_at": now,
				"updated_at":                      now,
			}},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not review application")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// ---------------- VERIFICATION DOCUMENTS ----------------

// UploadVerificationDocuments stores the bureau's own accreditation files
// and appends their URLs to the profile.
func UploadVerificationDocuments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		urls, ok := storeFormDocuments(c, cfg, "scholarship/verification")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "role": models.RoleSAG},
			bson.M{
				"$push": bson.M{"sag.verification_documents": bson.M{"$each": urls}},
				"$set":  bson.M{"updated_at": time.Now()},
			},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "SAG profile not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

func ListVerificationDocuments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		if account.SAG == nil {
			utils.Fail(c, http.StatusNotFound, "SAG profile not found")
			return
		}

		documents := account.SAG.VerificationDocuments
		if documents == nil {
			documents = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(documents), "data": documents})
	}
}

// SAGStatistics recomputes the bureau's application counts by scanning the
// students in its jurisdiction. Full recompute on demand, not incremental.
func SAGStatistics(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		bureau, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		if bureau.SAG == nil {
			utils.Fail(c, http.StatusNotFound, "SAG profile not found")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Accounts().Aggregate(ctx, mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.M{
				"role":                                   models.RoleStudent,
				"student.personal_details.address.state": bureau.SAG.State,
			}}},
			bson.D{{Key: "$group", Value: bson.M{
				"_id":   "$student.application.status",
				"count": bson.M{"$sum": 1},
			}}},
		})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not compute statistics")
			return
		}

		var groups []struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.All(ctx, &groups); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode statistics")
			return
		}

		stats := models.ApplicationStats{LastUpdated: time.Now()}
		for _, g := range groups {
			stats.TotalApplications += g.Count
			switch g.ID {
			case models.ApplicationPending:
				stats.PendingApplications = g.Count
			case models.ApplicationApproved:
				stats.ApprovedApplications = g.Count
			case models.ApplicationRejected:
				stats.RejectedApplications = g.Count
			}
		}

		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": bureau.ID},
			bson.M{"$set": bson.M{"sag.statistics": stats, "updated_at": time.Now()}},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not store statistics")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
	}
}
