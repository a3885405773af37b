package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
	utils "github.com/pmsss/scholarship-portal-go/utils"
)

func GetStudentProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": account})
	}
}

func UpdateStudentProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Course          string                  `json:"course"`
			Institution     string                  `json:"institution"`
			YearOfStudy     int                     `json:"year_of_study"`
			PersonalDetails *models.PersonalDetails `json:"personal_details"`
			AcademicDetails *models.AcademicDetails `json:"academic_details"`
			BankDetails     *models.BankDetails     `json:"bank_details"`
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
		if input.Course != "" {
			update["student.course"] = input.Course
		}
		if input.Institution != "" {
			update["student.institution"] = input.Institution
		}
		if input.YearOfStudy > 0 {
			update["student.year_of_study"] = input.YearOfStudy
		}
		if input.PersonalDetails != nil {
			update["student.personal_details"] = input.PersonalDetails
		}
		if input.AcademicDetails != nil {
			update["student.academic_details"] = input.AcademicDetails
		}
		if input.BankDetails != nil {
			update["student.bank_details"] = input.BankDetails
		}

		if len(update) == 1 {
			utils.Fail(c, http.StatusBadRequest, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "role": models.RoleStudent},
			bson.M{"$set": update},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "student not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// SubmitApplication (re)submits the student's scholarship application:
// status back to pending with a fresh submission time, prior review cleared.
func SubmitApplication(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Comments string `json:"comments"`
		}
		// body is optional, but a present malformed one is still an error
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		uid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		now := time.Now()
		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "role": models.RoleStudent},
			bson.M{
				"$set": bson.M{
					"student.application": models.Application{
						Status:      models.ApplicationPending,
						SubmittedAt: &now,
						Comments:    input.Comments,
					},
					"updated_at": now,
				},
			},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "student not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// ScholarshipStatus returns the application and disbursement state only.
func ScholarshipStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		if account.Student == nil {
			utils.Fail(c, http.StatusNotFound, "student not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"application":     account.Student.Application,
				"payment_status":  account.Student.PaymentStatus,
				"payment_history": account.Student.PaymentHistory,
			},
		})
	}
}
