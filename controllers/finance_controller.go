package controllers

import (
	"context"
	"log"
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

// ---------------- PROFILE ----------------

func GetFinanceProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": account})
	}
}

func UpdateFinanceProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name           string                  `json:"name"`
			DepartmentName string                  `json:"department_name"`
			Address        *models.Address         `json:"address"`
			ContactPerson  *models.ContactPerson   `json:"contact_person"`
			Settings       *models.FinanceSettings `json:"settings"`
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
		if input.DepartmentName != "" {
			update["finance.department_name"] = input.DepartmentName
		}
		if input.Address != nil {
			update["finance.address"] = input.Address
		}
		if input.ContactPerson != nil {
			update["finance.contact_person"] = input.ContactPerson
		}
		if input.Settings != nil {
			update["finance.settings"] = input.Settings
		}
		if len(update) == 1 {
			utils.Fail(c, http.StatusBadRequest, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "role": models.RoleFinance},
			bson.M{"$set": update},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "finance profile not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// ---------------- APPROVED APPLICATIONS ----------------

// ListApprovedApplications returns the students whose application has been
// approved by a SAG bureau but whose scholarship is not yet fully paid out.
func ListApprovedApplications(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Accounts().Find(ctx,
			bson.M{
				"role":                       models.RoleStudent,
				"student.application.status": models.ApplicationApproved,
				"student.payment_status":     bson.M{"$ne": models.PaymentStatusCompleted},
			},
			options.Find().SetProjection(bson.M{
				"name":                     1,
				"email":                    1,
				"student.application":      1,
				"student.bank_details":     1,
				"student.academic_details": 1,
				"student.payment_status":   1,
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

// ---------------- DISBURSE ----------------

// disburseFilter matches a student eligible for a disbursement: approved
// application, scholarship not already paid out. Stamping through this
// filter is what keeps two concurrent disbursements from both winning.
func disburseFilter(studentID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":                        studentID,
		"role":                       models.RoleStudent,
		"student.application.status": models.ApplicationApproved,
		"student.payment_status":     bson.M{"$ne": models.PaymentStatusCompleted},
	}
}

// ProcessScholarshipPayment creates a completed disbursement for an approved
// student. The student's tracking fields are stamped first by a conditional
// update; a request that matches nothing lost the precondition, not a payment.
func ProcessScholarshipPayment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		financeID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		studentID, err := primitive.ObjectIDFromHex(c.Param("studentId"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid student id")
			return
		}

		var input struct {
			Amount             float64                    `json:"amount" binding:"required,gte=0"`
			PaymentType        string                     `json:"payment_type" binding:"required,oneof=tuition_fee maintenance_allowance other"`
			PaymentMethod      string                     `json:"payment_method" binding:"required,oneof=bank_transfer cheque demand_draft"`
			TransactionDetails *models.TransactionDetails `json:"transaction_details"`
			PaymentPeriod      models.PaymentPeriod       `json:"payment_period" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		now := time.Now()
		payment := models.Payment{
			ID:            primitive.NewObjectID(),
			Student:       studentID,
			Finance:       financeID,
			Amount:        input.Amount,
			PaymentType:   input.PaymentType,
			PaymentMethod: input.PaymentMethod,
			Status:        models.PaymentStatusCompleted,
			PaymentPeriod: input.PaymentPeriod,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if input.TransactionDetails != nil {
			payment.TransactionDetails = *input.TransactionDetails
		}
		if payment.TransactionDetails.TransactionDate == nil {
			payment.TransactionDetails.TransactionDate = &now
		}
		if err := payment.Validate(); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Accounts().UpdateOne(ctx,
			disburseFilter(studentID),
			bson.M{
				"$set": bson.M{
					"student.payment_status": models.PaymentStatusCompleted,
					"student.last_payment":   payment.ID,
					"updated_at":             now,
				},
				"$push": bson.M{"student.payment_history": payment.ID},
			},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not update student payment status")
			return
		}
		if res.MatchedCount == 0 {
			// Distinguish a missing student from a failed precondition.
			var student models.Account
			lookupErr := cfg.Accounts().
				FindOne(ctx, bson.M{"_id": studentID, "role": models.RoleStudent}).
				Decode(&student)
			if lookupErr != nil || student.Student == nil {
				utils.Fail(c, http.StatusNotFound, "student not found")
				return
			}
			if werr := workflow.CanDisburse(student.Student.Application.Status, student.Student.PaymentStatus); werr != nil {
				utils.Fail(c, http.StatusBadRequest, werr.Error())
				return
			}
			utils.Fail(c, http.StatusConflict, "student record changed, please retry")
			return
		}

		if _, err := cfg.Payments().InsertOne(ctx, payment); err != nil {
			// Revert the stamp so the student stays disbursable.
			_, revErr := cfg.Accounts().UpdateOne(ctx,
				bson.M{"_id": studentID, "role": models.RoleStudent},
				bson.M{
					"$set":   bson.M{"student.payment_status": models.PaymentStatusFailed, "updated_at": time.Now()},
					"$unset": bson.M{"student.last_payment": ""},
					"$pull":  bson.M{"student.payment_history": payment.ID},
				},
			)
			if revErr != nil {
				log.Printf("could not revert payment stamp for student %s: %v", studentID.Hex(), revErr)
			}
			utils.Fail(c, http.StatusInternalServerError, "could not create payment")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "payment processed successfully",
			"data":    payment,
		})
	}
}

// ---------------- PAYMENT DOCUMENTS ----------------

// UploadPaymentDocuments stores the department's supporting files (sanction
// orders, transfer proofs) and appends their URLs to the profile.
func UploadPaymentDocuments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user id")
			return
		}

		urls, ok := storeFormDocuments(c, cfg, "scholarship/payments")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "role": models.RoleFinance},
			bson.M{
				"$push": bson.M{"finance.payment_documents": bson.M{"$each": urls}},
				"$set":  bson.M{"updated_at": time.Now()},
			},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "finance profile not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

func ListPaymentDocuments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		if account.Finance == nil {
			utils.Fail(c, http.StatusNotFound, "finance profile not found")
			return
		}

		documents := account.Finance.PaymentDocuments
		if documents == nil {
			documents = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(documents), "data": documents})
	}
}

// ---------------- HISTORY ----------------

func PaymentHistory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			if !models.ValidPaymentStatus(status) {
				utils.Fail(c, http.StatusBadRequest, "invalid payment status")
				return
			}
			filter["status"] = status
		}

		cursor, err := cfg.Payments().Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not fetch payments")
			return
		}

		var payments []models.Payment
		if err := cursor.All(ctx, &payments); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode payments")
			return
		}

		if len(payments) == 0 {
			c.JSON(http.StatusOK, gin.H{"success": true, "count": 0, "data": []models.Payment{}})
			return
		}

		// --- Pick the most recently updated payment ---
		latest := payments[0]
		for _, p := range payments {
			if p.UpdatedAt.After(latest.UpdatedAt) {
				latest = p
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(payments), "data": payments})
	}
}

// ---------------- REPORT ----------------

// PaymentReport summarizes disbursements inside an optional date range
// (?from=2006-01-02&to=2006-01-02, inclusive).
func PaymentReport(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		dateFilter := bson.M{}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "invalid from date")
				return
			}
			dateFilter["$gte"] = t
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "invalid to date")
				return
			}
			dateFilter["$lt"] = t.AddDate(0, 0, 1)
		}

		filter := bson.M{}
		if len(dateFilter) > 0 {
			filter["created_at"] = dateFilter
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Payments().Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not fetch payments")
			return
		}

		var payments []models.Payment
		if err := cursor.All(ctx, &payments); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode payments")
			return
		}
		if payments == nil {
			payments = []models.Payment{}
		}

		var totalAmount float64
		for _, p := range payments {
			if p.Status == models.PaymentStatusCompleted {
				totalAmount += p.Amount
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"count":        len(payments),
			"total_amount": totalAmount,
			"data":         payments,
		})
	}
}

// ---------------- UPDATE STATUS ----------------

// UpdatePaymentStatus moves a disbursement record to a new status, for
// reconciliation after bank callbacks (failed transfers, cancelled cheques).
func UpdatePaymentStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid payment id")
			return
		}

		var input struct {
			Status  string `json:"status" binding:"required,oneof=pending processing completed failed cancelled"`
			Remarks string `json:"remarks"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		update := bson.M{
			"status":     input.Status,
			"updated_at": time.Now(),
		}
		if input.Remarks != "" {
			update["transaction_details.remarks"] = input.Remarks
		}

		var updated models.Payment
		err = cfg.Payments().FindOneAndUpdate(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": update},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "payment not found")
			return
		}

		// Keep the student's tracking field in line with the record.
		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": updated.Student, "role": models.RoleStudent},
			bson.M{"$set": bson.M{
				"student.payment_status": input.Status,
				"updated_at":             time.Now(),
			}},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not update student payment status")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

// ---------------- STATISTICS ----------------

// FinanceStatistics recomputes the department's disbursement totals from the
// payments collection. Full recompute on demand, not incremental.
func FinanceStatistics(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		bureau, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		if bureau.Finance == nil {
			utils.Fail(c, http.StatusNotFound, "finance profile not found")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Payments().Aggregate(ctx, mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.M{
				"_id":    "$status",
				"count":  bson.M{"$sum": 1},
				"amount": bson.M{"$sum": "$amount"},
			}}},
		})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not compute statistics")
			return
		}

		var groups []struct {
			ID     string  `bson:"_id"`
			Count  int     `bson:"count"`
			Amount float64 `bson:"amount"`
		}
		if err := cursor.All(ctx, &groups); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not decode statistics")
			return
		}

		stats := models.PaymentStats{LastUpdated: time.Now()}
		for _, g := range groups {
			stats.TotalPayments += g.Count
			switch g.ID {
			case models.PaymentStatusPending, models.PaymentStatusProcessing:
				stats.PendingPayments += g.Count
			case models.PaymentStatusCompleted:
				stats.CompletedPayments = g.Count
				stats.TotalAmount = g.Amount
			case models.PaymentStatusFailed:
				stats.FailedPayments = g.Count
			}
		}

		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": bureau.ID},
			bson.M{"$set": bson.M{"finance.statistics": stats, "updated_at": time.Now()}},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not store statistics")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
	}
}
