package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
	utils "github.com/pmsss/scholarship-portal-go/utils"
)

// duplicateKeyMessage maps a mongo unique-index violation to the user-facing
// message for the constraint that fired.
func duplicateKeyMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "sag.state"):
		return "SAG bureau already exists for this state"
	case strings.Contains(msg, "student.registration_number"):
		return "registration number already exists"
	case strings.Contains(msg, "finance.department_code"):
		return "department code already exists"
	default:
		return "email already registered"
	}
}

// sendTokenResponse issues a token for the account and writes the login/register
// payload. The token is also set as an http-only cookie.
func sendTokenResponse(c *gin.Context, account *models.Account, status int) {
	token, err := utils.SignToken(account)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "error generating authentication token")
		return
	}

	c.SetCookie("token", token, int(utils.TokenExpiry().Seconds()), "/", "", gin.Mode() == gin.ReleaseMode, true)
	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":    account.ID.Hex(),
			"name":  account.Name,
			"email": account.Email,
			"role":  models.ExternalRole(account.Role),
		},
	})
}

// createAccount hashes the password and inserts the account, translating
// duplicate-key violations.
func createAccount(ctx context.Context, cfg *config.Config, account *models.Account) error {
	hashed, err := utils.HashPassword(account.Password)
	if err != nil {
		return err
	}
	account.Password = hashed

	now := time.Now()
	account.ID = primitive.NewObjectID()
	account.IsActive = true
	account.LastLogin = now
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err = cfg.Accounts().InsertOne(ctx, account)
	return err
}

// ---------------- REGISTER ----------------

func RegisterStudent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name               string                 `json:"name" binding:"required"`
			Email              string                 `json:"email" binding:"required,email"`
			Password           string                 `json:"password" binding:"required,min=6"`
			RegistrationNumber string                 `json:"registration_number" binding:"required"`
			Course             string                 `json:"course" binding:"required"`
			Institution        string                 `json:"institution" binding:"required"`
			YearOfStudy        int                    `json:"year_of_study" binding:"required,gte=1"`
			PersonalDetails    models.PersonalDetails `json:"personal_details"`
			AcademicDetails    models.AcademicDetails `json:"academic_details"`
			BankDetails        models.BankDetails     `json:"bank_details"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		account := models.Account{
			Role:     models.RoleStudent,
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Student: &models.StudentProfile{
				RegistrationNumber: input.RegistrationNumber,
				Course:             input.Course,
				Institution:        input.Institution,
				YearOfStudy:        input.YearOfStudy,
				PersonalDetails:    input.PersonalDetails,
				AcademicDetails:    input.AcademicDetails,
				BankDetails:        input.BankDetails,
				Application:        models.Application{Status: models.ApplicationPending},
				Documents:          []primitive.ObjectID{},
			},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := createAccount(ctx, cfg, &account); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.Fail(c, http.StatusBadRequest, duplicateKeyMessage(err))
				return
			}
			utils.Fail(c, http.StatusInternalServerError, "error creating student account")
			return
		}

		sendTokenResponse(c, &account, http.StatusCreated)
	}
}

func RegisterSAG(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name                string `json:"name" binding:"required"`
			Email               string `json:"email" binding:"required,email"`
			Password            string `json:"password" binding:"required,min=6"`
			State               string `json:"state" binding:"required"`
			OrganizationDetails struct {
				Name               string               `json:"name" binding:"required"`
				Type               string               `json:"type" binding:"required,oneof=government private autonomous"`
				RegistrationNumber string               `json:"registration_number" binding:"required"`
				Address            models.Address       `json:"address"`
				ContactPerson      models.ContactPerson `json:"contact_person"`
			} `json:"organization_details" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		// The bureau's jurisdiction is authoritative over the address state.
		input.OrganizationDetails.Address.State = input.State

		account := models.Account{
			Role:     models.RoleSAG,
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			SAG: &models.SAGProfile{
				State: input.State,
				OrganizationDetails: models.OrganizationDetails{
					Name:               input.OrganizationDetails.Name,
					Type:               input.OrganizationDetails.Type,
					RegistrationNumber: input.OrganizationDetails.RegistrationNumber,
					Address:            input.OrganizationDetails.Address,
					ContactPerson:      input.OrganizationDetails.ContactPerson,
				},
				Statistics: models.ApplicationStats{LastUpdated: time.Now()},
				Settings: models.SAGSettings{
					MaxApplicationsPerDay: 100,
					AutoApproveThreshold:  85,
				},
			},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := createAccount(ctx, cfg, &account); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.Fail(c, http.StatusBadRequest, duplicateKeyMessage(err))
				return
			}
			utils.Fail(c, http.StatusInternalServerError, "error creating SAG account")
			return
		}

		sendTokenResponse(c, &account, http.StatusCreated)
	}
}

func RegisterFinance(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name           string               `json:"name" binding:"required"`
			Email          string               `json:"email" binding:"required,email"`
			Password       string               `json:"password" binding:"required,min=6"`
			DepartmentName string               `json:"department_name" binding:"required"`
			DepartmentCode string               `json:"department_code" binding:"required"`
			Address        models.Address       `json:"address"`
			ContactPerson  models.ContactPerson `json:"contact_person"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		account := models.Account{
			Role:     models.RoleFinance,
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Finance: &models.FinanceProfile{
				DepartmentName: input.DepartmentName,
				DepartmentCode: input.DepartmentCode,
				Address:        input.Address,
				ContactPerson:  input.ContactPerson,
				Statistics:     models.PaymentStats{LastUpdated: time.Now()},
				Settings: models.FinanceSettings{
					MaxPaymentsPerDay:    1000,
					AutoPaymentThreshold: 10000,
				},
			},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := createAccount(ctx, cfg, &account); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.Fail(c, http.StatusBadRequest, duplicateKeyMessage(err))
				return
			}
			utils.Fail(c, http.StatusInternalServerError, "error creating finance account")
			return
		}

		sendTokenResponse(c, &account, http.StatusCreated)
	}
}

// ---------------- LOGIN ----------------

// Login authenticates against the account variant for the given stored role.
// One handler serves all three variants; the role comes from the route.
func Login(cfg *config.Config, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var account models.Account
		err := cfg.Accounts().
			FindOne(ctx, bson.M{"role": role, "email": input.Email}).
			Decode(&account)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "no account found with this email, please register first")
			return
		}

		if !utils.CheckPassword(input.Password, account.Password) {
			utils.Fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}

		now := time.Now()
		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": account.ID},
			bson.M{"$set": bson.M{"last_login": now, "updated_at": now}},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "server error during login")
			return
		}
		account.LastLogin = now

		sendTokenResponse(c, &account, http.StatusOK)
	}
}

// ---------------- SESSION ----------------

func Logout(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("token", "none", 10, "/", "", gin.Mode() == gin.ReleaseMode, true)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
	}
}

func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": account})
	}
}

func UpdateDetails(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name  string `json:"name" binding:"required"`
			Email string `json:"email" binding:"required,email"`
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

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var updated models.Account
		err = cfg.Accounts().FindOneAndUpdate(ctx,
			bson.M{"_id": uid},
			bson.M{"$set": bson.M{"name": input.Name, "email": input.Email, "updated_at": time.Now()}},
			findAfter(),
		).Decode(&updated)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.Fail(c, http.StatusBadRequest, "email already registered")
				return
			}
			utils.Fail(c, http.StatusNotFound, "user not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
	}
}

func UpdatePassword(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			CurrentPassword string `json:"current_password" binding:"required"`
			NewPassword     string `json:"new_password" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		account, ok := currentAccount(c, cfg)
		if !ok {
			return
		}

		if !utils.CheckPassword(input.CurrentPassword, account.Password) {
			utils.Fail(c, http.StatusUnauthorized, "password is incorrect")
			return
		}

		hashed, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not update password")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": account.ID},
			bson.M{"$set": bson.M{"password": hashed, "updated_at": time.Now()}},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not update password")
			return
		}

		sendTokenResponse(c, account, http.StatusOK)
	}
}

// ---------------- PASSWORD RESET ----------------

func ForgotPassword(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
			Role  string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		role := models.InternalRole(input.Role)
		if role == "" && models.ValidRole(input.Role) {
			role = input.Role
		}
		if role == "" {
			utils.Fail(c, http.StatusBadRequest, "invalid user role")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var account models.Account
		err := cfg.Accounts().
			FindOne(ctx, bson.M{"role": role, "email": input.Email}).
			Decode(&account)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "there is no user with that email")
			return
		}

		raw, hashed, err := utils.NewResetToken()
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not generate reset token")
			return
		}

		expire := time.Now().Add(10 * time.Minute)
		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": account.ID},
			bson.M{"$set": bson.M{
				"reset_password_token":  hashed,
				"reset_password_expire": expire,
			}},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not generate reset token")
			return
		}

		resetURL := "https://" + c.Request.Host + "/api/auth/resetpassword/" + raw
		body := "You are receiving this email because you (or someone else) has requested the reset of a password. " +
			"Please make a PUT request to: <br><br>" + resetURL

		if err := utils.SendEmail(account.Email, "Password reset token", body); err != nil {
			// A token nobody received must not stay live.
			_, uerr := cfg.Accounts().UpdateOne(ctx,
				bson.M{"_id": account.ID},
				bson.M{"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""}},
			)
			if uerr != nil {
				log.Printf("could not clear undelivered reset token for account %s: %v", account.ID.Hex(), uerr)
			}
			utils.Fail(c, http.StatusInternalServerError, "email could not be sent")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": "email sent"})
	}
}

func ResetPassword(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Password string `json:"password" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.FailFields(c, utils.BindingErrors(err))
			return
		}

		hashedToken := utils.HashResetToken(c.Param("resettoken"))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// One collection holds all three variants, so a single unexpired-token
		// lookup covers them all.
		var account models.Account
		err := cfg.Accounts().FindOne(ctx, bson.M{
			"reset_password_token":  hashedToken,
			"reset_password_expire": bson.M{"$gt": time.Now()},
		}).Decode(&account)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid or expired token")
			return
		}

		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not reset password")
			return
		}

		_, err = cfg.Accounts().UpdateOne(ctx,
			bson.M{"_id": account.ID},
			bson.M{
				"$set":   bson.M{"password": hashed, "updated_at": time.Now()},
				"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""},
			},
		)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not reset password")
			return
		}

		sendTokenResponse(c, &account, http.StatusOK)
	}
}
