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
)

// findAfter makes FindOneAndUpdate return the post-update document.
func findAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// currentAccount loads the authenticated account set by the Protect
// middleware. On failure it writes the error response and returns ok=false.
func currentAccount(c *gin.Context, cfg *config.Config) (*models.Account, bool) {
	uid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid user id")
		return nil, false
	}

	role := models.InternalRole(c.GetString("role"))
	if role == "" {
		utils.Fail(c, http.StatusUnauthorized, "invalid user role")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var account models.Account
	err = cfg.Accounts().
		FindOne(ctx, bson.M{"_id": uid, "role": role}).
		Decode(&account)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return nil, false
	}
	return &account, true
}
