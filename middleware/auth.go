package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
	utils "github.com/pmsss/scholarship-portal-go/utils"
)

// Protect verifies the bearer token and resolves its subject against the
// accounts collection for the role encoded in the token. On success the
// handler context carries user_id and the external role name.
func Protect(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			utils.Fail(c, http.StatusUnauthorized, "not authorized to access this route")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "not authorized to access this route")
			c.Abort()
			return
		}

		role := models.InternalRole(claims.Role)
		oid, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil || role == "" {
			utils.Fail(c, http.StatusUnauthorized, "not authorized to access this route")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var account models.Account
		err = cfg.Accounts().
			FindOne(ctx, bson.M{"_id": oid, "role": role, "is_active": true}).
			Decode(&account)
		if err != nil {
			utils.Fail(c, http.StatusNotFound, "user not found")
			c.Abort()
			return
		}

		c.Set("user_id", account.ID.Hex())
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRoles grants access to the listed external role names only.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.Fail(c, http.StatusForbidden,
			"user role "+role+" is not authorized to access this route")
		c.Abort()
	}
}
