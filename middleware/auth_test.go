package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	config "github.com/pmsss/scholarship-portal-go/config"
	models "github.com/pmsss/scholarship-portal-go/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func TestProtect_RejectsBeforeTokenLookup(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// These requests never reach the database: a nil client is fine.
	r := gin.New()
	r.GET("/private", Protect(&config.Config{}), okHandler)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare bearer", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []string
		role     string
		wantCode int
	}{
		{"allowed single", []string{models.RoleSAGExternal}, models.RoleSAGExternal, http.StatusOK},
		{"allowed multi", []string{models.RoleSAGExternal, models.RoleFinanceExternal}, models.RoleFinanceExternal, http.StatusOK},
		{"wrong role", []string{models.RoleSAGExternal}, models.RoleStudentExternal, http.StatusForbidden},
		{"internal name does not pass as external", []string{models.RoleFinanceExternal}, models.RoleFinance, http.StatusForbidden},
		{"no role set", []string{models.RoleStudentExternal}, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/restricted",
				func(c *gin.Context) {
					if tt.role != "" {
						c.Set("role", tt.role)
					}
				},
				RequireRoles(tt.allowed...),
				okHandler,
			)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/restricted", nil))

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
