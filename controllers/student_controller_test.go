package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	config "github.com/pmsss/scholarship-portal-go/config"
)

func TestSubmitApplication_Body(t *testing.T) {
	r := gin.New()
	r.POST("/apply", SubmitApplication(&config.Config{}))

	for _, tt := range []struct {
		name string
		body string
		want int
	}{
		// a present but broken body is rejected before anything else
		{"malformed json", "{", http.StatusBadRequest},
		// an empty body is fine; the request then dies on the missing identity
		{"empty body", "", http.StatusUnauthorized},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
