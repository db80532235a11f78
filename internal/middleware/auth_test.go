package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/lms-availability-api/internal/models"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func newProtectedRouter(claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/instructors/:id/availability", JWT(stubValidator{claims: claims}), RBAC(string(models.RoleAdmin), Self), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWTAndRBAC(t *testing.T) {
	instructor := &models.JWTClaims{UserID: "I1", Role: models.RoleInstructor}
	admin := &models.JWTClaims{UserID: "A1", Role: models.RoleAdmin}

	cases := []struct {
		name   string
		claims *models.JWTClaims
		path   string
		header string
		status int
	}{
		{"missing header", instructor, "/instructors/I1/availability", "", http.StatusUnauthorized},
		{"malformed header", instructor, "/instructors/I1/availability", "Token good", http.StatusUnauthorized},
		{"invalid token", instructor, "/instructors/I1/availability", "Bearer bad", http.StatusUnauthorized},
		{"self", instructor, "/instructors/I1/availability", "Bearer good", http.StatusNoContent},
		{"other instructor", instructor, "/instructors/I2/availability", "Bearer good", http.StatusForbidden},
		{"admin", admin, "/instructors/I2/availability", "Bearer good", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newProtectedRouter(tc.claims)
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RBAC(string(models.RoleAdmin)), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
