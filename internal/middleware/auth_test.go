package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"study_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware("secret"), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()
	valid, err := util.GenerateJWT("u1", "u1@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	forged, _ := util.GenerateJWT("u1", "", "other", time.Hour)
	expired, _ := util.GenerateJWT("u1", "", "secret", -time.Minute)

	cases := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{"bearer header", "Bearer " + valid, "", http.StatusOK},
		{"query token", "", valid, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := "/me"
			if tc.query != "" {
				path += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, w.Code, w.Body.String())
			}
			if tc.code == http.StatusOK && w.Body.String() != "u1" {
				t.Fatalf("unexpected user %q", w.Body.String())
			}
		})
	}
}
