package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const secret = "middleware-secret"

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).UserID)
	})
	r.GET("/admin", AuthMiddleware(secret), RoleMiddleware(model.Teacher), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func token(t *testing.T, role model.UserRole, key string) string {
	t.Helper()
	tok, err := util.GenerateJWT(&model.User{UUIDBase: model.UUIDBase{ID: "u-" + string(role)}, Role: role}, key, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func do(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := router()

	if w := do(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
	if w := do(r, "/me", token(t, model.Student, "other-secret")); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a foreign signature, got %d", w.Code)
	}
	w := do(r, "/me", token(t, model.Student, secret))
	if w.Code != http.StatusOK || w.Body.String() != "u-student" {
		t.Errorf("expected the caller id, got %d %q", w.Code, w.Body.String())
	}
	if w := do(r, "/me?token="+token(t, model.Student, secret), ""); w.Code != http.StatusOK {
		t.Errorf("expected query token to be accepted, got %d", w.Code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	r := router()
	cases := []struct {
		role model.UserRole
		want int
	}{
		{model.Student, http.StatusForbidden},
		{model.Teacher, http.StatusOK},
		{model.Admin, http.StatusOK},
	}
	for _, tc := range cases {
		if w := do(r, "/admin", token(t, tc.role, secret)); w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.role, tc.want, w.Code)
		}
	}
}
