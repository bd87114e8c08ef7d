package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ndelorme/trellis/pkg/helpers"
)

func authTestRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Auth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetString(CtxUserIDKey),
			"user_name": c.GetString(CtxUserNameKey),
		})
	})
	return r
}

func TestAuthAcceptsValidBearer(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := authTestRouter(jwt)

	token, _, err := jwt.Generate("user-123", "alice")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{"user-123", "alice"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %s missing %q", body, want)
		}
	}
}

func TestAuthCookieFallback(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := authTestRouter(jwt)

	token, _, err := jwt.Generate("user-123", "alice")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAuthHeaderBeatsCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := authTestRouter(jwt)

	good, _, err := jwt.Generate("user-123", "alice")
	if err != nil {
		t.Fatal(err)
	}
	// A present but malformed header wins over a valid cookie.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token something")
	req.AddCookie(&http.Cookie{Name: "session_token", Value: good})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejections(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := authTestRouter(jwt)

	expired, _, err := helpers.NewJWTManager("test-secret", -time.Minute).Generate("user-123", "alice")
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, err := helpers.NewJWTManager("other-secret", time.Hour).Generate("user-123", "alice")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no credentials", ""},
		{"garbage token", "Bearer garbage"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}
