package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ndelorme/trellis/pkg/helpers"
	"github.com/ndelorme/trellis/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserNameKey = "userName"
)

// Auth is the authorization gate: it extracts the bearer token, verifies it,
// and puts the resolved identity into the Gin context. Handlers behind it
// must take the acting identity from the context, never from the request
// body. Every verification failure aborts with the same 401.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid session token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserNameKey, claims.UserName)
		c.Next()
	}
}

// bearerToken prefers the Authorization header; the session cookie is a
// fallback for browser clients.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if tok, err := c.Cookie("session_token"); err == nil {
		return tok
	}
	return ""
}
