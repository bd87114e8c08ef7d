package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/application"
	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/pkg/response"
)

// writeError maps application sentinels onto the HTTP error taxonomy.
// Unrecognized errors are logged and reported as a generic 500; internal
// error text never reaches the client.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		response.JSONError(c, http.StatusBadRequest, "invalid input", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.JSONError(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.JSONError(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrUserNameTaken):
		response.JSONError(c, http.StatusConflict, "user name already taken", nil)
	case errors.Is(err, application.ErrRelationshipExists):
		response.JSONError(c, http.StatusConflict, "friend request already pending or already friends", nil)
	case errors.Is(err, application.ErrNoPendingRequest):
		response.JSONError(c, http.StatusNotFound, "no pending friend request", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.JSONError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// publicUser is the client-facing projection of a user record: everything
// except the password hash.
func publicUser(u *entity.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"user_name":    u.UserName,
		"email":        u.Email,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"gender":       u.Gender,
		"age":          u.Age,
		"address":      u.Address,
		"photo":        u.Photo,
		"presentation": u.Presentation,
		"role":         u.Role,
		"created_at":   u.CreatedAt,
		"updated_at":   u.UpdatedAt,
	}
}
