package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/application"
	"github.com/ndelorme/trellis/internal/interface/middleware"
	"github.com/ndelorme/trellis/pkg/response"
	"github.com/ndelorme/trellis/pkg/validation"
)

type RelationshipHandler struct {
	Svc    *application.RelationshipService
	Logger *logrus.Logger
}

func NewRelationshipHandler(svc *application.RelationshipService, logger *logrus.Logger) *RelationshipHandler {
	return &RelationshipHandler{Svc: svc, Logger: logger}
}

type friendRequestBody struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
}

// Request POST /api/friends/requests
// The requester is always the verified session identity.
func (h *RelationshipHandler) Request(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSONError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Request(c.Request.Context(), uid, req.RecipientID); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"requested": true}, "friend request sent")
}

// Pending GET /api/friends/requests
func (h *RelationshipHandler) Pending(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	refs, err := h.Svc.Pending(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, refs, "pending friend requests")
}

// Accept POST /api/friends/requests/:id/accept
func (h *RelationshipHandler) Accept(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Accept(c.Request.Context(), uid, c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"accepted": true}, "friend request accepted")
}

// Reject POST /api/friends/requests/:id/reject
// A missing pending edge is a bad request here, not a 404: rejecting an
// already-resolved request is a caller error.
func (h *RelationshipHandler) Reject(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Reject(c.Request.Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNoPendingRequest) {
			response.JSONError(c, http.StatusBadRequest, "no pending friend request", nil)
			return
		}
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"rejected": true}, "friend request rejected")
}

// Friends GET /api/friends
func (h *RelationshipHandler) Friends(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	refs, err := h.Svc.Friends(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, refs, "friends")
}
