package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/application"
	"github.com/ndelorme/trellis/internal/interface/middleware"
	"github.com/ndelorme/trellis/pkg/response"
	"github.com/ndelorme/trellis/pkg/validation"
)

type FeedHandler struct {
	Svc    *application.FeedService
	Logger *logrus.Logger
}

func NewFeedHandler(svc *application.FeedService, logger *logrus.Logger) *FeedHandler {
	return &FeedHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreatePost POST /api/posts
func (h *FeedHandler) CreatePost(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSONError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreatePost(c.Request.Context(), uid, req.Content)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, p, "post created")
}

// Feed GET /api/feed
func (h *FeedHandler) Feed(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	posts, err := h.Svc.Feed(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, "feed")
}

// Wall GET /api/users/:id/posts
func (h *FeedHandler) Wall(c *gin.Context) {
	posts, err := h.Svc.Wall(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, "wall")
}
