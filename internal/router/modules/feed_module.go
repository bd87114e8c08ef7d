package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ndelorme/trellis/internal/interface/http"
	"github.com/ndelorme/trellis/internal/interface/middleware"
	"github.com/ndelorme/trellis/pkg/helpers"
)

// FeedModule wires the wall routes: post creation, the aggregated viewer
// feed, and single-profile walls. All require an authenticated viewer.
type FeedModule struct {
	Handler *handlers.FeedHandler
	JWT     *helpers.JWTManager
}

func NewFeedModule(h *handlers.FeedHandler, jwt *helpers.JWTManager) *FeedModule {
	return &FeedModule{Handler: h, JWT: jwt}
}

func (m *FeedModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/posts", m.Handler.CreatePost)
		auth.GET("/feed", m.Handler.Feed)
		auth.GET("/users/:id/posts", m.Handler.Wall)
	}
}
