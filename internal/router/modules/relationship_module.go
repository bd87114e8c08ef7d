package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ndelorme/trellis/internal/interface/http"
	"github.com/ndelorme/trellis/internal/interface/middleware"
	"github.com/ndelorme/trellis/pkg/helpers"
)

// RelationshipModule wires the friend-request routes. Everything here
// mutates or reads per-viewer relationship state, so the whole group sits
// behind the authorization gate.
type RelationshipModule struct {
	Handler *handlers.RelationshipHandler
	JWT     *helpers.JWTManager
}

func NewRelationshipModule(h *handlers.RelationshipHandler, jwt *helpers.JWTManager) *RelationshipModule {
	return &RelationshipModule{Handler: h, JWT: jwt}
}

func (m *RelationshipModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/friends")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/requests", m.Handler.Request)
		auth.GET("/requests", m.Handler.Pending)
		auth.POST("/requests/:id/accept", m.Handler.Accept)
		auth.POST("/requests/:id/reject", m.Handler.Reject)
		auth.GET("", m.Handler.Friends)
	}
}
