package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ndelorme/trellis/internal/interface/http"
	"github.com/ndelorme/trellis/internal/interface/middleware"
	"github.com/ndelorme/trellis/pkg/helpers"
)

// AccountModule wires account routes.
// Public: register, login, user search, profile read.
// Protected: logout, profile update, photo upload.
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.GET("/users/search", m.Handler.Search)
	rg.GET("/users/:id", m.Handler.GetProfile)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/photo", m.Handler.UploadPhoto)
	}
}
