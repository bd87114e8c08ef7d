package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/application"
	"github.com/ndelorme/trellis/internal/interface/middleware"
	"github.com/ndelorme/trellis/pkg/helpers"
	"github.com/ndelorme/trellis/pkg/response"
	"github.com/ndelorme/trellis/pkg/validation"
)

type AccountHandler struct {
	Svc     *application.AccountService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	UserName     string `json:"user_name" binding:"required,username"`
	Password     string `json:"password" binding:"required,pwd"`
	Email        string `json:"email" binding:"required,email"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Gender       string `json:"gender"`
	Age          int    `json:"age" binding:"required,gte=1,lte=150"`
	Address      string `json:"address"`
	Presentation string `json:"presentation"`
}

type loginRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Email        string `json:"email" binding:"required,email"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Gender       string `json:"gender"`
	Age          int    `json:"age" binding:"required,gte=1,lte=150"`
	Address      string `json:"address"`
	Presentation string `json:"presentation"`
}

// Register POST /api/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSONError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		UserName:     req.UserName,
		Password:     req.Password,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Age:          req.Age,
		Address:      req.Address,
		Presentation: req.Presentation,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"id": u.ID, "user_name": u.UserName}, "account created")
}

// Login POST /api/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSONError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.JSON(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"user_name":  u.UserName,
		"token":      token,
		"expires_at": exp,
	}, "login successful")
}

// Logout POST /api/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.JSON(c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

// GetProfile GET /api/users/:id
func (h *AccountHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, publicUser(u), "profile")
}

// UpdateProfile PUT /api/profile
// The acting identity comes from the verified session, never from the body.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.JSONError(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Age:          req.Age,
		Address:      req.Address,
		Presentation: req.Presentation,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, publicUser(u), "profile updated")
}

// UploadPhoto POST /api/profile/photo (multipart form, field "photo")
func (h *AccountHandler) UploadPhoto(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	fh, err := c.FormFile("photo")
	if err != nil {
		response.JSONError(c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.JSONError(c, http.StatusBadRequest, "unreadable photo file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadPhoto(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"photo": url}, "photo updated")
}

// Search GET /api/users/search?q=
func (h *AccountHandler) Search(c *gin.Context) {
	refs, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, refs, "search results")
}
