package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

type UserHandler struct {
	users       service.IUserService
	auth        service.IAuthService
	authMW      gin.HandlerFunc
	tokenLimits gin.HandlerFunc
}

// NewUserHandler builds the account handler. tokenLimits may be nil.
func NewUserHandler(users service.IUserService, auth service.IAuthService, authMW, tokenLimits gin.HandlerFunc) *UserHandler {
	return &UserHandler{users: users, auth: auth, authMW: authMW, tokenLimits: tokenLimits}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.POST("/create", h.CreateUser)
		if h.tokenLimits != nil {
			user.POST("/token", h.tokenLimits, h.CreateToken)
		} else {
			user.POST("/token", h.CreateToken)
		}
		user.GET("/me", h.authMW, h.GetMe)
		user.PUT("/me", h.authMW, h.ReplaceMe)
		user.PATCH("/me", h.authMW, h.UpdateMe)
		user.POST("/logout", h.authMW, h.Logout)
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, renderUser(user))
}

func (h *UserHandler) CreateToken(c *gin.Context) {
	var req types.TokenRequest
	// A malformed body is treated like missing credentials.
	_ = c.ShouldBindJSON(&req)

	token, err := h.auth.IssueToken(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TokenResponse{Token: token})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, renderUser(user))
}

func (h *UserHandler) ReplaceMe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	var req types.ReplaceUserRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.users.UpdateUser(c.Request.Context(), user.ID, service.UserUpdate{
		Email:    &req.Email,
		Password: &req.Password,
		Name:     &req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderUser(updated))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.users.UpdateUser(c.Request.Context(), user.ID, service.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderUser(updated))
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
