package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/repository"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// AttributeHandler serves the tag and ingredient endpoints
type AttributeHandler[T repository.Attribute] struct {
	svc  service.IAttributeService[T]
	path string
}

func NewAttributeHandler[T repository.Attribute](svc service.IAttributeService[T], path string) *AttributeHandler[T] {
	return &AttributeHandler[T]{svc: svc, path: path}
}

func (h *AttributeHandler[T]) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(h.path)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.PATCH("/:id", h.Update)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *AttributeHandler[T]) List(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	filter, err := repository.ParseAttributeFilter(c.Query("assigned_only"))
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.svc.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AttributeHandler[T]) Create(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	var req types.AttributeRequest
	if !bindJSON(c, &req) {
		return
	}

	row, err := h.svc.Create(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *AttributeHandler[T]) Update(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.AttributeRequest
	if !bindJSON(c, &req) {
		return
	}

	row, err := h.svc.Rename(c.Request.Context(), user.ID, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *AttributeHandler[T]) Delete(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
