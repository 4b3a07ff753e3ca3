package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/validation"
)

// respondError writes err as a JSON error body. Internal causes are attached
// to the gin context for the request logger and never sent to the client.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if errors.Is(appErr, apperrors.ErrInternal) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
			"code":  apperrors.CodeInternal,
		})
		return
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), appErr)
}

// bindJSON decodes the request body into dst and runs its binding rules
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, validation.FromBindError(err))
		return false
	}
	return true
}

// pathID parses the :id path parameter. Malformed IDs are reported as not
// found, since no such resource can exist.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperrors.NotFound("not found"))
		return 0, false
	}
	return uint(id), true
}

// principal returns the authenticated user set by the auth middleware
func principal(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication credentials were not provided."))
		return nil, false
	}
	return user, true
}
