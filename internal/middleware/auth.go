package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
)

// Context keys set by AuthMiddleware
const (
	UserKey   = "user"
	UserIDKey = "user_id"
	TokenKey  = "token"
)

// TokenAuthenticator resolves a bearer token to the user it was issued to
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid token and stores the
// authenticated user in the context
func AuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, apperrors.Unauthorized("Authentication credentials were not provided."))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr := apperrors.From(err)
			if errors.Is(appErr, apperrors.ErrUnauthorized) {
				abortUnauthorized(c, appErr)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus(), apperrors.Internal(nil, "internal server error"))
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(TokenKey, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err *apperrors.Error) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, err)
}

// BearerToken extracts the token from an Authorization header. Both the
// "Bearer" and "Token" schemes are accepted.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		return parts[1], true
	default:
		return "", false
	}
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// CurrentToken returns the raw token of the authenticated request
func CurrentToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
