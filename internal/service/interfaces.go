package service

import (
	"context"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/repository"
)

// IUserService defines the interface for account operations
type IUserService interface {
	CreateUser(ctx context.Context, email, password, name string) (*models.User, error)
	CreateSuperuser(ctx context.Context, email, password, name string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*models.User, error)
	CheckCredentials(ctx context.Context, email, password string) (*models.User, error)
}

// IAuthService defines the interface for token operations
type IAuthService interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

// TokenStore maps opaque bearer tokens to user IDs.
type TokenStore interface {
	Create(ctx context.Context, userID uint) (string, error)
	Validate(ctx context.Context, token string) (uint, error)
	Revoke(ctx context.Context, token string) error
}

// IAttributeService defines the interface for tag and ingredient operations
type IAttributeService[T repository.Attribute] interface {
	List(ctx context.Context, ownerID uint, filter repository.AttributeFilter) ([]T, error)
	Create(ctx context.Context, ownerID uint, name string) (*T, error)
	Rename(ctx context.Context, ownerID, id uint, name string) (*T, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, ownerID uint, filter repository.RecipeFilter) ([]models.Recipe, error)
	Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error)
	Create(ctx context.Context, ownerID uint, ch RecipeChanges) (*models.Recipe, error)
	Update(ctx context.Context, ownerID, id uint, ch RecipeChanges) (*models.Recipe, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

// IImageService defines the interface for recipe image uploads
type IImageService interface {
	UploadRecipeImage(ctx context.Context, ownerID, recipeID uint, data []byte) (*models.Recipe, error)
	URL(key string) string
}
