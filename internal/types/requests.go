package types

import "github.com/shopspring/decimal"

// CreateUserRequest represents the request body for registering a user
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=5,max=128"`
	Name     string `json:"name" binding:"max=255"`
}

// ReplaceUserRequest is the body of a full profile update
type ReplaceUserRequest CreateUserRequest

// UpdateUserRequest is the body of a partial profile update
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=5,max=128"`
	Name     *string `json:"name" binding:"omitempty,max=255"`
}

// TokenRequest carries login credentials. Fields are checked by the auth
// service so every failure looks the same to the caller.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AttributeRequest is the body for creating or renaming a tag or ingredient
type AttributeRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// RecipeRequest represents the request body for creating or replacing a
// recipe. Omitted optional fields are left unchanged on update; an empty
// tags or ingredients array clears that relation.
type RecipeRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Link        *string          `json:"link" binding:"omitempty,max=255"`
	Tags        []uint           `json:"tags"`
	Ingredients []uint           `json:"ingredients"`
}

// PatchRecipeRequest represents the request body for a partial recipe update
type PatchRecipeRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=255"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link" binding:"omitempty,max=255"`
	Tags        []uint           `json:"tags"`
	Ingredients []uint           `json:"ingredients"`
}
