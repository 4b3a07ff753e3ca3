package api

import (
	"github.com/pageza/recipe-api/backend/internal/models"
)

// Shape selects how a recipe is rendered
type Shape int

const (
	// ShapeList carries tag and ingredient IDs
	ShapeList Shape = iota
	// ShapeDetail nests full tag and ingredient objects
	ShapeDetail
	// ShapeImage carries only the ID and image URL
	ShapeImage
)

// RecipeResponse is the list representation of a recipe
type RecipeResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	Tags        []uint `json:"tags"`
	Ingredients []uint `json:"ingredients"`
}

// RecipeDetailResponse is the single-recipe representation
type RecipeDetailResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
	Image       *string             `json:"image"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

// RecipeImageResponse is returned from an image upload
type RecipeImageResponse struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

// UserResponse is the public representation of an account
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Renderer turns recipes into response bodies
type Renderer struct {
	imageURL func(key string) string
}

func NewRenderer(imageURL func(key string) string) *Renderer {
	return &Renderer{imageURL: imageURL}
}

// Recipe renders one recipe in the given shape
func (r *Renderer) Recipe(recipe *models.Recipe, shape Shape) interface{} {
	switch shape {
	case ShapeDetail:
		tags := recipe.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		ingredients := recipe.Ingredients
		if ingredients == nil {
			ingredients = []models.Ingredient{}
		}
		return RecipeDetailResponse{
			ID:          recipe.ID,
			Title:       recipe.Title,
			TimeMinutes: recipe.TimeMinutes,
			Price:       recipe.Price.StringFixed(2),
			Link:        recipe.Link,
			Image:       r.url(recipe.Image),
			Tags:        tags,
			Ingredients: ingredients,
		}
	case ShapeImage:
		return RecipeImageResponse{ID: recipe.ID, Image: r.url(recipe.Image)}
	default:
		return RecipeResponse{
			ID:          recipe.ID,
			Title:       recipe.Title,
			TimeMinutes: recipe.TimeMinutes,
			Price:       recipe.Price.StringFixed(2),
			Link:        recipe.Link,
			Tags:        recipe.TagIDs(),
			Ingredients: recipe.IngredientIDs(),
		}
	}
}

// Recipes renders a collection in the given shape
func (r *Renderer) Recipes(recipes []models.Recipe, shape Shape) []interface{} {
	out := make([]interface{}, 0, len(recipes))
	for i := range recipes {
		out = append(out, r.Recipe(&recipes[i], shape))
	}
	return out
}

func (r *Renderer) url(key string) *string {
	if key == "" {
		return nil
	}
	u := key
	if r.imageURL != nil {
		u = r.imageURL(key)
	}
	return &u
}

func renderUser(u *models.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}
