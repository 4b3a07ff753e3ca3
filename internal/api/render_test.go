package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-api/backend/internal/models"
)

func TestRendererShapes(t *testing.T) {
	r := NewRenderer(func(key string) string { return "https://cdn.example.com/" + key })
	recipe := &models.Recipe{
		ID:          7,
		Title:       "Soup",
		TimeMinutes: 30,
		Price:       decimal.RequireFromString("4.5"),
		Image:       "uploads/recipe/abc.jpg",
		Tags:        []models.Tag{{ID: 1, Name: "Vegan"}},
	}

	list, ok := r.Recipe(recipe, ShapeList).(RecipeResponse)
	require.True(t, ok)
	assert.Equal(t, "4.50", list.Price)
	assert.Equal(t, []uint{1}, list.Tags)
	assert.Equal(t, []uint{}, list.Ingredients)

	detail, ok := r.Recipe(recipe, ShapeDetail).(RecipeDetailResponse)
	require.True(t, ok)
	assert.Equal(t, []models.Ingredient{}, detail.Ingredients)
	require.NotNil(t, detail.Image)
	assert.Equal(t, "https://cdn.example.com/uploads/recipe/abc.jpg", *detail.Image)

	img, ok := r.Recipe(recipe, ShapeImage).(RecipeImageResponse)
	require.True(t, ok)
	assert.Equal(t, uint(7), img.ID)

	recipe.Image = ""
	img = r.Recipe(recipe, ShapeImage).(RecipeImageResponse)
	assert.Nil(t, img.Image)
}

func TestRecipesEmpty(t *testing.T) {
	out := NewRenderer(nil).Recipes(nil, ShapeList)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
