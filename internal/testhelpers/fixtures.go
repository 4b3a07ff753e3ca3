package testhelpers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/models"
)

// TestPassword is the plaintext password of users created by CreateUser.
const TestPassword = "testpass123"

// CreateUser inserts an active user with TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error, "failed to create test user")
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, UserID: owner.ID}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, UserID: owner.ID}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateRecipe inserts a recipe owned by owner and links the given tags and
// ingredients.
func CreateRecipe(t *testing.T, db *gorm.DB, owner *models.User, title string, tags []*models.Tag, ingredients []*models.Ingredient) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:       title,
		UserID:      owner.ID,
		TimeMinutes: 10,
		Price:       decimal.RequireFromString("5.00"),
	}
	for _, tag := range tags {
		recipe.Tags = append(recipe.Tags, *tag)
	}
	for _, ing := range ingredients {
		recipe.Ingredients = append(recipe.Ingredients, *ing)
	}
	require.NoError(t, db.Omit("Tags.*", "Ingredients.*").Create(recipe).Error)
	return recipe
}

// PNG returns a small valid PNG image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
