package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func recipeIDs(list []RecipeResponse) []uint {
	ids := make([]uint, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRecipeDetailAndList(t *testing.T) {
	env := setupTestEnv(t)

	require.Equal(t, http.StatusCreated, PerformRequest(env.Router, "POST", "/api/v1/user/create", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	}).Code)
	w := PerformRequest(env.Router, "POST", "/api/v1/user/token", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]

	w = PerformRequestWithToken(env.Router, "POST", "/api/v1/recipe/tags", map[string]string{"name": "Vegan"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	tag := decode[models.Tag](t, w)

	w = PerformRequestWithToken(env.Router, "POST", "/api/v1/recipe/ingredients", map[string]string{"name": "Tomato"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	ing := decode[models.Ingredient](t, w)

	w = PerformRequestWithToken(env.Router, "POST", "/api/v1/recipe/recipes", map[string]interface{}{
		"title":        "Soup",
		"time_minutes": 30,
		"price":        "4.50",
		"tags":         []uint{tag.ID},
		"ingredients":  []uint{ing.ID},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[RecipeResponse](t, w)

	w = PerformRequestWithToken(env.Router, "GET", "/api/v1/recipe/recipes/"+itoa(created.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": `+itoa(created.ID)+`,
		"title": "Soup",
		"time_minutes": 30,
		"price": "4.50",
		"link": "",
		"image": null,
		"tags": [{"id": `+itoa(tag.ID)+`, "name": "Vegan"}],
		"ingredients": [{"id": `+itoa(ing.ID)+`, "name": "Tomato"}]
	}`, w.Body.String())

	w = PerformRequestWithToken(env.Router, "GET", "/api/v1/recipe/recipes", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"id": `+itoa(created.ID)+`,
		"title": "Soup",
		"time_minutes": 30,
		"price": "4.50",
		"link": "",
		"tags": [`+itoa(tag.ID)+`],
		"ingredients": [`+itoa(ing.ID)+`]
	}]`, w.Body.String())
}

func TestListRecipesFiltering(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.CreateTestUserAndToken(t, "chef@example.com")
	other := testhelpers.CreateUser(t, env.DB, "other@example.com")

	vegan := testhelpers.CreateTag(t, env.DB, user, "Vegan")
	quick := testhelpers.CreateTag(t, env.DB, user, "Quick")
	tomato := testhelpers.CreateIngredient(t, env.DB, user, "Tomato")

	r1 := testhelpers.CreateRecipe(t, env.DB, user, "Soup", []*models.Tag{vegan}, []*models.Ingredient{tomato})
	r2 := testhelpers.CreateRecipe(t, env.DB, user, "Toast", []*models.Tag{quick}, nil)
	r3 := testhelpers.CreateRecipe(t, env.DB, user, "Stew", nil, nil)
	testhelpers.CreateRecipe(t, env.DB, other, "Secret", nil, nil)

	list := func(t *testing.T, query string) []uint {
		t.Helper()
		w := PerformRequestWithToken(env.Router, "GET", "/api/v1/recipe/recipes"+query, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return recipeIDs(decode[[]RecipeResponse](t, w))
	}

	t.Run("only own recipes, newest first", func(t *testing.T) {
		assert.Equal(t, []uint{r3.ID, r2.ID, r1.ID}, list(t, ""))
	})

	t.Run("tags are a union", func(t *testing.T) {
		ids := list(t, "?tags="+itoa(vegan.ID)+","+itoa(quick.ID))
		assert.ElementsMatch(t, []uint{r1.ID, r2.ID}, ids)
	})

	t.Run("tags and ingredients intersect", func(t *testing.T) {
		ids := list(t, "?tags="+itoa(vegan.ID)+","+itoa(quick.ID)+"&ingredients="+itoa(tomato.ID))
		assert.Equal(t, []uint{r1.ID}, ids)
	})

	t.Run("non-integer id is a client error", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "GET", "/api/v1/recipe/recipes?tags=1,abc", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecipeOwnership(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.CreateTestUserAndToken(t, "owner@example.com")
	other := testhelpers.CreateUser(t, env.DB, "other@example.com")
	foreignTag := testhelpers.CreateTag(t, env.DB, other, "Theirs")
	foreign := testhelpers.CreateRecipe(t, env.DB, other, "Secret", nil, nil)

	t.Run("cannot read another user's recipe", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "GET", "/api/v1/recipe/recipes/"+itoa(foreign.ID), nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cannot delete another user's recipe", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "DELETE", "/api/v1/recipe/recipes/"+itoa(foreign.ID), nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cannot link another user's tag", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "POST", "/api/v1/recipe/recipes", map[string]interface{}{
			"title":        "Mine",
			"time_minutes": 5,
			"price":        "1.00",
			"tags":         []uint{foreignTag.ID},
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[map[string]interface{}](t, w)
		assert.Contains(t, body["details"], "tags")
	})
}

func TestUpdateRecipe(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.CreateTestUserAndToken(t, "edit@example.com")
	vegan := testhelpers.CreateTag(t, env.DB, user, "Vegan")
	quick := testhelpers.CreateTag(t, env.DB, user, "Quick")
	recipe := testhelpers.CreateRecipe(t, env.DB, user, "Soup", []*models.Tag{vegan}, nil)
	path := "/api/v1/recipe/recipes/" + itoa(recipe.ID)

	t.Run("patch changes only given fields", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "PATCH", path, map[string]interface{}{"title": "Better soup"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got := decode[RecipeResponse](t, w)
		assert.Equal(t, "Better soup", got.Title)
		assert.Equal(t, 10, got.TimeMinutes)
		assert.Equal(t, []uint{vegan.ID}, got.Tags)
	})

	t.Run("put replaces relations", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "PUT", path, map[string]interface{}{
			"title":        "Quick soup",
			"time_minutes": 15,
			"price":        "2.25",
			"link":         "https://example.com/soup",
			"tags":         []uint{quick.ID},
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		got := decode[RecipeResponse](t, w)
		assert.Equal(t, "Quick soup", got.Title)
		assert.Equal(t, "2.25", got.Price)
		assert.Equal(t, "https://example.com/soup", got.Link)
		assert.Equal(t, []uint{quick.ID}, got.Tags)
	})

	t.Run("put requires title", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "PUT", path, map[string]interface{}{
			"time_minutes": 15,
			"price":        "2.25",
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("price out of range", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "PATCH", path, map[string]interface{}{"price": "1000.00"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty tags clears relation", func(t *testing.T) {
		w := PerformRequestWithToken(env.Router, "PATCH", path, map[string]interface{}{"tags": []uint{}}, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[RecipeResponse](t, w).Tags)
	})
}

func TestUploadImage(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.CreateTestUserAndToken(t, "img@example.com")
	recipe := testhelpers.CreateRecipe(t, env.DB, user, "Soup", nil, nil)
	path := "/api/v1/recipe/recipes/" + itoa(recipe.ID) + "/upload-image"

	w := PerformUpload(t, env.Router, path, "photo.png", testhelpers.PNG(t), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[RecipeImageResponse](t, w)
	assert.Equal(t, recipe.ID, body.ID)
	require.NotNil(t, body.Image)
	assert.True(t, strings.HasPrefix(*body.Image, "/media/uploads/recipe/"))
	assert.True(t, strings.HasSuffix(*body.Image, ".png"))

	var stored models.Recipe
	require.NoError(t, env.DB.First(&stored, recipe.ID).Error)
	first := stored.Image
	_, err := os.Stat(filepath.Join(env.MediaRoot, first))
	require.NoError(t, err)

	t.Run("invalid image keeps the previous one", func(t *testing.T) {
		w := PerformUpload(t, env.Router, path, "photo.png", []byte("notanimage"), token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var after models.Recipe
		require.NoError(t, env.DB.First(&after, recipe.ID).Error)
		assert.Equal(t, first, after.Image)
		_, err := os.Stat(filepath.Join(env.MediaRoot, first))
		assert.NoError(t, err)
	})

	t.Run("re-upload replaces the file", func(t *testing.T) {
		w := PerformUpload(t, env.Router, path, "again.png", testhelpers.PNG(t), token)
		require.Equal(t, http.StatusOK, w.Code)

		var after models.Recipe
		require.NoError(t, env.DB.First(&after, recipe.ID).Error)
		assert.NotEqual(t, first, after.Image)
		_, err := os.Stat(filepath.Join(env.MediaRoot, first))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete removes the image", func(t *testing.T) {
		var current models.Recipe
		require.NoError(t, env.DB.First(&current, recipe.ID).Error)

		w := PerformRequestWithToken(env.Router, "DELETE", "/api/v1/recipe/recipes/"+itoa(recipe.ID), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		_, err := os.Stat(filepath.Join(env.MediaRoot, current.Image))
		assert.True(t, os.IsNotExist(err))
	})
}
