package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/repository"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// MaxImageBytes is the largest accepted image upload.
const MaxImageBytes = 10 << 20

type RecipeHandler struct {
	recipes service.IRecipeService
	images  service.IImageService
	render  *Renderer
}

func NewRecipeHandler(recipes service.IRecipeService, images service.IImageService) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		images:  images,
		render:  NewRenderer(images.URL),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.ReplaceRecipe)
		recipes.PATCH("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/upload-image", h.UploadImage)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	filter, err := repository.ParseRecipeFilter(c.Query("tags"), c.Query("ingredients"))
	if err != nil {
		respondError(c, err)
		return
	}

	recipes, err := h.recipes.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipes(recipes, ShapeList))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipe(recipe, ShapeDetail))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), user.ID, fromRecipeRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.render.Recipe(recipe, ShapeList))
}

func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), user.ID, id, fromRecipeRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipe(recipe, ShapeList))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.PatchRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), user.ID, id, service.RecipeChanges{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipe(recipe, ShapeList))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperrors.FieldError("image", "no file was submitted"))
		return
	}
	if header.Size > MaxImageBytes {
		respondError(c, apperrors.FieldError("image", "file is too large"))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, apperrors.Internal(err, "failed to read upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		respondError(c, apperrors.Internal(err, "failed to read upload"))
		return
	}
	if len(data) > MaxImageBytes {
		respondError(c, apperrors.FieldError("image", "file is too large"))
		return
	}

	recipe, err := h.images.UploadRecipeImage(c.Request.Context(), user.ID, id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render.Recipe(recipe, ShapeImage))
}

func fromRecipeRequest(req types.RecipeRequest) service.RecipeChanges {
	title := req.Title
	return service.RecipeChanges{
		Title:         &title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	}
}
