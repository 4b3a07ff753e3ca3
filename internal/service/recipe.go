package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/repository"
	"github.com/pageza/recipe-api/backend/internal/storage"
)

// maxPrice is the largest value a decimal(5,2) column holds.
var maxPrice = decimal.RequireFromString("999.99")

// RecipeChanges carries recipe fields from a request. Nil scalar fields and
// nil ID slices are left unchanged; an empty slice clears the relation.
type RecipeChanges struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        []uint
	IngredientIDs []uint
}

type RecipeService struct {
	recipes     *repository.RecipeRepository
	tags        *repository.AttributeRepository[models.Tag]
	ingredients *repository.AttributeRepository[models.Ingredient]
	images      storage.ImageStore
	log         *zap.Logger
}

func NewRecipeService(
	recipes *repository.RecipeRepository,
	tags *repository.AttributeRepository[models.Tag],
	ingredients *repository.AttributeRepository[models.Ingredient],
	images storage.ImageStore,
	log *zap.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		images:      images,
		log:         log,
	}
}

func (s *RecipeService) List(ctx context.Context, ownerID uint, filter repository.RecipeFilter) ([]models.Recipe, error) {
	recipes, err := s.recipes.ListForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list recipes")
	}
	return recipes, nil
}

func (s *RecipeService) Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, wrapRepoError(err, "failed to load recipe")
	}
	return recipe, nil
}

// Create stores a recipe owned by ownerID. Title, time and price are
// required.
func (s *RecipeService) Create(ctx context.Context, ownerID uint, ch RecipeChanges) (*models.Recipe, error) {
	details := map[string]string{}
	if ch.Title == nil {
		details["title"] = "this field is required"
	}
	if ch.TimeMinutes == nil {
		details["time_minutes"] = "this field is required"
	}
	if ch.Price == nil {
		details["price"] = "this field is required"
	}
	if len(details) > 0 {
		return nil, apperrors.ValidationWithDetails("validation failed", details)
	}

	recipe := &models.Recipe{UserID: ownerID}
	if err := s.apply(ctx, ownerID, recipe, ch); err != nil {
		return nil, err
	}
	if err := s.recipes.Create(ctx, recipe, ch.TagIDs, ch.IngredientIDs); err != nil {
		return nil, apperrors.Internal(err, "failed to create recipe")
	}

	s.log.Info("recipe created", zap.Uint("user_id", ownerID), zap.Uint("recipe_id", recipe.ID))
	return s.Get(ctx, ownerID, recipe.ID)
}

func (s *RecipeService) Update(ctx context.Context, ownerID, id uint, ch RecipeChanges) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, ownerID, recipe, ch); err != nil {
		return nil, err
	}
	if err := s.recipes.Save(ctx, recipe, ch.TagIDs, ch.IngredientIDs); err != nil {
		return nil, apperrors.Internal(err, "failed to update recipe")
	}
	return s.Get(ctx, ownerID, id)
}

// Delete removes the recipe and then its image file.
func (s *RecipeService) Delete(ctx context.Context, ownerID, id uint) error {
	recipe, err := s.recipes.Delete(ctx, ownerID, id)
	if err != nil {
		return wrapRepoError(err, "failed to delete recipe")
	}
	if recipe.Image != "" && s.images != nil {
		if err := s.images.Delete(ctx, recipe.Image); err != nil {
			s.log.Error("failed to delete recipe image",
				zap.Uint("recipe_id", id),
				zap.String("image", recipe.Image),
				zap.Error(err),
			)
		}
	}
	s.log.Info("recipe deleted", zap.Uint("user_id", ownerID), zap.Uint("recipe_id", id))
	return nil
}

// apply validates ch and copies it onto recipe.
func (s *RecipeService) apply(ctx context.Context, ownerID uint, recipe *models.Recipe, ch RecipeChanges) error {
	details := map[string]string{}

	if ch.Title != nil {
		title := strings.TrimSpace(*ch.Title)
		switch {
		case title == "":
			details["title"] = "this field may not be blank"
		case len([]rune(title)) > 255:
			details["title"] = "ensure this field has no more than 255 characters"
		default:
			recipe.Title = title
		}
	}
	if ch.TimeMinutes != nil {
		if *ch.TimeMinutes < 0 {
			details["time_minutes"] = "ensure this value is greater than or equal to 0"
		} else {
			recipe.TimeMinutes = *ch.TimeMinutes
		}
	}
	if ch.Price != nil {
		if msg := checkPrice(*ch.Price); msg != "" {
			details["price"] = msg
		} else {
			recipe.Price = *ch.Price
		}
	}
	if ch.Link != nil {
		recipe.Link = strings.TrimSpace(*ch.Link)
	}

	ok, err := s.tags.OwnsAll(ctx, ownerID, ch.TagIDs)
	if err != nil {
		return apperrors.Internal(err, "failed to check tags")
	}
	if !ok {
		details["tags"] = "invalid tag id"
	}
	ok, err = s.ingredients.OwnsAll(ctx, ownerID, ch.IngredientIDs)
	if err != nil {
		return apperrors.Internal(err, "failed to check ingredients")
	}
	if !ok {
		details["ingredients"] = "invalid ingredient id"
	}

	if len(details) > 0 {
		return apperrors.ValidationWithDetails("validation failed", details)
	}
	return nil
}

func checkPrice(price decimal.Decimal) string {
	if !price.Equal(price.Round(2)) {
		return "ensure that there are no more than 2 decimal places"
	}
	if price.Abs().GreaterThan(maxPrice) {
		return "ensure that there are no more than 5 digits in total"
	}
	return ""
}
