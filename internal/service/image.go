package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/repository"
	"github.com/pageza/recipe-api/backend/internal/storage"
)

// ImageService attaches uploaded images to recipes.
type ImageService struct {
	recipes *repository.RecipeRepository
	store   storage.ImageStore
	log     *zap.Logger
}

func NewImageService(recipes *repository.RecipeRepository, store storage.ImageStore, log *zap.Logger) *ImageService {
	return &ImageService{recipes: recipes, store: store, log: log}
}

// UploadRecipeImage validates data, stores it under a new key and points
// the recipe at it. The previous image is removed only after the recipe
// row references the new one; on any failure the recipe keeps its old
// image.
func (s *ImageService) UploadRecipeImage(ctx context.Context, ownerID, recipeID uint, data []byte) (*models.Recipe, error) {
	recipe, err := s.recipes.GetForOwner(ctx, ownerID, recipeID)
	if err != nil {
		return nil, wrapRepoError(err, "failed to load recipe")
	}

	info, err := storage.ValidateImage(data)
	if err != nil {
		return nil, apperrors.FieldError("image", storage.ErrInvalidImage.Error())
	}

	key := storage.NewImageKey(info.Ext)
	if err := s.store.Save(ctx, key, data, info.ContentType); err != nil {
		return nil, apperrors.Internal(err, "failed to store image")
	}

	if err := s.recipes.SetImage(ctx, ownerID, recipeID, key); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("failed to remove orphaned image", zap.String("image", key), zap.Error(delErr))
		}
		return nil, wrapRepoError(err, "failed to update recipe image")
	}

	if old := recipe.Image; old != "" && old != key {
		if err := s.store.Delete(ctx, old); err != nil {
			s.log.Error("failed to delete replaced image", zap.String("image", old), zap.Error(err))
		}
	}

	s.log.Info("recipe image uploaded",
		zap.Uint("recipe_id", recipeID),
		zap.String("image", key),
		zap.String("format", info.Format),
	)
	recipe.Image = key
	return recipe, nil
}

func (s *ImageService) URL(key string) string {
	return s.store.URL(key)
}
