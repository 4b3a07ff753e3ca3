package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
)

// RecipeRepository stores recipes and their tag and ingredient links.
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func preloadRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.id") })
}

// ListForOwner returns the owner's recipes, newest first, with relations
// loaded.
func (r *RecipeRepository) ListForOwner(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	err := preloadRelations(recipeQuery(r.db.WithContext(ctx), ownerID, filter)).Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *RecipeRepository) GetForOwner(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := preloadRelations(r.db.WithContext(ctx)).
		Where("recipes.id = ? AND recipes.user_id = ?", id, ownerID).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("recipe not found")
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Create inserts the recipe and links it to tagIDs and ingredientIDs in one
// transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagIDs, ingredientIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := replaceLinks(tx, tagKind, recipe.ID, tagIDs); err != nil {
			return err
		}
		return replaceLinks(tx, ingredientKind, recipe.ID, ingredientIDs)
	})
}

// Save writes the recipe's scalar fields. A nil ID slice leaves that
// relation untouched; a non-nil slice replaces it.
func (r *RecipeRepository) Save(ctx context.Context, recipe *models.Recipe, tagIDs, ingredientIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(recipe).Omit(clause.Associations).Updates(map[string]interface{}{
			"title":        recipe.Title,
			"time_minutes": recipe.TimeMinutes,
			"price":        recipe.Price,
			"link":         recipe.Link,
		}).Error
		if err != nil {
			return err
		}
		if tagIDs != nil {
			if err := replaceLinks(tx, tagKind, recipe.ID, tagIDs); err != nil {
				return err
			}
		}
		if ingredientIDs != nil {
			if err := replaceLinks(tx, ingredientKind, recipe.ID, ingredientIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an owned recipe and its links. It returns the removed
// recipe so the caller can clean up its image.
func (r *RecipeRepository) Delete(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&recipe).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("recipe not found")
		}
		if err != nil {
			return err
		}
		if err := replaceLinks(tx, tagKind, recipe.ID, nil); err != nil {
			return err
		}
		if err := replaceLinks(tx, ingredientKind, recipe.ID, nil); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// SetImage points an owned recipe at a new image key.
func (r *RecipeRepository) SetImage(ctx context.Context, ownerID, id uint, image string) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("image", image)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("recipe not found")
	}
	return nil
}

// replaceLinks rewrites the join rows of one relation for a recipe.
func replaceLinks(tx *gorm.DB, kind attributeKind, recipeID uint, ids []uint) error {
	if err := tx.Exec("DELETE FROM "+kind.joinTable+" WHERE recipe_id = ?", recipeID).Error; err != nil {
		return err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]interface{}{"recipe_id": recipeID, kind.joinColumn: id})
	}
	return tx.Table(kind.joinTable).Create(&rows).Error
}
