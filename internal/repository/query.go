package repository

import (
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/models"
)

// attributeKind describes where a tag-like entity and its recipe links live.
type attributeKind struct {
	table      string
	joinTable  string
	joinColumn string
}

var (
	tagKind        = attributeKind{table: "tags", joinTable: "recipe_tags", joinColumn: "tag_id"}
	ingredientKind = attributeKind{table: "ingredients", joinTable: "recipe_ingredients", joinColumn: "ingredient_id"}
)

// attributeQuery composes the owner-scoped tag/ingredient listing.
//
// Assigned-only rows are selected with an IN over the join table rather than
// a join, so a row linked to several recipes still comes back once. The
// owner condition is applied last and unconditionally.
func attributeQuery(db *gorm.DB, kind attributeKind, ownerID uint, filter AttributeFilter) *gorm.DB {
	q := db.Table(kind.table)
	if filter.AssignedOnly {
		q = q.Where(kind.table+".id IN (?)", db.Table(kind.joinTable).Select(kind.joinColumn))
	}
	return q.Where(kind.table+".user_id = ?", ownerID).
		Order(kind.table + ".name DESC").
		Order(kind.table + ".id DESC")
}

// recipeQuery composes the owner-scoped recipe listing. Each non-empty ID
// list adds one IN condition, which gives OR within a list and AND across
// lists without duplicating recipes.
func recipeQuery(db *gorm.DB, ownerID uint, filter RecipeFilter) *gorm.DB {
	q := db.Model(&models.Recipe{})
	if len(filter.TagIDs) > 0 {
		q = q.Where("recipes.id IN (?)",
			db.Table(tagKind.joinTable).Select("recipe_id").Where(tagKind.joinColumn+" IN ?", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Where("recipes.id IN (?)",
			db.Table(ingredientKind.joinTable).Select("recipe_id").Where(ingredientKind.joinColumn+" IN ?", filter.IngredientIDs))
	}
	return q.Where("recipes.user_id = ?", ownerID).Order("recipes.id DESC")
}
