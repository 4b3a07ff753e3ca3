package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
)

// Attribute is a user-owned entity that recipes link to.
type Attribute interface {
	models.Tag | models.Ingredient
}

// AttributeRepository stores tags or ingredients. Every read and write is
// scoped to an owner.
type AttributeRepository[T Attribute] struct {
	db    *gorm.DB
	kind  attributeKind
	label string
}

func NewTagRepository(db *gorm.DB) *AttributeRepository[models.Tag] {
	return &AttributeRepository[models.Tag]{db: db, kind: tagKind, label: "tag"}
}

func NewIngredientRepository(db *gorm.DB) *AttributeRepository[models.Ingredient] {
	return &AttributeRepository[models.Ingredient]{db: db, kind: ingredientKind, label: "ingredient"}
}

// ListForOwner returns the owner's rows ordered by name descending.
func (r *AttributeRepository[T]) ListForOwner(ctx context.Context, ownerID uint, filter AttributeFilter) ([]T, error) {
	rows := []T{}
	if err := attributeQuery(r.db.WithContext(ctx), r.kind, ownerID, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AttributeRepository[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// GetForOwner returns a NOT_FOUND error when the row does not exist or
// belongs to someone else.
func (r *AttributeRepository[T]) GetForOwner(ctx context.Context, ownerID, id uint) (*T, error) {
	row := new(T)
	err := r.db.WithContext(ctx).
		Where(r.kind.table+".id = ? AND "+r.kind.table+".user_id = ?", id, ownerID).
		First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound(r.label + " not found")
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Rename sets the name of an owned row and returns the updated row.
func (r *AttributeRepository[T]) Rename(ctx context.Context, ownerID, id uint, name string) (*T, error) {
	row, err := r.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(row).Update("name", name).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes an owned row together with its recipe links.
func (r *AttributeRepository[T]) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM "+r.kind.joinTable+" WHERE "+r.kind.joinColumn+" = ? AND "+r.kind.joinColumn+
			" IN (SELECT id FROM "+r.kind.table+" WHERE user_id = ?)", id, ownerID)
		if res.Error != nil {
			return res.Error
		}
		res = tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound(r.label + " not found")
		}
		return nil
	})
}

// OwnsAll reports whether every ID in ids names a row owned by ownerID.
func (r *AttributeRepository[T]) OwnsAll(ctx context.Context, ownerID uint, ids []uint) (bool, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return true, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Table(r.kind.table).
		Where("id IN ? AND user_id = ?", ids, ownerID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n == int64(len(ids)), nil
}
