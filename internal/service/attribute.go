package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/repository"
)

// AttributeService manages one kind of owner-scoped recipe attribute.
type AttributeService[T repository.Attribute] struct {
	repo   *repository.AttributeRepository[T]
	newRow func(ownerID uint, name string) *T
	kind   string
	log    *zap.Logger
}

func NewTagService(repo *repository.AttributeRepository[models.Tag], log *zap.Logger) *AttributeService[models.Tag] {
	return &AttributeService[models.Tag]{
		repo: repo,
		newRow: func(ownerID uint, name string) *models.Tag {
			return &models.Tag{Name: name, UserID: ownerID}
		},
		kind: "tag",
		log:  log,
	}
}

func NewIngredientService(repo *repository.AttributeRepository[models.Ingredient], log *zap.Logger) *AttributeService[models.Ingredient] {
	return &AttributeService[models.Ingredient]{
		repo: repo,
		newRow: func(ownerID uint, name string) *models.Ingredient {
			return &models.Ingredient{Name: name, UserID: ownerID}
		},
		kind: "ingredient",
		log:  log,
	}
}

func (s *AttributeService[T]) List(ctx context.Context, ownerID uint, filter repository.AttributeFilter) ([]T, error) {
	rows, err := s.repo.ListForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list "+s.kind+"s")
	}
	return rows, nil
}

// Create stores a new row owned by ownerID.
func (s *AttributeService[T]) Create(ctx context.Context, ownerID uint, name string) (*T, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	row := s.newRow(ownerID, name)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, apperrors.Internal(err, "failed to create "+s.kind)
	}
	s.log.Debug(s.kind+" created", zap.Uint("user_id", ownerID))
	return row, nil
}

func (s *AttributeService[T]) Rename(ctx context.Context, ownerID, id uint, name string) (*T, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.Rename(ctx, ownerID, id, name)
	if err != nil {
		return nil, wrapRepoError(err, "failed to update "+s.kind)
	}
	return row, nil
}

func (s *AttributeService[T]) Delete(ctx context.Context, ownerID, id uint) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return wrapRepoError(err, "failed to delete "+s.kind)
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.FieldError("name", "this field may not be blank")
	}
	if len([]rune(name)) > 255 {
		return "", apperrors.FieldError("name", "ensure this field has no more than 255 characters")
	}
	return name, nil
}

// wrapRepoError passes coded errors through and marks the rest internal.
func wrapRepoError(err error, msg string) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(err, msg)
}
