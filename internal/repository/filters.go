package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
)

// AttributeFilter narrows a tag or ingredient listing.
type AttributeFilter struct {
	// AssignedOnly keeps only rows linked to at least one recipe.
	AssignedOnly bool
}

// RecipeFilter narrows a recipe listing. IDs within one list are OR'ed;
// the two lists are AND'ed when both are set.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// ParseAttributeFilter parses the assigned_only query value.
func ParseAttributeFilter(assignedOnly string) (AttributeFilter, error) {
	on, err := ParseAssignedOnly(assignedOnly)
	if err != nil {
		return AttributeFilter{}, apperrors.FieldError("assigned_only", err.Error())
	}
	return AttributeFilter{AssignedOnly: on}, nil
}

// ParseAssignedOnly treats an empty value as false. Any other value must be
// an integer; non-zero means true.
func ParseAssignedOnly(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, fmt.Errorf("invalid integer %q", raw)
	}
	return n != 0, nil
}

// ParseRecipeFilter parses the tags and ingredients query values.
func ParseRecipeFilter(tags, ingredients string) (RecipeFilter, error) {
	tagIDs, err := ParseIDList(tags)
	if err != nil {
		return RecipeFilter{}, apperrors.FieldError("tags", err.Error())
	}
	ingredientIDs, err := ParseIDList(ingredients)
	if err != nil {
		return RecipeFilter{}, apperrors.FieldError("ingredients", err.Error())
	}
	return RecipeFilter{TagIDs: tagIDs, IngredientIDs: ingredientIDs}, nil
}

// ParseIDList parses a comma separated list of integer IDs. An empty string
// yields nil. Every token must be a non-negative integer.
func ParseIDList(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		id, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", token)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
