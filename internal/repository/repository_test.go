package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
)

func TestRepositories_SQLite(t *testing.T) {
	runRepositoryTests(t, func(t *testing.T) *gorm.DB { return testhelpers.SetupSQLite(t) })
}

func TestRepositories_Postgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	runRepositoryTests(t, func(t *testing.T) *gorm.DB {
		testhelpers.TruncateAll(t, db)
		return db
	})
}

func runRepositoryTests(t *testing.T, setup func(t *testing.T) *gorm.DB) {
	t.Run("TagListIsOwnerScopedAndOrdered", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		alice := testhelpers.CreateUser(t, db, "alice@example.com")
		bob := testhelpers.CreateUser(t, db, "bob@example.com")
		testhelpers.CreateTag(t, db, alice, "Breakfast")
		testhelpers.CreateTag(t, db, alice, "Vegan")
		testhelpers.CreateTag(t, db, bob, "Fruity")

		tags, err := NewTagRepository(db).ListForOwner(ctx, alice.ID, AttributeFilter{})
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "Vegan", tags[0].Name)
		assert.Equal(t, "Breakfast", tags[1].Name)
	})

	t.Run("AssignedOnlyReturnsEachRowOnce", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, db, "user@example.com")
		eggs := testhelpers.CreateIngredient(t, db, user, "Eggs")
		testhelpers.CreateIngredient(t, db, user, "Lentils")
		testhelpers.CreateRecipe(t, db, user, "Eggs Benedict", nil, []*models.Ingredient{eggs})
		testhelpers.CreateRecipe(t, db, user, "Herb Eggs", nil, []*models.Ingredient{eggs})

		repo := NewIngredientRepository(db)
		all, err := repo.ListForOwner(ctx, user.ID, AttributeFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		assigned, err := repo.ListForOwner(ctx, user.ID, AttributeFilter{AssignedOnly: true})
		require.NoError(t, err)
		require.Len(t, assigned, 1)
		assert.Equal(t, eggs.ID, assigned[0].ID)
	})

	t.Run("AssignedOnlyIgnoresOtherOwnersLinks", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		alice := testhelpers.CreateUser(t, db, "alice@example.com")
		bob := testhelpers.CreateUser(t, db, "bob@example.com")
		tag := testhelpers.CreateTag(t, db, bob, "Dinner")
		testhelpers.CreateRecipe(t, db, bob, "Stew", []*models.Tag{tag}, nil)

		tags, err := NewTagRepository(db).ListForOwner(ctx, alice.ID, AttributeFilter{AssignedOnly: true})
		require.NoError(t, err)
		assert.Empty(t, tags)
		assert.NotNil(t, tags)
	})

	t.Run("RecipeFilters", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, db, "user@example.com")
		other := testhelpers.CreateUser(t, db, "other@example.com")
		vegan := testhelpers.CreateTag(t, db, user, "Vegan")
		veggie := testhelpers.CreateTag(t, db, user, "Vegetarian")
		feta := testhelpers.CreateIngredient(t, db, user, "Feta")
		chicken := testhelpers.CreateIngredient(t, db, user, "Chicken")

		r1 := testhelpers.CreateRecipe(t, db, user, "Thai Curry", []*models.Tag{vegan}, []*models.Ingredient{feta})
		r2 := testhelpers.CreateRecipe(t, db, user, "Aubergine", []*models.Tag{veggie, vegan}, []*models.Ingredient{chicken})
		r3 := testhelpers.CreateRecipe(t, db, user, "Fish and chips", nil, nil)
		theirs := testhelpers.CreateRecipe(t, db, other, "Other", nil, nil)
		require.NoError(t, db.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", theirs.ID, vegan.ID).Error)

		repo := NewRecipeRepository(db)

		ids := func(f RecipeFilter) []uint {
			recipes, err := repo.ListForOwner(ctx, user.ID, f)
			require.NoError(t, err)
			out := make([]uint, 0, len(recipes))
			for _, r := range recipes {
				out = append(out, r.ID)
			}
			return out
		}

		assert.Equal(t, []uint{r3.ID, r2.ID, r1.ID}, ids(RecipeFilter{}))
		assert.Equal(t, []uint{r2.ID, r1.ID}, ids(RecipeFilter{TagIDs: []uint{vegan.ID, veggie.ID}}))
		assert.Equal(t, []uint{r1.ID}, ids(RecipeFilter{IngredientIDs: []uint{feta.ID}}))
		assert.Equal(t, []uint{r2.ID}, ids(RecipeFilter{TagIDs: []uint{veggie.ID}, IngredientIDs: []uint{chicken.ID}}))
		assert.Empty(t, ids(RecipeFilter{TagIDs: []uint{veggie.ID}, IngredientIDs: []uint{feta.ID}}))
		assert.Empty(t, ids(RecipeFilter{TagIDs: []uint{9999}}))
	})

	t.Run("RecipeListLoadsRelations", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, db, "user@example.com")
		tag := testhelpers.CreateTag(t, db, user, "Dessert")
		ing := testhelpers.CreateIngredient(t, db, user, "Sugar")
		testhelpers.CreateRecipe(t, db, user, "Cake", []*models.Tag{tag}, []*models.Ingredient{ing})

		recipes, err := NewRecipeRepository(db).ListForOwner(ctx, user.ID, RecipeFilter{})
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, []uint{tag.ID}, recipes[0].TagIDs())
		assert.Equal(t, []uint{ing.ID}, recipes[0].IngredientIDs())
		assert.True(t, decimal.RequireFromString("5.00").Equal(recipes[0].Price))
	})

	t.Run("RecipeCreateAndSave", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, db, "user@example.com")
		t1 := testhelpers.CreateTag(t, db, user, "One")
		t2 := testhelpers.CreateTag(t, db, user, "Two")
		ing := testhelpers.CreateIngredient(t, db, user, "Salt")

		repo := NewRecipeRepository(db)
		recipe := &models.Recipe{
			Title:       "Soup",
			UserID:      user.ID,
			TimeMinutes: 20,
			Price:       decimal.RequireFromString("3.50"),
		}
		require.NoError(t, repo.Create(ctx, recipe, []uint{t1.ID, t1.ID}, []uint{ing.ID}))

		got, err := repo.GetForOwner(ctx, user.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{t1.ID}, got.TagIDs())
		assert.Equal(t, []uint{ing.ID}, got.IngredientIDs())

		got.Title = "Better Soup"
		require.NoError(t, repo.Save(ctx, got, []uint{t2.ID}, nil))

		got, err = repo.GetForOwner(ctx, user.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "Better Soup", got.Title)
		assert.Equal(t, []uint{t2.ID}, got.TagIDs())
		assert.Equal(t, []uint{ing.ID}, got.IngredientIDs(), "nil ingredient list must leave links untouched")

		require.NoError(t, repo.Save(ctx, got, []uint{}, []uint{}))
		got, err = repo.GetForOwner(ctx, user.ID, recipe.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Tags)
		assert.Empty(t, got.Ingredients)
	})

	t.Run("RecipeGetIsOwnerScoped", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		alice := testhelpers.CreateUser(t, db, "alice@example.com")
		bob := testhelpers.CreateUser(t, db, "bob@example.com")
		recipe := testhelpers.CreateRecipe(t, db, bob, "Secret", nil, nil)

		repo := NewRecipeRepository(db)
		_, err := repo.GetForOwner(ctx, alice.ID, recipe.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = repo.Delete(ctx, alice.ID, recipe.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		err = repo.SetImage(ctx, alice.ID, recipe.ID, "x.png")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("RecipeDeleteClearsLinks", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		user := testhelpers.CreateUser(t, db, "user@example.com")
		tag := testhelpers.CreateTag(t, db, user, "Lunch")
		recipe := testhelpers.CreateRecipe(t, db, user, "Wrap", []*models.Tag{tag}, nil)
		require.NoError(t, NewRecipeRepository(db).SetImage(ctx, user.ID, recipe.ID, "wrap.png"))

		deleted, err := NewRecipeRepository(db).Delete(ctx, user.ID, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "wrap.png", deleted.Image)

		var links int64
		require.NoError(t, db.Table("recipe_tags").Where("recipe_id = ?", recipe.ID).Count(&links).Error)
		assert.Zero(t, links)

		tags, err := NewTagRepository(db).ListForOwner(ctx, user.ID, AttributeFilter{})
		require.NoError(t, err)
		assert.Len(t, tags, 1, "deleting a recipe keeps its tags")
	})

	t.Run("AttributeRenameAndDelete", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		alice := testhelpers.CreateUser(t, db, "alice@example.com")
		bob := testhelpers.CreateUser(t, db, "bob@example.com")
		tag := testhelpers.CreateTag(t, db, alice, "Old")
		testhelpers.CreateRecipe(t, db, alice, "Linked", []*models.Tag{tag}, nil)

		repo := NewTagRepository(db)
		_, err := repo.Rename(ctx, bob.ID, tag.ID, "Stolen")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		renamed, err := repo.Rename(ctx, alice.ID, tag.ID, "New")
		require.NoError(t, err)
		assert.Equal(t, "New", renamed.Name)

		assert.ErrorIs(t, repo.Delete(ctx, bob.ID, tag.ID), apperrors.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, alice.ID, tag.ID))

		_, err = repo.GetForOwner(ctx, alice.ID, tag.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("OwnsAll", func(t *testing.T) {
		db := setup(t)
		ctx := context.Background()
		alice := testhelpers.CreateUser(t, db, "alice@example.com")
		bob := testhelpers.CreateUser(t, db, "bob@example.com")
		mine := testhelpers.CreateIngredient(t, db, alice, "Mine")
		theirs := testhelpers.CreateIngredient(t, db, bob, "Theirs")

		repo := NewIngredientRepository(db)
		ok, err := repo.OwnsAll(ctx, alice.ID, []uint{mine.ID, mine.ID})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.OwnsAll(ctx, alice.ID, []uint{mine.ID, theirs.ID})
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.OwnsAll(ctx, alice.ID, nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
