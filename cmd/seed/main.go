package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/repository"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/storage"
)

type seedRecipe struct {
	title       string
	minutes     int
	price       string
	link        string
	tags        []string
	ingredients []string
}

var seedUsers = []struct {
	name  string
	email string
}{
	{"John Doe", "john.doe@example.com"},
	{"Jane Smith", "jane.smith@example.com"},
}

var seedRecipes = []seedRecipe{
	{"Tomato Soup", 30, "4.50", "", []string{"Vegan", "Soup"}, []string{"Tomato", "Onion", "Garlic"}},
	{"Garlic Bread", 15, "2.00", "", []string{"Vegetarian", "Quick"}, []string{"Bread", "Garlic", "Butter"}},
	{"Chickpea Curry", 40, "6.75", "https://example.com/chickpea-curry", []string{"Vegan", "Spicy"}, []string{"Chickpeas", "Tomato", "Onion", "Coconut milk"}},
	{"Pancakes", 20, "3.25", "", []string{"Breakfast", "Vegetarian"}, []string{"Flour", "Milk", "Egg", "Butter"}},
	{"Greek Salad", 10, "5.50", "", []string{"Vegetarian", "Quick"}, []string{"Tomato", "Cucumber", "Feta", "Olives"}},
}

func main() {
	password := flag.String("password", "testpassword123", "Password for the seeded accounts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	images, err := storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		logger.Fatal("failed to open media root", zap.Error(err))
	}

	s := &seeder{
		db:          db,
		log:         logger,
		users:       service.NewUserService(db, logger),
		tags:        service.NewTagService(repository.NewTagRepository(db), logger),
		ingredients: service.NewIngredientService(repository.NewIngredientRepository(db), logger),
		recipes: service.NewRecipeService(
			repository.NewRecipeRepository(db),
			repository.NewTagRepository(db),
			repository.NewIngredientRepository(db),
			images,
			logger,
		),
	}

	ctx := context.Background()
	for _, u := range seedUsers {
		if err := s.seedUser(ctx, u.email, *password, u.name); err != nil {
			logger.Fatal("failed to seed user", zap.String("email", u.email), zap.Error(err))
		}
	}
	logger.Info("seed complete", zap.Int("users", len(seedUsers)))
}

type seeder struct {
	db          *gorm.DB
	log         *zap.Logger
	users       *service.UserService
	tags        *service.AttributeService[models.Tag]
	ingredients *service.AttributeService[models.Ingredient]
	recipes     *service.RecipeService
}

// seedUser creates the account and its recipes. Existing accounts are left
// alone so the command can be rerun.
func (s *seeder) seedUser(ctx context.Context, email, password, name string) error {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&existing).Error
	if err == nil {
		s.log.Info("user already exists, skipping", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user, err := s.users.CreateUser(ctx, email, password, name)
	if err != nil {
		return err
	}

	tagIDs := map[string]uint{}
	ingredientIDs := map[string]uint{}
	for _, r := range seedRecipes {
		for _, t := range r.tags {
			if _, ok := tagIDs[t]; ok {
				continue
			}
			tag, err := s.tags.Create(ctx, user.ID, t)
			if err != nil {
				return err
			}
			tagIDs[t] = tag.ID
		}
		for _, i := range r.ingredients {
			if _, ok := ingredientIDs[i]; ok {
				continue
			}
			ing, err := s.ingredients.Create(ctx, user.ID, i)
			if err != nil {
				return err
			}
			ingredientIDs[i] = ing.ID
		}

		title, minutes, link := r.title, r.minutes, r.link
		price := decimal.RequireFromString(r.price)
		changes := service.RecipeChanges{
			Title:         &title,
			TimeMinutes:   &minutes,
			Price:         &price,
			Link:          &link,
			TagIDs:        lookup(tagIDs, r.tags),
			IngredientIDs: lookup(ingredientIDs, r.ingredients),
		}
		if _, err := s.recipes.Create(ctx, user.ID, changes); err != nil {
			return err
		}
	}

	s.log.Info("created user", zap.String("email", user.Email), zap.Int("recipes", len(seedRecipes)))
	return nil
}

func lookup(ids map[string]uint, names []string) []uint {
	out := make([]uint, 0, len(names))
	for _, n := range names {
		out = append(out, ids[n])
	}
	return out
}
