package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/api"
	"github.com/pageza/recipe-api/backend/internal/apperrors"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/validation"
)

// AuthService is what the router needs from the token layer
type AuthService interface {
	service.IAuthService
	middleware.TokenAuthenticator
}

// Deps holds everything the routes are built from
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Redis       *redis.Client
	Users       service.IUserService
	Auth        AuthService
	Tags        service.IAttributeService[models.Tag]
	Ingredients service.IAttributeService[models.Ingredient]
	Recipes     service.IRecipeService
	Images      service.IImageService
}

// SetupRouter configures the application routes
func SetupRouter(d Deps) *gin.Engine {
	validation.Register()

	router := gin.New()
	router.MaxMultipartMemory = api.MaxImageBytes
	router.HandleMethodNotAllowed = true

	router.Use(middleware.RequestLogger(d.Logger), gin.Recovery())
	router.Use(middleware.CORS(d.Config.CORSAllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperrors.NotFound("not found"))
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	router.GET("/healthz", api.NewHealthHandler(d.DB, d.Redis).Health)

	if d.Config.ImageBackend == config.ImageBackendLocal && d.Config.MediaURL != "" {
		router.Static(d.Config.MediaURL, d.Config.MediaRoot)
	}

	authMW := middleware.AuthMiddleware(d.Auth)

	var tokenLimits gin.HandlerFunc
	if d.Config.TokenRateLimit > 0 {
		tokenLimits = middleware.RateLimitMiddleware(
			middleware.NewTokenRateLimiter(d.Redis, d.Config.TokenRateLimit),
			d.Logger,
		)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	api.NewUserHandler(d.Users, d.Auth, authMW, tokenLimits).RegisterRoutes(v1)

	// Protected routes
	recipe := v1.Group("/recipe")
	recipe.Use(authMW)
	{
		api.NewAttributeHandler(d.Tags, "/tags").RegisterRoutes(recipe)
		api.NewAttributeHandler(d.Ingredients, "/ingredients").RegisterRoutes(recipe)
		api.NewRecipeHandler(d.Recipes, d.Images).RegisterRoutes(recipe)
	}

	return router
}
