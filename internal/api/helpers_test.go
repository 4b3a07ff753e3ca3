package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/repository"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/storage"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
	"github.com/pageza/recipe-api/backend/internal/validation"
)

// testEnv is a router backed by an in-memory database
type testEnv struct {
	Router    *gin.Engine
	DB        *gorm.DB
	Auth      *service.AuthService
	MediaRoot string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Register()

	db := testhelpers.SetupSQLite(t)
	log := logging.NewNop()
	mediaRoot := t.TempDir()
	images, err := storage.NewLocalStore(mediaRoot, "/media")
	require.NoError(t, err)

	users := service.NewUserService(db, log).WithHashCost(bcrypt.MinCost)
	auth := service.NewAuthService(users, service.NewDBTokenStore(db, time.Hour), log)
	recipeRepo := repository.NewRecipeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)

	router := gin.New()
	authMW := middleware.AuthMiddleware(auth)
	v1 := router.Group("/api/v1")
	NewUserHandler(users, auth, authMW, nil).RegisterRoutes(v1)
	protected := v1.Group("/recipe")
	protected.Use(authMW)
	NewAttributeHandler[models.Tag](service.NewTagService(tagRepo, log), "/tags").RegisterRoutes(protected)
	NewAttributeHandler[models.Ingredient](service.NewIngredientService(ingredientRepo, log), "/ingredients").RegisterRoutes(protected)
	NewRecipeHandler(
		service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, images, log),
		service.NewImageService(recipeRepo, images, log),
	).RegisterRoutes(protected)

	return &testEnv{Router: router, DB: db, Auth: auth, MediaRoot: mediaRoot}
}

// CreateTestUserAndToken creates a user and returns it with a valid token
func (e *testEnv) CreateTestUserAndToken(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, e.DB, email)
	token, err := e.Auth.IssueToken(context.Background(), email, testhelpers.TestPassword)
	require.NoError(t, err)
	return user, token
}

// PerformRequest performs an HTTP request with an optional JSON body
func PerformRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	return PerformRequestWithToken(router, method, path, body, "")
}

// PerformRequestWithToken performs an HTTP request with a bearer token
func PerformRequestWithToken(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	router.ServeHTTP(w, req)
	return w
}

// PerformUpload posts data as the multipart field "image"
func PerformUpload(t *testing.T, router *gin.Engine, path, filename string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
