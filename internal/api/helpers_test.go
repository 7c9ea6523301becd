package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/middleware"
	"github.com/foodies-app/backend/internal/models"
	"github.com/foodies-app/backend/internal/repository"
	"github.com/foodies-app/backend/internal/service"
	"github.com/foodies-app/backend/internal/testdb"
)

const apiTestSecret = "api-test-secret"

// stubImages satisfies service.ImageStorage without S3.
type stubImages struct {
	url string
}

func (s *stubImages) Upload(context.Context, []byte, string, string) (string, error) {
	return s.url, nil
}

// newTestAPI wires the full handler stack against an in-memory database,
// mirroring the production router minus CORS and rate limiting.
func newTestAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.Open(t)
	repo := repository.NewRecipeRepository(db)
	images := &stubImages{url: "https://bucket.s3.amazonaws.com/recipes/test.jpg"}

	authService := service.NewAuthService(db, apiTestSecret)
	recipeService := service.NewRecipeService(db, repo)
	followService := service.NewFollowService(db, repo)
	userService := service.NewUserService(db, images)
	referenceService := service.NewReferenceService(db)

	router := gin.New()
	router.Use(middleware.ErrorHandler())

	group := router.Group("/api")
	NewAuthHandler(authService).RegisterRoutes(group)
	NewRecipeHandler(recipeService, authService, images, nil).RegisterRoutes(group)
	NewUserHandler(userService, authService, recipeService).RegisterRoutes(group)
	NewSocialHandler(followService, authService).RegisterRoutes(group)
	NewReferenceHandler(referenceService).RegisterRoutes(group)

	return router, db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerUser creates an account through the API and returns its token and
// user id.
func registerUser(t *testing.T, router *gin.Engine, name string) (string, uuid.UUID) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    fmt.Sprintf("%s@example.com", name),
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	decodeBody(t, w, &resp)
	return resp.Token, resp.User.ID
}

func seedIngredient(t *testing.T, db *gorm.DB, name string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}

// recipeForm builds the multipart recipe-creation request body.
func recipeForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, form.WriteField(key, value))
	}
	if withImage {
		part, err := form.CreateFormFile("image", "dish.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())
	return buf, form.FormDataContentType()
}

// createRecipeViaAPI posts a minimal valid recipe and returns its response.
func createRecipeViaAPI(t *testing.T, router *gin.Engine, db *gorm.DB, token, title string) RecipeResponse {
	t.Helper()

	flour := seedIngredient(t, db, fmt.Sprintf("Flour for %s", title))
	edges, err := json.Marshal([]gin.H{{"id": flour.ID, "measure": "2 cups"}})
	require.NoError(t, err)

	body, contentType := recipeForm(t, map[string]string{
		"title":        title,
		"description":  "Tasty",
		"instructions": "Cook it",
		"time":         "30",
		"ingredients":  string(edges),
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp RecipeResponse
	decodeBody(t, w, &resp)
	return resp
}
