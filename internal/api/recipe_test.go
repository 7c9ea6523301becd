package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipeEndpoint(t *testing.T) {
	router, db := newTestAPI(t)
	token, userID := registerUser(t, router, "anna")

	resp := createRecipeViaAPI(t, router, db, token, "Pancakes")

	assert.Equal(t, "Pancakes", resp.Title)
	assert.Equal(t, userID, resp.Owner.ID)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipes/test.jpg", resp.ThumbURL)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, "2 cups", resp.Ingredients[0].Measure)
}

func TestCreateRecipeEndpointRequiresAuth(t *testing.T) {
	router, _ := newTestAPI(t)

	body, contentType := recipeForm(t, map[string]string{"title": "Nope"}, false)
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeEndpointValidation(t *testing.T) {
	router, db := newTestAPI(t)
	token, _ := registerUser(t, router, "anna")
	flour := seedIngredient(t, db, "Flour")
	edges, err := json.Marshal([]gin.H{{"id": flour.ID, "measure": "1 cup"}})
	require.NoError(t, err)

	valid := map[string]string{
		"title":        "Bread",
		"description":  "Crusty",
		"instructions": "Bake",
		"time":         "90",
		"ingredients":  string(edges),
	}

	broken := []struct {
		name      string
		mutate    func(map[string]string)
		withImage bool
	}{
		{"missing title", func(f map[string]string) { delete(f, "title") }, true},
		{"non-numeric time", func(f map[string]string) { f["time"] = "soon" }, true},
		{"zero time", func(f map[string]string) { f["time"] = "0" }, true},
		{"empty ingredients", func(f map[string]string) { f["ingredients"] = "[]" }, true},
		{"ingredients not json", func(f map[string]string) { f["ingredients"] = "garbage" }, true},
		{"missing image", func(map[string]string) {}, false},
	}

	for _, tt := range broken {
		t.Run(tt.name, func(t *testing.T) {
			fields := make(map[string]string, len(valid))
			for k, v := range valid {
				fields[k] = v
			}
			tt.mutate(fields)

			body, contentType := recipeForm(t, fields, tt.withImage)
			req := httptest.NewRequest(http.MethodPost, "/api/recipes", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+token)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestGetRecipeEndpoint(t *testing.T) {
	router, db := newTestAPI(t)
	token, _ := registerUser(t, router, "anna")
	created := createRecipeViaAPI(t, router, db, token, "Goulash")

	w := doJSON(t, router, http.MethodGet, "/api/recipes/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecipeResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Goulash", resp.Title)
	assert.Equal(t, "anna", resp.Owner.Name)

	// Raw foreign keys stay off the wire.
	var raw map[string]interface{}
	decodeBody(t, w, &raw)
	assert.NotContains(t, raw, "owner_id")
	assert.NotContains(t, raw, "OwnerID")

	w = doJSON(t, router, http.MethodGet, "/api/recipes/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRecipesEndpoint(t *testing.T) {
	router, db := newTestAPI(t)
	token, _ := registerUser(t, router, "anna")

	createRecipeViaAPI(t, router, db, token, "Borscht")
	createRecipeViaAPI(t, router, db, token, "Arepas")

	w := doJSON(t, router, http.MethodGet, "/api/recipes?sortBy=title&sortDir=asc", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items      []RecipeResponse `json:"items"`
		TotalCount int64            `json:"totalCount"`
	}
	decodeBody(t, w, &resp)
	assert.EqualValues(t, 2, resp.TotalCount)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Arepas", resp.Items[0].Title)

	// Unknown category filter yields an empty page, not an error.
	w = doJSON(t, router, http.MethodGet, "/api/recipes?category="+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.EqualValues(t, 0, resp.TotalCount)
	assert.NotNil(t, resp.Items)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	// A malformed filter value behaves like an unknown id.
	w = doJSON(t, router, http.MethodGet, "/api/recipes?category=garbage", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.EqualValues(t, 0, resp.TotalCount)
}

func TestPopularRecipesEndpoint(t *testing.T) {
	router, db := newTestAPI(t)
	annaToken, _ := registerUser(t, router, "anna")
	bobToken, _ := registerUser(t, router, "bob")

	plain := createRecipeViaAPI(t, router, db, annaToken, "Plain")
	favorite := createRecipeViaAPI(t, router, db, annaToken, "Favorite")

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/recipes/%s/favorite", favorite.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/recipes/popular", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items      []RecipeResponse `json:"items"`
		TotalCount int64            `json:"totalCount"`
	}
	decodeBody(t, w, &resp)
	assert.EqualValues(t, 2, resp.TotalCount)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Favorite", resp.Items[0].Title)
	assert.Equal(t, plain.ID, resp.Items[1].ID)
}

func TestUpdateRecipeEndpoint(t *testing.T) {
	router, db := newTestAPI(t)
	annaToken, _ := registerUser(t, router, "anna")
	bobToken, _ := registerUser(t, router, "bob")
	created := createRecipeViaAPI(t, router, db, annaToken, "Draft")

	w := doJSON(t, router, http.MethodPatch, "/api/recipes/"+created.ID.String(), annaToken,
		gin.H{"title": "Final"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecipeResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Final", resp.Title)
	assert.Equal(t, "Tasty", resp.Description)

	// Someone else's recipe is off limits.
	w = doJSON(t, router, http.MethodPatch, "/api/recipes/"+created.ID.String(), bobToken,
		gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	router, db := newTestAPI(t)
	annaToken, _ := registerUser(t, router, "anna")
	bobToken, _ := registerUser(t, router, "bob")
	created := createRecipeViaAPI(t, router, db, annaToken, "Ephemeral")

	w := doJSON(t, router, http.MethodDelete, "/api/recipes/"+created.ID.String(), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/recipes/"+created.ID.String(), annaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/recipes/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	router, db := newTestAPI(t)
	annaToken, _ := registerUser(t, router, "anna")
	bobToken, _ := registerUser(t, router, "bob")
	created := createRecipeViaAPI(t, router, db, annaToken, "Crowd Pleaser")
	path := fmt.Sprintf("/api/recipes/%s/favorite", created.ID)

	w := doJSON(t, router, http.MethodPost, path, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, path, bobToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already in favorites")

	w = doJSON(t, router, http.MethodDelete, path, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/recipes/%s/favorite", uuid.NewString()), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
