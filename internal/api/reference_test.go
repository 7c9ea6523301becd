package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodies-app/backend/internal/models"
)

func TestReferenceEndpoints(t *testing.T) {
	router, db := newTestAPI(t)

	require.NoError(t, db.Create(&models.Category{Name: "Dessert"}).Error)
	require.NoError(t, db.Create(&models.Area{Name: "Italian"}).Error)
	require.NoError(t, db.Create(&models.Ingredient{Name: "Basil"}).Error)

	var refs []NamedRef

	w := doJSON(t, router, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &refs)
	require.Len(t, refs, 1)
	assert.Equal(t, "Dessert", refs[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/areas", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &refs)
	require.Len(t, refs, 1)
	assert.Equal(t, "Italian", refs[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &refs)
	require.Len(t, refs, 1)
	assert.Equal(t, "Basil", refs[0].Name)
}

func TestTestimonialsEndpoint(t *testing.T) {
	router, db := newTestAPI(t)
	_, annaID := registerUser(t, router, "anna")

	require.NoError(t, db.Create(&models.Testimonial{UserID: annaID, Text: "Love it"}).Error)

	w := doJSON(t, router, http.MethodGet, "/api/testimonials", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []struct {
		Testimonial string `json:"testimonial"`
		OwnerName   string `json:"ownerName"`
	}
	decodeBody(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Love it", views[0].Testimonial)
	assert.Equal(t, "anna", views[0].OwnerName)
}
