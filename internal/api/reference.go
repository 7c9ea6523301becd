package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodies-app/backend/internal/service"
)

// ReferenceHandler serves the public lookup endpoints.
type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", h.ListCategories)
	router.GET("/areas", h.ListAreas)
	router.GET("/ingredients", h.ListIngredients)
	router.GET("/testimonials", h.ListTestimonials)
}

func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	categories, err := h.referenceService.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *ReferenceHandler) ListAreas(c *gin.Context) {
	areas, err := h.referenceService.ListAreas(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

func (h *ReferenceHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.referenceService.ListIngredients(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *ReferenceHandler) ListTestimonials(c *gin.Context) {
	testimonials, err := h.referenceService.ListTestimonials(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, testimonials)
}
