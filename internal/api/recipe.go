package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodies-app/backend/internal/middleware"
	"github.com/foodies-app/backend/internal/repository"
	"github.com/foodies-app/backend/internal/service"
	"github.com/foodies-app/backend/internal/types"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	authService   *service.AuthService
	images        service.ImageStorage
	limiter       *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, authService *service.AuthService, images service.ImageStorage, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		authService:   authService,
		images:        images,
		limiter:       limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	create := []gin.HandlerFunc{auth}
	if h.limiter != nil {
		create = append(create, h.limiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.SearchRecipes)
		recipes.GET("/popular", h.PopularRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", create...)
		recipes.PATCH("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
	}
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	page, sort := parseListParams(c)
	filter := repository.RecipeFilter{
		CategoryID: optionalUUID(c, "category"),
		AreaID:     optionalUUID(c, "area"),
		Ingredient: c.Query("ingredient"),
	}

	recipes, total, err := h.recipeService.SearchRecipes(c.Request.Context(), filter, page, sort)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: toRecipeResponses(recipes), TotalCount: total})
}

func (h *RecipeHandler) PopularRecipes(c *gin.Context) {
	page, _ := parseListParams(c)
	sort := repository.Sort{Field: repository.SortByPopularity, Desc: true}

	recipes, total, err := h.recipeService.SearchRecipes(c.Request.Context(), repository.RecipeFilter{}, page, sort)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: toRecipeResponses(recipes), TotalCount: total})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(*recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	in, err := h.parseCreateForm(c)
	if err != nil {
		fail(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), *in, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRecipeResponse(*recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, types.NewValidationError(err.Error()))
		return
	}

	in := service.UpdateRecipeInput{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		Time:         req.Time,
		CategoryID:   req.CategoryID,
		AreaID:       req.AreaID,
	}
	if req.Ingredients != nil {
		in.Ingredients = toIngredientInputs(req.Ingredients)
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, in, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecipeResponse(*recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Recipe deleted successfully"})
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.recipeService.AddToFavorites(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Recipe added to favorites"})
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.recipeService.RemoveFromFavorites(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Recipe removed from favorites"})
}

// parseCreateForm reads the multipart creation form: scalar fields, the
// ingredients JSON array, and the required image file.
func (h *RecipeHandler) parseCreateForm(c *gin.Context) (*service.CreateRecipeInput, error) {
	in := &service.CreateRecipeInput{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Instructions: c.PostForm("instructions"),
	}
	if in.Title == "" || in.Description == "" || in.Instructions == "" {
		return nil, types.NewValidationError("title, description and instructions are required")
	}

	minutes, err := strconv.Atoi(c.PostForm("time"))
	if err != nil || minutes < 1 {
		return nil, types.NewValidationError("time must be a positive number of minutes")
	}
	in.Time = minutes

	if raw := c.PostForm("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, types.NewValidationError("categoryId must be a valid id")
		}
		in.CategoryID = &id
	}
	if raw := c.PostForm("areaId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, types.NewValidationError("areaId must be a valid id")
		}
		in.AreaID = &id
	}

	var edges []RecipeIngredientInput
	if err := json.Unmarshal([]byte(c.PostForm("ingredients")), &edges); err != nil || len(edges) == 0 {
		return nil, types.NewValidationError("ingredients must be a non-empty JSON array")
	}
	in.Ingredients = toIngredientInputs(edges)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, types.NewValidationError("Image file is required")
	}
	if h.images == nil {
		return nil, types.NewValidationError("image upload is not available")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	url, err := h.images.Upload(c.Request.Context(), data, "recipes", fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	in.ThumbURL = url

	return in, nil
}

func toIngredientInputs(edges []RecipeIngredientInput) []service.IngredientInput {
	inputs := make([]service.IngredientInput, len(edges))
	for i, edge := range edges {
		inputs[i] = service.IngredientInput{ID: edge.ID, Measure: edge.Measure}
	}
	return inputs
}
