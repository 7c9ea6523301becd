package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodies-app/backend/internal/middleware"
	"github.com/foodies-app/backend/internal/service"
	"github.com/foodies-app/backend/internal/types"
)

type UserHandler struct {
	userService   *service.UserService
	authService   *service.AuthService
	recipeService *service.RecipeService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService, recipeService *service.RecipeService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		authService:   authService,
		recipeService: recipeService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	users := router.Group("/users", auth)
	{
		users.GET("/me", h.GetCurrentUser)
		users.PATCH("/avatar", h.UploadAvatar)
		users.GET("/:id", h.GetUser)
		users.GET("/:id/recipes", h.GetUserRecipes)
		users.GET("/:id/favorites", h.GetUserFavorites)
	}
}

// ProfileResponse is a user's public fields merged with their statistics.
type ProfileResponse struct {
	UserResponse
	*service.UserStatistics
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	stats, err := h.userService.GetUserStatistics(c.Request.Context(), userID, service.StatisticsOptions{
		IncludeFavorites: true,
		IncludeFollowing: true,
	})
	if err != nil {
		fail(c, err)
		return
	}
	if stats == nil {
		fail(c, types.NewNotFoundError("User"))
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{UserResponse: toUserResponse(user), UserStatistics: stats})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	currentID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	// The id lists are private: only computed when a user views themselves.
	viewingSelf := currentID == id
	stats, err := h.userService.GetUserStatistics(c.Request.Context(), id, service.StatisticsOptions{
		IncludeFavorites: viewingSelf,
		IncludeFollowing: viewingSelf,
	})
	if err != nil {
		fail(c, err)
		return
	}
	if stats == nil {
		fail(c, types.NewNotFoundError("User"))
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{UserResponse: toUserResponse(user), UserStatistics: stats})
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		fail(c, types.NewValidationError("Avatar is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(c, err)
		return
	}

	url, err := h.userService.UploadAvatar(c.Request.Context(), userID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
}

func (h *UserHandler) GetUserRecipes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	page, sort := parseListParams(c)
	recipes, total, err := h.recipeService.ListUserRecipes(c.Request.Context(), id, page, sort)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: toRecipeResponses(recipes), TotalCount: total})
}

func (h *UserHandler) GetUserFavorites(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	page, _ := parseListParams(c)
	recipes, total, err := h.recipeService.ListFavoriteRecipes(c.Request.Context(), id, page)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: toRecipeResponses(recipes), TotalCount: total})
}
