package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodies-app/backend/internal/middleware"
	"github.com/foodies-app/backend/internal/service"
)

// SocialHandler serves the follow graph endpoints.
type SocialHandler struct {
	followService *service.FollowService
	authService   *service.AuthService
}

func NewSocialHandler(followService *service.FollowService, authService *service.AuthService) *SocialHandler {
	return &SocialHandler{
		followService: followService,
		authService:   authService,
	}
}

func (h *SocialHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	users := router.Group("/users", auth)
	{
		users.GET("/:id/followers", h.GetFollowers)
		users.GET("/:id/following", h.GetFollowing)
		users.POST("/:id/follow", h.Follow)
		users.DELETE("/:id/follow", h.Unfollow)
	}
}

func (h *SocialHandler) GetFollowers(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	page, _ := parseListParams(c)
	items, total, err := h.followService.GetFollowers(c.Request.Context(), id, page)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: items, TotalCount: total})
}

func (h *SocialHandler) GetFollowing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	page, _ := parseListParams(c)
	items, total, err := h.followService.GetFollowing(c.Request.Context(), id, page)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: items, TotalCount: total})
}

func (h *SocialHandler) Follow(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.followService.Follow(c.Request.Context(), id, actorID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Followed"})
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), id, actorID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Unfollowed"})
}
