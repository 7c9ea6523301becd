package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/models"
	"github.com/foodies-app/backend/internal/repository"
	"github.com/foodies-app/backend/internal/types"
)

// latestRecipeLimit caps the recipe previews embedded per user in follower
// and following listings.
const latestRecipeLimit = 4

// FollowService handles the directed follow edges between users.
type FollowService struct {
	db      *gorm.DB
	recipes *repository.RecipeRepository
}

func NewFollowService(db *gorm.DB, recipes *repository.RecipeRepository) *FollowService {
	return &FollowService{
		db:      db,
		recipes: recipes,
	}
}

// FollowedUser is one entry in a follower/following listing.
type FollowedUser struct {
	ID              uuid.UUID                  `json:"id"`
	Name            string                     `json:"name"`
	AvatarURL       string                     `json:"avatarUrl,omitempty"`
	LatestRecipes   []repository.RecipePreview `json:"latestRecipes"`
	OwnRecipesCount int64                      `json:"ownRecipesCount"`
}

// Follow creates the actor→target edge. Self-follow is rejected before any
// lookup, so it fails the same way whether or not the user exists.
func (s *FollowService) Follow(ctx context.Context, targetID, actorID uuid.UUID) error {
	if targetID == actorID {
		return types.NewUnauthorizedError("You can't follow yourself")
	}

	var target models.User
	if err := s.db.WithContext(ctx).Select("id").First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewNotFoundError("User")
		}
		return err
	}

	var existing models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", actorID, targetID).
		First(&existing).Error
	if err == nil {
		return types.NewDuplicateError("Already following")
	}

	edge := models.Follow{FollowerID: actorID, FollowingID: targetID}
	if err := s.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.NewDuplicateError("Already following")
		}
		return err
	}
	return nil
}

// Unfollow deletes the actor→target edge.
func (s *FollowService) Unfollow(ctx context.Context, targetID, actorID uuid.UUID) error {
	if targetID == actorID {
		return types.NewUnauthorizedError("You can't unfollow yourself")
	}

	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", actorID, targetID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewNotFoundError("Follow relation")
	}
	return nil
}

// GetFollowers returns one page of the users following userID, each with
// their latest recipe previews and total recipe count.
func (s *FollowService) GetFollowers(ctx context.Context, userID uuid.UUID, page repository.Pagination) ([]FollowedUser, int64, error) {
	return s.listEdges(ctx, userID, "follows.following_id", "follows.follower_id", page)
}

// GetFollowing mirrors GetFollowers in the opposite edge direction.
func (s *FollowService) GetFollowing(ctx context.Context, userID uuid.UUID, page repository.Pagination) ([]FollowedUser, int64, error) {
	return s.listEdges(ctx, userID, "follows.follower_id", "follows.following_id", page)
}

func (s *FollowService) listEdges(ctx context.Context, userID uuid.UUID, whereColumn, joinColumn string, page repository.Pagination) ([]FollowedUser, int64, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, types.NewNotFoundError("User")
		}
		return nil, 0, err
	}

	page = page.Normalize()

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&models.User{}).
			Joins("JOIN follows ON "+joinColumn+" = users.id").
			Where(whereColumn+" = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := base().
		Select("users.*").
		Order("users.name ASC, users.id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	// Both aggregations are one grouped query for the whole page.
	previews, err := s.recipes.LatestByOwners(ctx, ids, latestRecipeLimit)
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.recipes.CountByOwners(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]FollowedUser, len(users))
	for i, u := range users {
		latest := previews[u.ID]
		if latest == nil {
			latest = []repository.RecipePreview{}
		}
		items[i] = FollowedUser{
			ID:              u.ID,
			Name:            u.Name,
			AvatarURL:       u.AvatarURL,
			LatestRecipes:   latest,
			OwnRecipesCount: counts[u.ID],
		}
	}
	return items, total, nil
}
