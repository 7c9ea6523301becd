package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/models"
	"github.com/foodies-app/backend/internal/types"
)

// UserService handles user statistics and avatar management.
type UserService struct {
	db     *gorm.DB
	images ImageStorage
}

func NewUserService(db *gorm.DB, images ImageStorage) *UserService {
	return &UserService{
		db:     db,
		images: images,
	}
}

// StatisticsOptions selects the optional id lists. They require extra joins
// and are skipped on hot paths that don't need them.
type StatisticsOptions struct {
	IncludeFavorites bool
	IncludeFollowing bool
}

// UserStatistics aggregates a user's counters and optional edge id lists.
type UserStatistics struct {
	OwnRecipesCount int64       `json:"ownRecipesCount"`
	FavoritesCount  int64       `json:"favoritesCount"`
	FollowersCount  int64       `json:"followersCount"`
	FollowingCount  int64       `json:"followingCount"`
	FavoriteIDs     []uuid.UUID `json:"favoriteIds,omitempty"`
	FollowingIDs    []uuid.UUID `json:"followingIds,omitempty"`
}

// GetUserStatistics returns nil (not an error) when the user does not
// exist; callers translate that into a 404.
func (s *UserService) GetUserStatistics(ctx context.Context, userID uuid.UUID, opts StatisticsOptions) (*UserStatistics, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	stats := &UserStatistics{}
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("owner_id = ?", userID).Count(&stats.OwnRecipesCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&stats.FavoritesCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&stats.FollowersCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.FollowingCount).Error; err != nil {
		return nil, err
	}

	if opts.IncludeFavorites {
		if err := s.db.WithContext(ctx).
			Model(&models.Favorite{}).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Pluck("recipe_id", &stats.FavoriteIDs).Error; err != nil {
			return nil, err
		}
	}
	if opts.IncludeFollowing {
		if err := s.db.WithContext(ctx).
			Model(&models.Follow{}).
			Where("follower_id = ?", userID).
			Pluck("following_id", &stats.FollowingIDs).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// UploadAvatar stores the image and updates the user's avatar URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", types.NewNotFoundError("User")
		}
		return "", err
	}

	url, err := s.images.Upload(ctx, data, "avatars", contentType)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("avatar_url", url).Error; err != nil {
		return "", err
	}
	return url, nil
}
