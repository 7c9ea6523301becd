package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodies-app/backend/internal/models"
	"github.com/foodies-app/backend/internal/testdb"
	"github.com/foodies-app/backend/internal/types"
)

func TestGetUserStatistics(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	anna := createUser(t, db, "anna")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	dave := createUser(t, db, "dave")

	createRecipe(t, db, anna.ID, "One")
	other := createRecipe(t, db, bob.ID, "Two")

	// anna favorites bob's recipe.
	require.NoError(t, db.Create(&models.Favorite{UserID: anna.ID, RecipeID: other.ID}).Error)

	// bob, carol and dave follow anna; anna follows bob.
	for _, follower := range []uuid.UUID{bob.ID, carol.ID, dave.ID} {
		require.NoError(t, db.Create(&models.Follow{FollowerID: follower, FollowingID: anna.ID}).Error)
	}
	require.NoError(t, db.Create(&models.Follow{FollowerID: anna.ID, FollowingID: bob.ID}).Error)

	stats, err := svc.GetUserStatistics(ctx, anna.ID, StatisticsOptions{})
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.EqualValues(t, 1, stats.OwnRecipesCount)
	assert.EqualValues(t, 1, stats.FavoritesCount)
	assert.EqualValues(t, 3, stats.FollowersCount)
	assert.EqualValues(t, 1, stats.FollowingCount)

	// Id lists are opt-in.
	assert.Nil(t, stats.FavoriteIDs)
	assert.Nil(t, stats.FollowingIDs)
}

func TestGetUserStatisticsIncludesIDLists(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	anna := createUser(t, db, "anna")
	bob := createUser(t, db, "bob")

	first := createRecipe(t, db, bob.ID, "First")
	second := createRecipe(t, db, bob.ID, "Second")

	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.Favorite{UserID: anna.ID, RecipeID: second.ID, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Favorite{UserID: anna.ID, RecipeID: first.ID, CreatedAt: base.Add(time.Minute)}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: anna.ID, FollowingID: bob.ID}).Error)

	stats, err := svc.GetUserStatistics(ctx, anna.ID, StatisticsOptions{
		IncludeFavorites: true,
		IncludeFollowing: true,
	})
	require.NoError(t, err)

	// Favorites in the order they were added.
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, stats.FavoriteIDs)
	assert.Equal(t, []uuid.UUID{bob.ID}, stats.FollowingIDs)
}

func TestGetUserStatisticsUnknownUser(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, nil)

	stats, err := svc.GetUserStatistics(context.Background(), uuid.New(), StatisticsOptions{})
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestUploadAvatar(t *testing.T) {
	db := testdb.Open(t)
	images := &fakeImages{url: "https://bucket.s3.amazonaws.com/avatars/x.png"}
	svc := NewUserService(db, images)
	ctx := context.Background()

	anna := createUser(t, db, "anna")

	url, err := svc.UploadAvatar(ctx, anna.ID, []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, images.url, url)
	assert.Equal(t, "avatars", images.lastFolder)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", anna.ID).Error)
	assert.Equal(t, images.url, stored.AvatarURL)
}

func TestUploadAvatarUnknownUser(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, &fakeImages{url: "u"})

	var notFound *types.NotFoundError
	_, err := svc.UploadAvatar(context.Background(), uuid.New(), []byte("x"), "image/png")
	assert.ErrorAs(t, err, &notFound)
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	db := testdb.Open(t)
	svc := NewUserService(db, nil)
	anna := createUser(t, db, "anna")

	_, err := svc.UploadAvatar(context.Background(), anna.ID, []byte("x"), "image/png")
	assert.Error(t, err)
}
