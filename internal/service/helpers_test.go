package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/models"
)

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createIngredient(t *testing.T, db *gorm.DB, name string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}

func createRecipe(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		Title:        title,
		Description:  "desc",
		Instructions: "steps",
		Time:         30,
		OwnerID:      ownerID,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

// fakeImages satisfies ImageStorage without talking to S3.
type fakeImages struct {
	lastFolder      string
	lastContentType string
	url             string
	err             error
}

func (f *fakeImages) Upload(_ context.Context, _ []byte, folder, contentType string) (string, error) {
	f.lastFolder = folder
	f.lastContentType = contentType
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}
