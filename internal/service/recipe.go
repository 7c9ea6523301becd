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

// RecipeService handles recipe CRUD and favorites.
type RecipeService struct {
	db      *gorm.DB
	recipes *repository.RecipeRepository
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, recipes *repository.RecipeRepository) *RecipeService {
	return &RecipeService{
		db:      db,
		recipes: recipes,
	}
}

// IngredientInput is one recipe-ingredient edge as submitted by the client.
type IngredientInput struct {
	ID      uuid.UUID
	Measure string
}

// CreateRecipeInput carries a new recipe.
type CreateRecipeInput struct {
	Title        string
	Description  string
	Instructions string
	ThumbURL     string
	Time         int
	CategoryID   *uuid.UUID
	AreaID       *uuid.UUID
	Ingredients  []IngredientInput
}

// UpdateRecipeInput carries a partial update; nil fields are left unchanged.
// A non-nil Ingredients slice replaces the edge set wholesale.
type UpdateRecipeInput struct {
	Title        *string
	Description  *string
	Instructions *string
	ThumbURL     *string
	Time         *int
	CategoryID   *uuid.UUID
	AreaID       *uuid.UUID
	Ingredients  []IngredientInput
}

// CreateRecipe persists the recipe row and its ingredient edges in one
// transaction so a partial failure leaves no orphaned junction rows.
func (s *RecipeService) CreateRecipe(ctx context.Context, in CreateRecipeInput, ownerID uuid.UUID) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:        in.Title,
		Description:  in.Description,
		Instructions: in.Instructions,
		ThumbURL:     in.ThumbURL,
		Time:         in.Time,
		OwnerID:      ownerID,
		CategoryID:   in.CategoryID,
		AreaID:       in.AreaID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyIngredients(tx, in.Ingredients); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return createIngredientEdges(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe by ID with all relations.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("Recipe")
		}
		return nil, err
	}
	return recipe, nil
}

// UpdateRecipe applies a partial update. Only the owner may update.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, in UpdateRecipeInput, userID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("Recipe")
		}
		return nil, err
	}
	if recipe.OwnerID != userID {
		return nil, types.NewUnauthorizedError("You can only update your own recipes")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Instructions != nil {
		updates["instructions"] = *in.Instructions
	}
	if in.ThumbURL != nil {
		updates["thumb_url"] = *in.ThumbURL
	}
	if in.Time != nil {
		updates["time"] = *in.Time
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.AreaID != nil {
		updates["area_id"] = *in.AreaID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Ingredients != nil {
			if err := verifyIngredients(tx, in.Ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			return createIngredientEdges(tx, id, in.Ingredients)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes the recipe and its dependent edges. Only the owner
// may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewNotFoundError("Recipe")
		}
		return err
	}
	if recipe.OwnerID != userID {
		return types.NewUnauthorizedError("You can only delete your own recipes")
	}

	// The FK constraints cascade on Postgres; deleting the edges explicitly
	// keeps the behavior identical on engines without enforced FKs.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// SearchRecipes returns a filtered, sorted page plus the total count.
func (s *RecipeService) SearchRecipes(ctx context.Context, filter repository.RecipeFilter, page repository.Pagination, sort repository.Sort) ([]models.Recipe, int64, error) {
	return s.recipes.Search(ctx, filter, page, sort)
}

// ListUserRecipes returns a page of the recipes a user owns.
func (s *RecipeService) ListUserRecipes(ctx context.Context, ownerID uuid.UUID, page repository.Pagination, sort repository.Sort) ([]models.Recipe, int64, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, 0, err
	}
	return s.recipes.Search(ctx, repository.RecipeFilter{OwnerID: &ownerID}, page, sort)
}

// ListFavoriteRecipes returns a page of the recipes a user has favorited.
func (s *RecipeService) ListFavoriteRecipes(ctx context.Context, userID uuid.UUID, page repository.Pagination) ([]models.Recipe, int64, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.recipes.ListFavorites(ctx, userID, page)
}

// AddToFavorites creates the favorite edge. The first call succeeds; a
// second call with the same pair fails with a DuplicateError.
func (s *RecipeService) AddToFavorites(ctx context.Context, recipeID, userID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewNotFoundError("Recipe")
		}
		return err
	}

	// Early exit for the common case; the composite unique index is the
	// authoritative guard under concurrent requests.
	var existing models.Favorite
	err := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
	if err == nil {
		return types.NewDuplicateError("Recipe is already in favorites")
	}

	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.NewDuplicateError("Recipe is already in favorites")
		}
		return err
	}
	return nil
}

// RemoveFromFavorites deletes the favorite edge.
func (s *RecipeService) RemoveFromFavorites(ctx context.Context, recipeID, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewNotFoundError("Favorite")
	}
	return nil
}

func (s *RecipeService) requireUser(ctx context.Context, id uuid.UUID) error {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewNotFoundError("User")
		}
		return err
	}
	return nil
}

func verifyIngredients(tx *gorm.DB, edges []IngredientInput) error {
	if len(edges) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(edges))
	seen := make(map[uuid.UUID]bool, len(edges))
	for _, edge := range edges {
		if edge.Measure == "" {
			return types.NewValidationError("Ingredient measure is required")
		}
		if !seen[edge.ID] {
			seen[edge.ID] = true
			ids = append(ids, edge.ID)
		}
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return types.NewValidationError("Unknown ingredient")
	}
	return nil
}

func createIngredientEdges(tx *gorm.DB, recipeID uuid.UUID, edges []IngredientInput) error {
	for i, edge := range edges {
		ri := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: edge.ID,
			Measure:      edge.Measure,
			Position:     i,
		}
		if err := tx.Create(&ri).Error; err != nil {
			return err
		}
	}
	return nil
}
