package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodies-app/backend/internal/models"
)

// Wire shapes. Raw foreign-key columns never appear in responses; relations
// are projected and ingredient edges are flattened to {id, name, measure}.

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// NamedRef projects a lookup entity.
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type RecipeOwner struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

type RecipeIngredientResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Measure string    `json:"measure"`
}

type RecipeResponse struct {
	ID           uuid.UUID                  `json:"id"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Instructions string                     `json:"instructions"`
	ThumbURL     string                     `json:"thumbUrl"`
	Time         int                        `json:"time"`
	Owner        RecipeOwner                `json:"owner"`
	Category     *NamedRef                  `json:"category"`
	Area         *NamedRef                  `json:"area"`
	Ingredients  []RecipeIngredientResponse `json:"ingredients"`
	CreatedAt    time.Time                  `json:"createdAt"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

func toRecipeResponse(r models.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Instructions: r.Instructions,
		ThumbURL:     r.ThumbURL,
		Time:         r.Time,
		Owner: RecipeOwner{
			ID:        r.Owner.ID,
			Name:      r.Owner.Name,
			AvatarURL: r.Owner.AvatarURL,
		},
		Ingredients: make([]RecipeIngredientResponse, 0, len(r.Ingredients)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Category != nil {
		resp.Category = &NamedRef{ID: r.Category.ID, Name: r.Category.Name}
	}
	if r.Area != nil {
		resp.Area = &NamedRef{ID: r.Area.ID, Name: r.Area.Name}
	}
	for _, edge := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, RecipeIngredientResponse{
			ID:      edge.Ingredient.ID,
			Name:    edge.Ingredient.Name,
			Measure: edge.Measure,
		})
	}
	return resp
}

func toRecipeResponses(recipes []models.Recipe) []RecipeResponse {
	items := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		items = append(items, toRecipeResponse(r))
	}
	return items
}

// RecipeIngredientInput is one submitted recipe-ingredient edge.
type RecipeIngredientInput struct {
	ID      uuid.UUID `json:"id" binding:"required"`
	Measure string    `json:"measure" binding:"required"`
}

// UpdateRecipeRequest is a partial update; absent fields stay unchanged and
// a present ingredients array replaces the edge set.
type UpdateRecipeRequest struct {
	Title        *string                 `json:"title"`
	Description  *string                 `json:"description"`
	Instructions *string                 `json:"instructions"`
	Time         *int                    `json:"time"`
	CategoryID   *uuid.UUID              `json:"categoryId"`
	AreaID       *uuid.UUID              `json:"areaId"`
	Ingredients  []RecipeIngredientInput `json:"ingredients"`
}

// ListResponse wraps a page of items with the total count of the filtered
// set, before pagination.
type ListResponse struct {
	Items      interface{} `json:"items"`
	TotalCount int64       `json:"totalCount"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
