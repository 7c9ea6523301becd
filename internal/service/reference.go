package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/models"
)

// ReferenceService serves the read-mostly lookup tables.
type ReferenceService struct {
	db *gorm.DB
}

func NewReferenceService(db *gorm.DB) *ReferenceService {
	return &ReferenceService{db: db}
}

func (s *ReferenceService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *ReferenceService) ListAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

func (s *ReferenceService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// TestimonialView is a testimonial joined with its author's public fields.
type TestimonialView struct {
	ID          uuid.UUID `json:"id"`
	Testimonial string    `json:"testimonial"`
	OwnerID     uuid.UUID `json:"ownerId"`
	OwnerName   string    `json:"ownerName"`
}

func (s *ReferenceService) ListTestimonials(ctx context.Context) ([]TestimonialView, error) {
	var views []TestimonialView
	err := s.db.WithContext(ctx).
		Model(&models.Testimonial{}).
		Select("testimonials.id, testimonials.text AS testimonial, users.id AS owner_id, users.name AS owner_name").
		Joins("JOIN users ON users.id = testimonials.user_id").
		Order("testimonials.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}
