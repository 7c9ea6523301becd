package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Instructions string     `gorm:"type:text;not null" json:"instructions"`
	ThumbURL     string     `gorm:"size:255" json:"thumb_url"`
	// Time is the preparation time in minutes.
	Time       int        `gorm:"not null" json:"time"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	AreaID     *uuid.UUID `gorm:"type:uuid;index" json:"-"`

	Owner       User               `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Category    *Category          `gorm:"foreignKey:CategoryID" json:"-"`
	Area        *Area              `gorm:"foreignKey:AreaID" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is the recipe-ingredient edge carrying the measure
// attribute ("1 cup", "2 tbsp"). Position preserves submission order; the
// edges are read back sorted by it.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipe_id"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null" json:"ingredient_id"`
	Measure      string     `gorm:"size:255;not null" json:"measure"`
	Position     int        `gorm:"not null" json:"position"`
	CreatedAt    time.Time  `json:"created_at"`
	Recipe       *Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// Favorite is a user's favorite-recipe edge, unique per (user, recipe).
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_pair" json:"recipe_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
