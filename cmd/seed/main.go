package main

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodies-app/backend/config"
	"github.com/foodies-app/backend/internal/database"
	"github.com/foodies-app/backend/internal/models"
)

var categories = []string{
	"Beef", "Breakfast", "Dessert", "Goat", "Lamb", "Miscellaneous",
	"Pasta", "Pork", "Seafood", "Side", "Soup", "Starter", "Vegan", "Vegetarian",
}

var areas = []string{
	"American", "British", "Canadian", "Chinese", "Croatian", "Dutch",
	"Egyptian", "French", "Greek", "Indian", "Irish", "Italian", "Jamaican",
	"Japanese", "Kenyan", "Malaysian", "Mexican", "Moroccan", "Polish",
	"Portuguese", "Russian", "Spanish", "Thai", "Tunisian", "Turkish",
	"Ukrainian", "Vietnamese",
}

var ingredients = []string{
	"Basil", "Beef", "Butter", "Carrots", "Cheese", "Chicken", "Cinnamon",
	"Eggs", "Flour", "Garlic", "Ginger", "Honey", "Lemon", "Milk", "Mushrooms",
	"Olive Oil", "Onion", "Oregano", "Paprika", "Parsley", "Pepper", "Potatoes",
	"Rice", "Salt", "Soy Sauce", "Sugar", "Thyme", "Tomatoes",
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seedReferenceData(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding completed successfully")
}

// seedReferenceData inserts lookup rows, skipping names that already exist
// so reruns are safe.
func seedReferenceData(db *gorm.DB) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}

	for _, name := range categories {
		if err := db.Clauses(onConflict).Create(&models.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range areas {
		if err := db.Clauses(onConflict).Create(&models.Area{Name: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range ingredients {
		if err := db.Clauses(onConflict).Create(&models.Ingredient{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
