package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/models"
)

// Migrate creates or updates the schema for every entity, parents first so
// foreign-key constraints resolve.
func Migrate(db *gorm.DB) error {
	log.Printf("Running schema migration")
	return db.AutoMigrate(models.All()...)
}
