package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/matboka/matboka-backend/config"
	"github.com/matboka/matboka-backend/internal/database"
	"github.com/matboka/matboka-backend/internal/models"
)

var baseTags = []models.Tag{
	{Name: "Rask", Slug: "rask"},
	{Name: "Vegetar", Slug: "vegetar"},
	{Name: "Glutenfri", Slug: "glutenfri"},
	{Name: "Familiefavoritt", Slug: "familiefavoritt"},
	{Name: "Helgekos", Slug: "helgekos"},
	{Name: "Sunn", Slug: "sunn"},
}

// Seeds a development editor account and the base tag vocabulary.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	email := envOr("SEED_EDITOR_EMAIL", "editor@example.com")
	password := envOr("SEED_EDITOR_PASSWORD", "changeme123")

	if err := seedEditor(db, email, password); err != nil {
		log.Fatalf("Failed to seed editor: %v", err)
	}
	if err := seedTags(db); err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}

	log.Println("Seeding complete")
}

func seedEditor(db *gorm.DB, email, password string) error {
	var existing models.Editor
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Editor %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	editor := models.Editor{
		Name:         "Redaksjonen",
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&editor).Error; err != nil {
		return err
	}
	log.Printf("Created editor %s (%s)", editor.Email, editor.ID)
	return nil
}

func seedTags(db *gorm.DB) error {
	for _, tag := range baseTags {
		var existing models.Tag
		err := db.Where("slug_text = ?", tag.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&tag).Error; err != nil {
			return err
		}
		log.Printf("Created tag %s", tag.Slug)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
