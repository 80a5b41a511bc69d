package main

import (
	"flag"
	"log"

	"go-stocktrack/internal/model"
	"go-stocktrack/pkg/config"
	"go-stocktrack/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Operator tool: reset a user's password without going through the API.
func main() {
	username := flag.String("username", "admin", "username of the account to reset")
	password := flag.String("password", "", "new password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("missing -password")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.Fatalf("user %s not found in database: %v", *username, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("failed to update password: %v", err)
	}

	log.Printf("password for %s has been reset", *username)
}
