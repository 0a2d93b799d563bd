// Command createadmin seeds the first admin account. Run it once after the
// database is provisioned; it refuses to create a second admin.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/proposalhub-dev/proposalhub/db"
	"github.com/proposalhub-dev/proposalhub/internal/auth"
	"github.com/proposalhub-dev/proposalhub/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("username, email and password are required (flags or ADMIN_* environment variables)")
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var existing models.User

	if err := db.DB.Where("role = ?", models.RoleAdmin).First(&existing).Error; err == nil {
		log.Printf("Admin user already exists: %s", existing.Username)
		return
	}

	passwordHash, err := auth.HashPassword(*password)

	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	if err := db.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Admin user created: %s", admin.Username)
}
