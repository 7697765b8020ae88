package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dsarportal/internal/platform/config"
	"dsarportal/internal/platform/database"
	"dsarportal/internal/platform/models"
	"dsarportal/internal/platform/repositories"
)

// Seeds the bootstrap ADMIN account so the approval queue can be worked from
// a fresh database.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	email := flag.String("email", "admin@dsar.com", "Admin email")
	password := flag.String("password", "admin123", "Admin password")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db)

	existing, err := userRepo.GetByEmail(*email)
	if err != nil {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}
	if existing != nil {
		fmt.Printf("Admin %s already exists, nothing to do\n", *email)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().Unix()
	admin := &models.User{
		ID:           "usr_" + uuid.NewString(),
		Email:        *email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Seeded admin %s (%s)\n", admin.Email, admin.ID)
}
