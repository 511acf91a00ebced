package config

import (
	"log"
	"os"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if s.cfg.IsDev() {
		if err := s.seedProspects(); err != nil {
			log.Printf("⚠️ Prospect seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the initial admin from env.
// In production ADMIN_EMAIL/ADMIN_PASSWORD must be set; the dev
// fallback exists so a fresh checkout is usable immediately.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	email := os.Getenv("ADMIN_EMAIL")
	plain := os.Getenv("ADMIN_PASSWORD")
	if email == "" || plain == "" {
		if s.cfg.IsProd() {
			log.Println("⚠️ No admin user and ADMIN_EMAIL/ADMIN_PASSWORD not set")
			return nil
		}
		email = "admin@forma-fusion.com"
		plain = "admin123456"
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Administrateur",
		Email:    email,
		Password: hashed,
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded admin user: %s", email)
	return nil
}

// seedProspects seeds sample prospect rows so the import-client flow
// can be exercised in dev without the marketplace feed.
func (s *Seeder) seedProspects() error {
	var count int64
	s.db.Model(&models.Prospect{}).Count(&count)
	if count > 0 {
		return nil
	}

	prospects := []models.Prospect{
		{Nom: "Hery Rakoto", Email: "hery.rakoto@example.mg", Phone: "+261340000001", Pays: "Madagascar"},
		{Nom: "Voahangy Rabe", Email: "voahangy.rabe@example.mg", Phone: "+261340000002", Pays: "Madagascar"},
		{Nom: "Jean Randria", Email: "jean.randria@example.mg", Pays: "Madagascar"},
	}

	if err := s.db.Create(&prospects).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d sample prospects", len(prospects))
	return nil
}
