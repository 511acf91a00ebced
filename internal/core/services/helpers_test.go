package services

import (
	"fmt"
	"testing"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/adapters/persistence/repositories"
	"formafusion-partners/internal/config"
	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/pkg/password"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  60,
			RefreshTokenDays: 7,
		},
		Commission: config.CommissionConfig{Rate: 0.30},
		Affiliate: config.AffiliateConfig{
			SignupBaseURL: "https://marketplace.example.com/register",
		},
	}
}

func createTestAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hashed, err := password.Hash("admin-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &models.User{
		Name:     "Admin",
		Email:    email,
		Password: hashed,
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return admin
}

func createTestRevendeur(t *testing.T, db *gorm.DB, email, code string) *models.User {
	t.Helper()

	hashed, err := password.Hash("revendeur-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Name:            "Revendeur " + code,
		Email:           email,
		Password:        hashed,
		Role:            string(domain.RoleRevendeur),
		CodeAffiliation: &code,
		IsActive:        true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create revendeur: %v", err)
	}
	return user
}

func createTestClient(t *testing.T, db *gorm.DB, email string, revendeurID *uint, statut string, montant float64) *models.Client {
	t.Helper()

	client := &models.Client{
		Nom:            "Client " + email,
		Email:          email,
		StatutPaiement: statut,
		MontantPaye:    montant,
		RevendeurID:    revendeurID,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func createTestTransaction(t *testing.T, db *gorm.DB, txType string, montant float64, statut string, revendeurID *uint) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Type:        txType,
		Montant:     montant,
		Statut:      statut,
		RevendeurID: revendeurID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func newTestNotificationService(db *gorm.DB) *NotificationService {
	return NewNotificationService(repositories.NewNotificationRepository(db))
}

func newTestClientService(db *gorm.DB) *ClientService {
	return NewClientService(
		repositories.NewClientRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewProspectRepository(db),
		repositories.NewTransactionRepository(db),
		newTestNotificationService(db),
		testConfig(),
	)
}

func newTestTransactionService(db *gorm.DB) *TransactionService {
	return NewTransactionService(
		repositories.NewTransactionRepository(db),
		repositories.NewUserRepository(db),
		newTestNotificationService(db),
		testConfig(),
	)
}
