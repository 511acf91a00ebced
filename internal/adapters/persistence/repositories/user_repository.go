package repositories

import (
	"context"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByCodeAffiliation gets a reseller by affiliation code
func (r *userRepository) GetByCodeAffiliation(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("code_affiliation = ?", code).
		Where("role = ?", domain.RoleRevendeur).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ListRevendeurs lists resellers with their affiliated client counts
func (r *userRepository) ListRevendeurs(ctx context.Context) ([]*models.RevendeurResponse, error) {
	var revendeurs []*models.RevendeurResponse
	err := r.db.WithContext(ctx).Table("users").
		Select(`users.id, users.name, users.email, users.pays,
			COALESCE(users.code_affiliation, '') as code_affiliation,
			COUNT(clients.id) as clients_count,
			users.created_at`).
		Joins("LEFT JOIN clients ON clients.revendeur_id = users.id AND clients.deleted_at IS NULL").
		Where("users.role = ? AND users.deleted_at IS NULL", domain.RoleRevendeur).
		Group("users.id, users.name, users.email, users.pays, users.code_affiliation, users.created_at").
		Order("users.created_at DESC").
		Scan(&revendeurs).Error
	if err != nil {
		return nil, err
	}
	return revendeurs, nil
}
