package repositories

import (
	"context"
	"strings"

	"formafusion-partners/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID gets a client by ID with its reseller
func (r *clientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("Revendeur").
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByEmail gets a client by email
func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ExistsByEmail checks if a client email exists
func (r *clientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update updates a client
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// List lists clients with optional search and pagination.
// Search is a case-insensitive substring match ORed over nom, email
// and phone, matching what the list screen filter promises.
func (r *clientRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.Client, int64, error) {
	var clients []*models.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Client{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(nom) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Revendeur").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// ListByRevendeur lists clients affiliated to a reseller
func (r *clientRepository) ListByRevendeur(ctx context.Context, revendeurID uint) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.WithContext(ctx).
		Where("revendeur_id = ?", revendeurID).
		Order("created_at DESC").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// CountByRevendeur counts clients affiliated to a reseller
func (r *clientRepository) CountByRevendeur(ctx context.Context, revendeurID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("revendeur_id = ?", revendeurID).
		Count(&count).Error
	return count, err
}
