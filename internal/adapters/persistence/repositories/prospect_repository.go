package repositories

import (
	"context"

	"formafusion-partners/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// prospectRepository implements ProspectRepository interface.
// The prospects table is fed by the marketplace signup site and is
// read-only from this service.
type prospectRepository struct {
	db *gorm.DB
}

// NewProspectRepository creates a new prospect repository
func NewProspectRepository(db *gorm.DB) ProspectRepository {
	return &prospectRepository{db: db}
}

// GetByEmail gets a prospect by email
func (r *prospectRepository) GetByEmail(ctx context.Context, email string) (*models.Prospect, error) {
	var prospect models.Prospect
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&prospect).Error
	if err != nil {
		return nil, err
	}
	return &prospect, nil
}
