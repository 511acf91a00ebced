package repositories

import (
	"context"
	"time"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/core/domain"

	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetByID gets a transaction by ID with relations
func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Revendeur").
		Where("id = ?", id).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Update updates a transaction
func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// List lists all transactions with pagination, newest first
func (r *transactionRepository) List(ctx context.Context, offset, limit int) ([]*models.Transaction, int64, error) {
	var txs []*models.Transaction
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Revendeur").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// ListByRevendeur lists a reseller's transactions, newest first
func (r *transactionRepository) ListByRevendeur(ctx context.Context, revendeurID uint) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("revendeur_id = ?", revendeurID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// ListByPeriod lists transactions created between start and end
// (inclusive, YYYY-MM-DD). revendeurID nil means all resellers.
func (r *transactionRepository) ListByPeriod(ctx context.Context, revendeurID *uint, start, end string) ([]*models.Transaction, error) {
	var txs []*models.Transaction

	query := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Revendeur")

	if start != "" {
		if t, err := time.ParseInLocation("2006-01-02", start, time.Local); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if end != "" {
		if t, err := time.ParseInLocation("2006-01-02", end, time.Local); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}
	if revendeurID != nil {
		query = query.Where("revendeur_id = ?", *revendeurID)
	}

	err := query.Order("created_at ASC").Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// ListPendingOlderThan lists en_attente transactions older than the
// given number of hours (reminder cron)
func (r *transactionRepository) ListPendingOlderThan(ctx context.Context, hours int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	err := r.db.WithContext(ctx).
		Preload("Revendeur").
		Where("statut = ?", domain.TxEnAttente).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// SumValidatedPaiements sums validated paiement amounts for a reseller
func (r *transactionRepository) SumValidatedPaiements(ctx context.Context, revendeurID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("revendeur_id = ?", revendeurID).
		Where("type = ?", domain.TxTypePaiement).
		Where("statut = ?", domain.TxValide).
		Select("COALESCE(SUM(montant), 0)").
		Scan(&total).Error
	return total, err
}

// SumActiveRetraits sums withdrawal amounts that are validated or still
// pending. Pending withdrawals reserve funds so a second request cannot
// overdraw the balance.
func (r *transactionRepository) SumActiveRetraits(ctx context.Context, revendeurID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("revendeur_id = ?", revendeurID).
		Where("type = ?", domain.TxTypeRetrait).
		Where("statut IN ?", []string{domain.TxEnAttente, domain.TxValide}).
		Select("COALESCE(SUM(montant), 0)").
		Scan(&total).Error
	return total, err
}
