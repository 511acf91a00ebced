package repositories

import (
	"context"

	"formafusion-partners/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCodeAffiliation(ctx context.Context, code string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListRevendeurs(ctx context.Context) ([]*models.RevendeurResponse, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ClientRepository defines client repository interface
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, client *models.Client) error
	List(ctx context.Context, search string, offset, limit int) ([]*models.Client, int64, error)
	ListByRevendeur(ctx context.Context, revendeurID uint) ([]*models.Client, error)
	CountByRevendeur(ctx context.Context, revendeurID uint) (int64, error)
}

// ProspectRepository defines read-only access to the prospects table
// (external marketplace signups, never written by this service)
type ProspectRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Prospect, error)
}

// TransactionRepository defines transaction repository interface
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	List(ctx context.Context, offset, limit int) ([]*models.Transaction, int64, error)
	ListByRevendeur(ctx context.Context, revendeurID uint) ([]*models.Transaction, error)
	ListByPeriod(ctx context.Context, revendeurID *uint, start, end string) ([]*models.Transaction, error)
	ListPendingOlderThan(ctx context.Context, hours int) ([]*models.Transaction, error)
	SumValidatedPaiements(ctx context.Context, revendeurID uint) (float64, error)
	SumActiveRetraits(ctx context.Context, revendeurID uint) (float64, error)
}

// NotificationRepository defines notification repository interface
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateForAdmins(ctx context.Context, message string) error
	ListByUser(ctx context.Context, userID uint) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkAllRead(ctx context.Context, userID uint) error
}
