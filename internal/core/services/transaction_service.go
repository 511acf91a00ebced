package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/adapters/persistence/repositories"
	"formafusion-partners/internal/config"
	"formafusion-partners/internal/core/domain"

	"gorm.io/gorm"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo repositories.TransactionRepository
	userRepo        repositories.UserRepository
	notifications   *NotificationService
	cfg             *config.Config
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	notifications *NotificationService,
	cfg *config.Config,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		notifications:   notifications,
		cfg:             cfg,
	}
}

// RetraitInput represents a withdrawal request
type RetraitInput struct {
	Montant       float64 `json:"montant" validate:"required,gt=0"`
	MoyenPaiement string  `json:"moyen_paiement" validate:"required"`
	Note          string  `json:"note"`
}

// DecideInput represents an admin decision on a pending transaction
type DecideInput struct {
	Statut string `json:"statut" validate:"required"`
	Note   string `json:"note"`
}

// SoldeResponse carries a reseller's balance breakdown
type SoldeResponse struct {
	Solde           float64 `json:"solde"`
	TotalCommission float64 `json:"total_commission"`
	TotalRetraits   float64 `json:"total_retraits"`
	TauxCommission  float64 `json:"taux_commission"`
}

// ListAll lists every transaction (admin view)
func (s *TransactionService) ListAll(ctx context.Context, offset, limit int) ([]*models.TransactionResponse, int64, error) {
	txs, total, err := s.transactionRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return toTransactionResponses(txs), total, nil
}

// ListForRevendeur lists a reseller's own transactions
func (s *TransactionService) ListForRevendeur(ctx context.Context, revendeurID uint) ([]*models.TransactionResponse, error) {
	txs, err := s.transactionRepo.ListByRevendeur(ctx, revendeurID)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(txs), nil
}

// GetByID gets a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// Solde computes a reseller's available balance: the commission share
// of validated client payments minus every withdrawal that is validated
// or still pending. Pending withdrawals reserve funds so two requests
// cannot spend the same commission.
func (s *TransactionService) Solde(ctx context.Context, revendeurID uint) (*SoldeResponse, error) {
	paiements, err := s.transactionRepo.SumValidatedPaiements(ctx, revendeurID)
	if err != nil {
		return nil, err
	}
	retraits, err := s.transactionRepo.SumActiveRetraits(ctx, revendeurID)
	if err != nil {
		return nil, err
	}

	rate := s.cfg.Commission.Rate
	commission := rate * paiements

	return &SoldeResponse{
		Solde:           commission - retraits,
		TotalCommission: commission,
		TotalRetraits:   retraits,
		TauxCommission:  rate,
	}, nil
}

// CreateRetrait opens a withdrawal request for a reseller. The amount
// must fit inside the available balance at request time.
func (s *TransactionService) CreateRetrait(ctx context.Context, revendeurID uint, input *RetraitInput) (*models.TransactionResponse, error) {
	if input.Montant <= 0 {
		return nil, domain.ErrMontantInvalide
	}

	moyen := strings.ToLower(strings.TrimSpace(input.MoyenPaiement))
	if !domain.ValidMoyenPaiement(moyen) {
		return nil, domain.ErrMoyenPaiement
	}

	solde, err := s.Solde(ctx, revendeurID)
	if err != nil {
		return nil, err
	}
	if input.Montant > solde.Solde {
		return nil, domain.ErrSoldeInsuffisant
	}

	tx := &models.Transaction{
		Type:          domain.TxTypeRetrait,
		Montant:       input.Montant,
		MoyenPaiement: moyen,
		Statut:        domain.TxEnAttente,
		Note:          strings.TrimSpace(input.Note),
		RevendeurID:   &revendeurID,
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	revendeurName := ""
	if user, err := s.userRepo.GetByID(ctx, revendeurID); err == nil {
		revendeurName = user.Name
	}
	s.notifications.NotifyRetraitRequested(ctx, revendeurName, tx.Montant)

	log.Printf("✅ Withdrawal %d requested: %.2f by reseller %d", tx.ID, tx.Montant, revendeurID)
	return tx.ToResponse(), nil
}

// Decide settles a pending transaction as valide or refuse. Only
// en_attente transactions can move; a decided one is final.
func (s *TransactionService) Decide(ctx context.Context, adminID, txID uint, input *DecideInput) (*models.TransactionResponse, error) {
	statut := strings.ToLower(strings.TrimSpace(input.Statut))
	if statut != domain.TxValide && statut != domain.TxRefuse {
		return nil, domain.ErrStatutDecision
	}

	tx, err := s.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !tx.IsPending() {
		return nil, domain.ErrTransactionFermee
	}

	now := time.Now()
	tx.Statut = statut
	tx.DecidedBy = &adminID
	tx.DecidedAt = &now
	if note := strings.TrimSpace(input.Note); note != "" {
		tx.Note = note
	}

	if err := s.transactionRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	if tx.RevendeurID != nil {
		s.notifications.NotifyTransactionDecided(ctx, *tx.RevendeurID, tx)
	}

	log.Printf("✅ Transaction %d decided: %s by admin %d", tx.ID, statut, adminID)
	return tx.ToResponse(), nil
}

// ListByPeriod lists transactions for export, bounded by inclusive
// YYYY-MM-DD dates. revendeurID nil means all resellers.
func (s *TransactionService) ListByPeriod(ctx context.Context, revendeurID *uint, start, end string) ([]*models.Transaction, error) {
	return s.transactionRepo.ListByPeriod(ctx, revendeurID, start, end)
}

func toTransactionResponses(txs []*models.Transaction) []*models.TransactionResponse {
	responses := make([]*models.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, tx.ToResponse())
	}
	return responses
}
