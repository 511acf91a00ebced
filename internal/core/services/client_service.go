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

// ClientService handles client business logic
type ClientService struct {
	clientRepo      repositories.ClientRepository
	userRepo        repositories.UserRepository
	prospectRepo    repositories.ProspectRepository
	transactionRepo repositories.TransactionRepository
	notifications   *NotificationService
	cfg             *config.Config
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repositories.ClientRepository,
	userRepo repositories.UserRepository,
	prospectRepo repositories.ProspectRepository,
	transactionRepo repositories.TransactionRepository,
	notifications *NotificationService,
	cfg *config.Config,
) *ClientService {
	return &ClientService{
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		prospectRepo:    prospectRepo,
		transactionRepo: transactionRepo,
		notifications:   notifications,
		cfg:             cfg,
	}
}

// RegisterClientInput represents client registration input
type RegisterClientInput struct {
	Nom             string  `json:"nom" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone"`
	Pays            string  `json:"pays"`
	MontantPaye     float64 `json:"montant_paye"`
	CodeAffiliation string  `json:"code_affiliation"`
}

// UpdateStatutInput represents a payment status update
type UpdateStatutInput struct {
	StatutPaiement string   `json:"statut_paiement" validate:"required"`
	MontantPaye    *float64 `json:"montant_paye"`
}

// ValiderPaiementResult carries the outcome of a payment validation.
// Warning is set when the commission transaction could not be opened;
// the status change itself is never rolled back for that.
type ValiderPaiementResult struct {
	Client      *models.Client              `json:"client"`
	Transaction *models.TransactionResponse `json:"transaction,omitempty"`
	Warning     string                      `json:"-"`
}

// List lists clients with optional search
func (s *ClientService) List(ctx context.Context, search string, offset, limit int) ([]*models.Client, int64, error) {
	return s.clientRepo.List(ctx, strings.TrimSpace(search), offset, limit)
}

// ListByRevendeur lists clients affiliated to a reseller
func (s *ClientService) ListByRevendeur(ctx context.Context, revendeurID uint) ([]*models.Client, error) {
	return s.clientRepo.ListByRevendeur(ctx, revendeurID)
}

// GetByID gets a client by ID
func (s *ClientService) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// Register creates a client, binding it to a reseller when a valid
// affiliation code is supplied. An unknown code is rejected rather
// than silently creating a free client.
func (s *ClientService) Register(ctx context.Context, input *RegisterClientInput) (*models.Client, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Nom == "" || email == "" {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.clientRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrClientAlreadyExists
	}

	client := &models.Client{
		Nom:            strings.TrimSpace(input.Nom),
		Email:          email,
		Phone:          strings.TrimSpace(input.Phone),
		Pays:           strings.TrimSpace(input.Pays),
		MontantPaye:    input.MontantPaye,
		StatutPaiement: domain.StatutNonPaye,
	}

	var revendeur *models.User
	if code := strings.TrimSpace(input.CodeAffiliation); code != "" {
		revendeur, err = s.userRepo.GetByCodeAffiliation(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrCodeAffiliation
			}
			return nil, err
		}
		client.RevendeurID = &revendeur.ID
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	if revendeur != nil {
		s.notifications.NotifyClientAffilie(ctx, revendeur.ID, client.Nom)
	}

	log.Printf("✅ Client registered: %s (affilié: %t)", client.Email, client.IsAffilie())
	return client, nil
}

// UpdateStatut updates a client's payment status and optionally the
// paid amount. Reaching "Total payé" stamps the payment date.
func (s *ClientService) UpdateStatut(ctx context.Context, clientID uint, input *UpdateStatutInput) (*models.Client, error) {
	if !domain.ValidStatutPaiement(input.StatutPaiement) {
		return nil, domain.ErrInvalidStatut
	}

	client, err := s.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	client.StatutPaiement = input.StatutPaiement
	if input.MontantPaye != nil {
		if *input.MontantPaye < 0 {
			return nil, domain.ErrMontantInvalide
		}
		client.MontantPaye = *input.MontantPaye
	}
	if input.StatutPaiement == domain.StatutTotalPaye && client.DatePaiement == nil {
		now := time.Now()
		client.DatePaiement = &now
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// ValiderPaiement confirms a fully paid client and opens the pending
// commission transaction for its reseller. The client must be
// "Total payé" and affiliated. A failure to open the transaction does
// not undo anything: the result carries a warning instead.
func (s *ClientService) ValiderPaiement(ctx context.Context, clientID uint) (*ValiderPaiementResult, error) {
	client, err := s.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if client.StatutPaiement != domain.StatutTotalPaye {
		return nil, domain.ErrPaiementIncomplet
	}
	if !client.IsAffilie() {
		return nil, domain.ErrClientLibre
	}
	if client.MontantPaye <= 0 {
		return nil, domain.ErrMontantInvalide
	}

	if client.DatePaiement == nil {
		now := time.Now()
		client.DatePaiement = &now
		if err := s.clientRepo.Update(ctx, client); err != nil {
			return nil, err
		}
	}

	tx := &models.Transaction{
		Type:        domain.TxTypePaiement,
		Montant:     client.MontantPaye,
		Statut:      domain.TxEnAttente,
		ClientID:    &client.ID,
		RevendeurID: client.RevendeurID,
	}

	result := &ValiderPaiementResult{Client: client}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		log.Printf("⚠️ Payment validated for client %d but commission transaction failed: %v", client.ID, err)
		result.Warning = "paiement validé mais la transaction de commission n'a pas pu être créée"
		return result, nil
	}

	result.Transaction = tx.ToResponse()
	s.notifications.NotifyCommissionCreated(ctx, *client.RevendeurID, client.Nom, tx.Montant)

	log.Printf("✅ Payment validated for client %d, commission transaction %d opened", client.ID, tx.ID)
	return result, nil
}

// ImportByEmail looks up a marketplace prospect by email and turns it
// into a client. Import is idempotent on email: an existing client
// wins over the prospect row.
func (s *ClientService) ImportByEmail(ctx context.Context, email string) (*models.Client, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, domain.ErrInvalidInput
	}

	if existing, err := s.clientRepo.GetByEmail(ctx, email); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	prospect, err := s.prospectRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, domain.ErrProspectNotFound
		}
		return nil, false, err
	}

	client := &models.Client{
		Nom:            prospect.Nom,
		Email:          prospect.Email,
		Phone:          prospect.Phone,
		Pays:           prospect.Pays,
		StatutPaiement: domain.StatutNonPaye,
	}

	// Carry over the referral when the prospect signed up through a
	// reseller link
	if prospect.RefCode != "" {
		revendeur, err := s.userRepo.GetByCodeAffiliation(ctx, prospect.RefCode)
		if err == nil {
			client.RevendeurID = &revendeur.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, false, err
	}

	if client.RevendeurID != nil {
		s.notifications.NotifyClientAffilie(ctx, *client.RevendeurID, client.Nom)
	}

	log.Printf("✅ Prospect imported as client: %s", client.Email)
	return client, true, nil
}
