package services

import (
	"context"
	"errors"
	"testing"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/core/domain"
)

func TestSoldeComputation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-SOLDE1")

	// 1,000,000 validated payments -> 300,000 commission at 30%
	createTestTransaction(t, db, domain.TxTypePaiement, 600000, domain.TxValide, &revendeur.ID)
	createTestTransaction(t, db, domain.TxTypePaiement, 400000, domain.TxValide, &revendeur.ID)
	// Pending and refused payments never count
	createTestTransaction(t, db, domain.TxTypePaiement, 500000, domain.TxEnAttente, &revendeur.ID)
	createTestTransaction(t, db, domain.TxTypePaiement, 500000, domain.TxRefuse, &revendeur.ID)
	// Withdrawals: validated and pending both reserve funds, refused do not
	createTestTransaction(t, db, domain.TxTypeRetrait, 50000, domain.TxValide, &revendeur.ID)
	createTestTransaction(t, db, domain.TxTypeRetrait, 30000, domain.TxEnAttente, &revendeur.ID)
	createTestTransaction(t, db, domain.TxTypeRetrait, 99999, domain.TxRefuse, &revendeur.ID)

	solde, err := svc.Solde(context.Background(), revendeur.ID)
	if err != nil {
		t.Fatalf("Solde: %v", err)
	}

	if solde.TotalCommission != 300000 {
		t.Errorf("TotalCommission = %f, want 300000", solde.TotalCommission)
	}
	if solde.TotalRetraits != 80000 {
		t.Errorf("TotalRetraits = %f, want 80000", solde.TotalRetraits)
	}
	if solde.Solde != 220000 {
		t.Errorf("Solde = %f, want 220000", solde.Solde)
	}
}

func TestCreateRetraitExceedingBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-RET1")
	createTestTransaction(t, db, domain.TxTypePaiement, 100000, domain.TxValide, &revendeur.ID)

	// Balance is 30,000; asking for more must fail without a row
	_, err := svc.CreateRetrait(context.Background(), revendeur.ID, &RetraitInput{
		Montant:       30001,
		MoyenPaiement: "mvola",
	})
	if !errors.Is(err, domain.ErrSoldeInsuffisant) {
		t.Fatalf("err = %v, want ErrSoldeInsuffisant", err)
	}

	var count int64
	db.Model(&models.Transaction{}).Where("type = ?", domain.TxTypeRetrait).Count(&count)
	if count != 0 {
		t.Error("withdrawal row created despite rejection")
	}
}

func TestCreateRetraitReservesFunds(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	createTestAdmin(t, db, "admin@example.com")
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-RET2")
	createTestTransaction(t, db, domain.TxTypePaiement, 100000, domain.TxValide, &revendeur.ID)

	// First withdrawal takes 20,000 of the 30,000 balance
	tx, err := svc.CreateRetrait(context.Background(), revendeur.ID, &RetraitInput{
		Montant:       20000,
		MoyenPaiement: "MVola",
	})
	if err != nil {
		t.Fatalf("CreateRetrait: %v", err)
	}
	if tx.Statut != domain.TxEnAttente {
		t.Errorf("statut = %s, want en_attente", tx.Statut)
	}
	if tx.MoyenPaiement != domain.MoyenMvola {
		t.Errorf("moyen = %s, want mvola (normalized)", tx.MoyenPaiement)
	}

	// The pending withdrawal reserves funds: only 10,000 remain
	if _, err := svc.CreateRetrait(context.Background(), revendeur.ID, &RetraitInput{
		Montant:       10001,
		MoyenPaiement: "mvola",
	}); !errors.Is(err, domain.ErrSoldeInsuffisant) {
		t.Errorf("second withdrawal err = %v, want ErrSoldeInsuffisant", err)
	}

	// Admins are notified of the request
	var admin models.User
	db.Where("role = ?", domain.RoleAdmin).First(&admin)
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", admin.ID).Count(&count)
	if count != 1 {
		t.Errorf("admin notifications = %d, want 1", count)
	}
}

func TestCreateRetraitValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-RET3")

	if _, err := svc.CreateRetrait(context.Background(), revendeur.ID, &RetraitInput{
		Montant:       0,
		MoyenPaiement: "mvola",
	}); !errors.Is(err, domain.ErrMontantInvalide) {
		t.Errorf("zero amount err = %v, want ErrMontantInvalide", err)
	}

	if _, err := svc.CreateRetrait(context.Background(), revendeur.ID, &RetraitInput{
		Montant:       100,
		MoyenPaiement: "paypal",
	}); !errors.Is(err, domain.ErrMoyenPaiement) {
		t.Errorf("unknown method err = %v, want ErrMoyenPaiement", err)
	}
}

func TestDecideValidatesPendingTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	admin := createTestAdmin(t, db, "admin@example.com")
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-DEC1")
	pending := createTestTransaction(t, db, domain.TxTypeRetrait, 10000, domain.TxEnAttente, &revendeur.ID)

	decided, err := svc.Decide(context.Background(), admin.ID, pending.ID, &DecideInput{
		Statut: "valide",
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Statut != domain.TxValide {
		t.Errorf("statut = %s, want valide", decided.Statut)
	}
	if decided.DecidedAt == nil {
		t.Error("decision timestamp not set")
	}

	// The reseller is notified
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", revendeur.ID).Count(&count)
	if count != 1 {
		t.Errorf("reseller notifications = %d, want 1", count)
	}
}

func TestDecideRefusalKeepsNote(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	admin := createTestAdmin(t, db, "admin@example.com")
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-DEC2")
	pending := createTestTransaction(t, db, domain.TxTypeRetrait, 10000, domain.TxEnAttente, &revendeur.ID)

	decided, err := svc.Decide(context.Background(), admin.ID, pending.ID, &DecideInput{
		Statut: "refuse",
		Note:   "Coordonnées bancaires invalides",
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Statut != domain.TxRefuse {
		t.Errorf("statut = %s, want refuse", decided.Statut)
	}
	if decided.Note != "Coordonnées bancaires invalides" {
		t.Errorf("note = %s", decided.Note)
	}
}

func TestDecideIsFinal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	admin := createTestAdmin(t, db, "admin@example.com")
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-DEC3")
	decided := createTestTransaction(t, db, domain.TxTypeRetrait, 10000, domain.TxValide, &revendeur.ID)

	_, err := svc.Decide(context.Background(), admin.ID, decided.ID, &DecideInput{Statut: "refuse"})
	if !errors.Is(err, domain.ErrTransactionFermee) {
		t.Errorf("err = %v, want ErrTransactionFermee", err)
	}
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	admin := createTestAdmin(t, db, "admin@example.com")
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-DEC4")
	pending := createTestTransaction(t, db, domain.TxTypeRetrait, 10000, domain.TxEnAttente, &revendeur.ID)

	_, err := svc.Decide(context.Background(), admin.ID, pending.ID, &DecideInput{Statut: "en_attente"})
	if !errors.Is(err, domain.ErrStatutDecision) {
		t.Errorf("err = %v, want ErrStatutDecision", err)
	}
}

func TestListForRevendeurScopesRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransactionService(db)
	rev1 := createTestRevendeur(t, db, "rev1@example.com", "REV-LIST1")
	rev2 := createTestRevendeur(t, db, "rev2@example.com", "REV-LIST2")
	createTestTransaction(t, db, domain.TxTypeRetrait, 100, domain.TxEnAttente, &rev1.ID)
	createTestTransaction(t, db, domain.TxTypeRetrait, 200, domain.TxEnAttente, &rev2.ID)

	txs, err := svc.ListForRevendeur(context.Background(), rev1.ID)
	if err != nil {
		t.Fatalf("ListForRevendeur: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len = %d, want 1", len(txs))
	}
	if txs[0].Montant != 100 {
		t.Errorf("montant = %f, want 100", txs[0].Montant)
	}
}
