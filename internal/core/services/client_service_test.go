package services

import (
	"context"
	"errors"
	"testing"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/core/domain"
)

func TestRegisterClientWithAffiliation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-AAA111")

	client, err := svc.Register(context.Background(), &RegisterClientInput{
		Nom:             "Naly Andria",
		Email:           "Naly.Andria@Example.MG",
		CodeAffiliation: "REV-AAA111",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if client.Email != "naly.andria@example.mg" {
		t.Errorf("email not normalized: %s", client.Email)
	}
	if client.RevendeurID == nil || *client.RevendeurID != revendeur.ID {
		t.Error("client not bound to reseller")
	}
	if client.StatutPaiement != domain.StatutNonPaye {
		t.Errorf("statut = %s, want %s", client.StatutPaiement, domain.StatutNonPaye)
	}

	// The reseller gets a notification
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", revendeur.ID).Count(&count)
	if count != 1 {
		t.Errorf("reseller notifications = %d, want 1", count)
	}
}

func TestRegisterClientUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)

	_, err := svc.Register(context.Background(), &RegisterClientInput{
		Nom:             "Naly Andria",
		Email:           "naly@example.mg",
		CodeAffiliation: "REV-DOESNOTEXIST",
	})
	if !errors.Is(err, domain.ErrCodeAffiliation) {
		t.Errorf("err = %v, want ErrCodeAffiliation", err)
	}

	var count int64
	db.Model(&models.Client{}).Count(&count)
	if count != 0 {
		t.Error("client row created despite rejected code")
	}
}

func TestRegisterClientDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	createTestClient(t, db, "dup@example.mg", nil, domain.StatutNonPaye, 0)

	_, err := svc.Register(context.Background(), &RegisterClientInput{
		Nom:   "Doublon",
		Email: "dup@example.mg",
	})
	if !errors.Is(err, domain.ErrClientAlreadyExists) {
		t.Errorf("err = %v, want ErrClientAlreadyExists", err)
	}
}

func TestUpdateStatutRejectsUnknownValue(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	client := createTestClient(t, db, "c@example.mg", nil, domain.StatutNonPaye, 0)

	_, err := svc.UpdateStatut(context.Background(), client.ID, &UpdateStatutInput{
		StatutPaiement: "paye",
	})
	if !errors.Is(err, domain.ErrInvalidStatut) {
		t.Errorf("err = %v, want ErrInvalidStatut", err)
	}
}

func TestUpdateStatutStampsPaymentDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	client := createTestClient(t, db, "c@example.mg", nil, domain.StatutPartiel, 100000)

	montant := 250000.0
	updated, err := svc.UpdateStatut(context.Background(), client.ID, &UpdateStatutInput{
		StatutPaiement: domain.StatutTotalPaye,
		MontantPaye:    &montant,
	})
	if err != nil {
		t.Fatalf("UpdateStatut: %v", err)
	}

	if updated.StatutPaiement != domain.StatutTotalPaye {
		t.Errorf("statut = %s", updated.StatutPaiement)
	}
	if updated.MontantPaye != 250000 {
		t.Errorf("montant = %f", updated.MontantPaye)
	}
	if updated.DatePaiement == nil {
		t.Error("payment date not stamped")
	}
}

func TestValiderPaiementRequiresFullPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-BBB222")
	client := createTestClient(t, db, "c@example.mg", &revendeur.ID, domain.StatutPartiel, 100000)

	_, err := svc.ValiderPaiement(context.Background(), client.ID)
	if !errors.Is(err, domain.ErrPaiementIncomplet) {
		t.Errorf("err = %v, want ErrPaiementIncomplet", err)
	}
}

func TestValiderPaiementRequiresAffiliation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	client := createTestClient(t, db, "libre@example.mg", nil, domain.StatutTotalPaye, 100000)

	_, err := svc.ValiderPaiement(context.Background(), client.ID)
	if !errors.Is(err, domain.ErrClientLibre) {
		t.Errorf("err = %v, want ErrClientLibre", err)
	}
}

func TestValiderPaiementOpensCommissionTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	createTestAdmin(t, db, "admin@example.com")
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-CCC333")
	client := createTestClient(t, db, "c@example.mg", &revendeur.ID, domain.StatutTotalPaye, 300000)

	result, err := svc.ValiderPaiement(context.Background(), client.ID)
	if err != nil {
		t.Fatalf("ValiderPaiement: %v", err)
	}
	if result.Warning != "" {
		t.Fatalf("unexpected warning: %s", result.Warning)
	}
	if result.Transaction == nil {
		t.Fatal("no transaction in result")
	}

	var tx models.Transaction
	if err := db.First(&tx, result.Transaction.ID).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if tx.Type != domain.TxTypePaiement {
		t.Errorf("type = %s, want paiement", tx.Type)
	}
	if tx.Statut != domain.TxEnAttente {
		t.Errorf("statut = %s, want en_attente", tx.Statut)
	}
	if tx.Montant != 300000 {
		t.Errorf("montant = %f, want 300000", tx.Montant)
	}
	if tx.RevendeurID == nil || *tx.RevendeurID != revendeur.ID {
		t.Error("transaction not bound to reseller")
	}
	if tx.ClientID == nil || *tx.ClientID != client.ID {
		t.Error("transaction not bound to client")
	}

	// The reseller hears about their pending commission
	var notifCount int64
	db.Model(&models.Notification{}).Where("user_id = ?", revendeur.ID).Count(&notifCount)
	if notifCount != 1 {
		t.Errorf("reseller notifications = %d, want 1", notifCount)
	}
}

func TestValiderPaiementKeepsStatusOnTransactionFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	createTestAdmin(t, db, "admin@example.com")
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-EEE555")
	client := createTestClient(t, db, "c@example.mg", &revendeur.ID, domain.StatutTotalPaye, 300000)

	// Make the commission insert fail underneath the service
	if err := db.Migrator().DropTable(&models.Transaction{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	result, err := svc.ValiderPaiement(context.Background(), client.ID)
	if err != nil {
		t.Fatalf("ValiderPaiement: %v", err)
	}
	if result.Warning == "" {
		t.Error("expected a warning when the commission transaction fails")
	}
	if result.Transaction != nil {
		t.Error("result carries a transaction despite the failed insert")
	}

	var reloaded models.Client
	if err := db.First(&reloaded, client.ID).Error; err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if reloaded.StatutPaiement != domain.StatutTotalPaye {
		t.Errorf("statut = %s, want %s", reloaded.StatutPaiement, domain.StatutTotalPaye)
	}
}

func TestImportByEmailCreatesClientFromProspect(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	revendeur := createTestRevendeur(t, db, "rev@example.com", "REV-DDD444")

	prospect := &models.Prospect{
		Nom:     "Mamy Ravelo",
		Email:   "mamy@example.mg",
		Phone:   "+261341112233",
		Pays:    "Madagascar",
		RefCode: "REV-DDD444",
	}
	if err := db.Create(prospect).Error; err != nil {
		t.Fatalf("create prospect: %v", err)
	}

	client, created, err := svc.ImportByEmail(context.Background(), "mamy@example.mg")
	if err != nil {
		t.Fatalf("ImportByEmail: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}
	if client.Nom != "Mamy Ravelo" || client.Phone != "+261341112233" {
		t.Error("prospect fields not carried over")
	}
	if client.RevendeurID == nil || *client.RevendeurID != revendeur.ID {
		t.Error("referral not carried over")
	}
}

func TestImportByEmailIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	existing := createTestClient(t, db, "mamy@example.mg", nil, domain.StatutPartiel, 50000)

	if err := db.Create(&models.Prospect{Nom: "Mamy", Email: "mamy@example.mg"}).Error; err != nil {
		t.Fatalf("create prospect: %v", err)
	}

	client, created, err := svc.ImportByEmail(context.Background(), "mamy@example.mg")
	if err != nil {
		t.Fatalf("ImportByEmail: %v", err)
	}
	if created {
		t.Error("created = true for existing client")
	}
	if client.ID != existing.ID {
		t.Error("returned a different client")
	}

	var count int64
	db.Model(&models.Client{}).Count(&count)
	if count != 1 {
		t.Errorf("clients = %d, want 1", count)
	}
}

func TestImportByEmailUnknownProspect(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)

	_, _, err := svc.ImportByEmail(context.Background(), "ghost@example.mg")
	if !errors.Is(err, domain.ErrProspectNotFound) {
		t.Errorf("err = %v, want ErrProspectNotFound", err)
	}
}

func TestListClientsSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestClientService(db)
	createTestClient(t, db, "rasoa@example.mg", nil, domain.StatutNonPaye, 0)
	createTestClient(t, db, "bema@example.mg", nil, domain.StatutNonPaye, 0)

	// Case-insensitive substring over nom, email, phone
	clients, total, err := svc.List(context.Background(), "RASOA", 0, 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(clients) != 1 {
		t.Fatalf("total = %d, len = %d, want 1/1", total, len(clients))
	}
	if clients[0].Email != "rasoa@example.mg" {
		t.Errorf("matched %s", clients[0].Email)
	}
}
