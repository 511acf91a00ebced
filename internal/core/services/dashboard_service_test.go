package services

import (
	"context"
	"testing"

	"formafusion-partners/internal/core/domain"
)

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db, testConfig())

	createTestAdmin(t, db, "admin@example.com")
	rev1 := createTestRevendeur(t, db, "rev1@example.com", "REV-DASH1")
	rev2 := createTestRevendeur(t, db, "rev2@example.com", "REV-DASH2")

	createTestClient(t, db, "a@example.mg", &rev1.ID, domain.StatutTotalPaye, 300000)
	createTestClient(t, db, "b@example.mg", &rev1.ID, domain.StatutPartiel, 100000)
	createTestClient(t, db, "c@example.mg", nil, domain.StatutNonPaye, 0)

	createTestTransaction(t, db, domain.TxTypePaiement, 300000, domain.TxValide, &rev1.ID)
	createTestTransaction(t, db, domain.TxTypePaiement, 200000, domain.TxValide, &rev2.ID)
	createTestTransaction(t, db, domain.TxTypePaiement, 100000, domain.TxEnAttente, &rev2.ID)
	createTestTransaction(t, db, domain.TxTypeRetrait, 50000, domain.TxValide, &rev1.ID)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.TotalClients != 3 {
		t.Errorf("TotalClients = %d, want 3", stats.TotalClients)
	}
	if stats.TotalRevendeurs != 2 {
		t.Errorf("TotalRevendeurs = %d, want 2", stats.TotalRevendeurs)
	}
	if stats.TotalTransactions != 4 {
		t.Errorf("TotalTransactions = %d, want 4", stats.TotalTransactions)
	}

	if stats.ClientsParStatut[domain.StatutTotalPaye] != 1 {
		t.Errorf("clients Total payé = %d, want 1", stats.ClientsParStatut[domain.StatutTotalPaye])
	}
	if stats.ClientsParStatut[domain.StatutNonPaye] != 1 {
		t.Errorf("clients Non payé = %d, want 1", stats.ClientsParStatut[domain.StatutNonPaye])
	}
	if stats.TransactionsParStatut[domain.TxEnAttente] != 1 {
		t.Errorf("en_attente = %d, want 1", stats.TransactionsParStatut[domain.TxEnAttente])
	}
	if stats.TransactionsParStatut[domain.TxRefuse] != 0 {
		t.Errorf("refuse = %d, want 0", stats.TransactionsParStatut[domain.TxRefuse])
	}

	// 500,000 validated payments, 30% commission
	if stats.TotalPaiementValide != 500000 {
		t.Errorf("TotalPaiementValide = %f, want 500000", stats.TotalPaiementValide)
	}
	if stats.TotalCommission != 150000 {
		t.Errorf("TotalCommission = %f, want 150000", stats.TotalCommission)
	}
	if stats.TotalRetraitsValides != 50000 {
		t.Errorf("TotalRetraitsValides = %f, want 50000", stats.TotalRetraitsValides)
	}

	if len(stats.TransactionsParMois) != 12 {
		t.Fatalf("monthly buckets = %d, want 12", len(stats.TransactionsParMois))
	}
	current := stats.TransactionsParMois[len(stats.TransactionsParMois)-1]
	if current.Paiements != 500000 {
		t.Errorf("current month paiements = %f, want 500000", current.Paiements)
	}
	if current.Retraits != 50000 {
		t.Errorf("current month retraits = %f, want 50000", current.Retraits)
	}

	// rev1: 0.3*300000 - 50000 = 40,000; rev2: 0.3*200000 = 60,000
	if len(stats.TopRevendeursSolde) != 2 {
		t.Fatalf("top solde rows = %d, want 2", len(stats.TopRevendeursSolde))
	}
	if stats.TopRevendeursSolde[0].ID != rev2.ID || stats.TopRevendeursSolde[0].Solde != 60000 {
		t.Errorf("top solde = %+v, want rev2 at 60000", stats.TopRevendeursSolde[0])
	}
	if stats.TopRevendeursSolde[0].Name == "" {
		t.Error("ranking row missing name")
	}

	// rev2 has 2 transactions, rev1 has 2 as well; both must appear
	if len(stats.TopRevendeursTransaction) != 2 {
		t.Fatalf("top transaction rows = %d, want 2", len(stats.TopRevendeursTransaction))
	}
	for _, row := range stats.TopRevendeursTransaction {
		if row.TransactionsCount != 2 {
			t.Errorf("transactions count for %d = %d, want 2", row.ID, row.TransactionsCount)
		}
	}

	if len(stats.TopRevendeursClients) != 1 {
		t.Fatalf("top clients rows = %d, want 1", len(stats.TopRevendeursClients))
	}
	if stats.TopRevendeursClients[0].ID != rev1.ID || stats.TopRevendeursClients[0].ClientsCount != 2 {
		t.Errorf("top clients = %+v, want rev1 with 2", stats.TopRevendeursClients[0])
	}
}

func TestDashboardRanksResellersByTransactionCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db, testConfig())

	rev1 := createTestRevendeur(t, db, "active@example.com", "REV-TXRANK1")
	rev2 := createTestRevendeur(t, db, "recruiter@example.com", "REV-TXRANK2")

	// rev1 transacts more, rev2 affiliates more clients
	createTestTransaction(t, db, domain.TxTypePaiement, 100000, domain.TxValide, &rev1.ID)
	createTestTransaction(t, db, domain.TxTypePaiement, 50000, domain.TxEnAttente, &rev1.ID)
	createTestTransaction(t, db, domain.TxTypeRetrait, 20000, domain.TxValide, &rev1.ID)
	createTestTransaction(t, db, domain.TxTypePaiement, 80000, domain.TxValide, &rev2.ID)

	createTestClient(t, db, "one@example.mg", &rev1.ID, domain.StatutTotalPaye, 100000)
	createTestClient(t, db, "two@example.mg", &rev2.ID, domain.StatutPartiel, 40000)
	createTestClient(t, db, "three@example.mg", &rev2.ID, domain.StatutNonPaye, 0)
	createTestClient(t, db, "four@example.mg", &rev2.ID, domain.StatutNonPaye, 0)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if len(stats.TopRevendeursTransaction) != 2 {
		t.Fatalf("top transaction rows = %d, want 2", len(stats.TopRevendeursTransaction))
	}
	first := stats.TopRevendeursTransaction[0]
	if first.ID != rev1.ID || first.TransactionsCount != 3 {
		t.Errorf("top transactions = %+v, want rev1 with 3", first)
	}
	if first.Name == "" {
		t.Error("ranking row missing name")
	}
	if stats.TopRevendeursTransaction[1].TransactionsCount != 1 {
		t.Errorf("second row count = %d, want 1", stats.TopRevendeursTransaction[1].TransactionsCount)
	}

	if len(stats.TopRevendeursClients) == 0 || stats.TopRevendeursClients[0].ID != rev2.ID {
		t.Errorf("top clients = %+v, want rev2 first", stats.TopRevendeursClients)
	}
	if stats.TopRevendeursClients[0].ClientsCount != 3 {
		t.Errorf("top clients count = %d, want 3", stats.TopRevendeursClients[0].ClientsCount)
	}
}
