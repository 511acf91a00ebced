package services

import (
	"bytes"
	"testing"
	"time"

	"formafusion-partners/internal/adapters/persistence/models"
)

func sampleTransactions() []*models.Transaction {
	now := time.Now()
	return []*models.Transaction{
		{
			ID:        1,
			Type:      "paiement",
			Montant:   300000,
			Statut:    "valide",
			CreatedAt: now,
			Revendeur: &models.User{ID: 1, Name: "Fara", Email: "fara@example.mg"},
			Client:    &models.Client{ID: 1, Nom: "Naly", Email: "naly@example.mg"},
		},
		{
			ID:            2,
			Type:          "retrait",
			Montant:       50000,
			MoyenPaiement: "mvola",
			Statut:        "en_attente",
			Note:          "Premier retrait",
			CreatedAt:     now,
			Revendeur:     &models.User{ID: 1, Name: "Fara", Email: "fara@example.mg"},
		},
	}
}

func TestTransactionPDF(t *testing.T) {
	svc := NewExportService(testConfig())

	pdfBytes, filename, err := svc.TransactionPDF(sampleTransactions()[1])
	if err != nil {
		t.Fatalf("TransactionPDF: %v", err)
	}
	if filename != "transaction-2.pdf" {
		t.Errorf("filename = %s", filename)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestTransactionsPDF(t *testing.T) {
	svc := NewExportService(testConfig())

	pdfBytes, _, err := svc.TransactionsPDF(sampleTransactions(), "2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatalf("TransactionsPDF: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestTransactionsExcel(t *testing.T) {
	svc := NewExportService(testConfig())

	xlsxBytes, filename, err := svc.TransactionsExcel(sampleTransactions(), "", "")
	if err != nil {
		t.Fatalf("TransactionsExcel: %v", err)
	}
	if len(xlsxBytes) == 0 {
		t.Fatal("empty workbook")
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(xlsxBytes, []byte("PK")) {
		t.Error("output is not an xlsx archive")
	}
	if filename == "" {
		t.Error("empty filename")
	}
}
