package services

import (
	"bytes"
	"fmt"
	"time"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/config"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders transactions as PDF receipts and reports, and
// as Excel workbooks for the back office.
type ExportService struct {
	cfg *config.Config
}

// NewExportService creates a new export service
func NewExportService(cfg *config.Config) *ExportService {
	return &ExportService{cfg: cfg}
}

const exportCompanyName = "FormaFusion Partners"

// TransactionPDF renders a single transaction as a one page receipt
func (s *ExportService) TransactionPDF(tx *models.Transaction) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Transaction #%d", tx.ID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, exportCompanyName)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Recu de transaction #%d", tx.ID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	writeRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	writeRow("Type", tx.Type)
	writeRow("Montant", formatMontant(tx.Montant))
	writeRow("Statut", tx.Statut)
	if tx.MoyenPaiement != "" {
		writeRow("Moyen de paiement", tx.MoyenPaiement)
	}
	if tx.Revendeur != nil {
		writeRow("Revendeur", fmt.Sprintf("%s <%s>", tx.Revendeur.Name, tx.Revendeur.Email))
	}
	if tx.Client != nil {
		writeRow("Client", fmt.Sprintf("%s <%s>", tx.Client.Nom, tx.Client.Email))
	}
	writeRow("Date de creation", tx.CreatedAt.Format("02/01/2006 15:04"))
	if tx.DecidedAt != nil {
		writeRow("Date de decision", tx.DecidedAt.Format("02/01/2006 15:04"))
	}
	if tx.Note != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Note")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tx.Note, "", "L", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Genere le %s", time.Now().Format("02/01/2006 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("transaction-%d.pdf", tx.ID)
	return buf.Bytes(), filename, nil
}

// TransactionsPDF renders a period report as a table
func (s *ExportService) TransactionsPDF(txs []*models.Transaction, start, end string) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Rapport des transactions", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, exportCompanyName+" - Rapport des transactions")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, periodLabel(start, end))
	pdf.Ln(10)

	headers := []string{"ID", "Date", "Type", "Revendeur", "Client", "Moyen", "Montant", "Statut"}
	widths := []float64{15, 30, 25, 55, 55, 25, 35, 25}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	var total float64
	for _, tx := range txs {
		revendeur, client := "", ""
		if tx.Revendeur != nil {
			revendeur = tx.Revendeur.Name
		}
		if tx.Client != nil {
			client = tx.Client.Nom
		}

		cells := []string{
			fmt.Sprintf("%d", tx.ID),
			tx.CreatedAt.Format("02/01/2006"),
			tx.Type,
			revendeur,
			client,
			tx.MoyenPaiement,
			formatMontant(tx.Montant),
			tx.Statut,
		}
		for i, cell := range cells {
			align := "L"
			if i == 0 || i == 6 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		total += tx.Montant
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3]+widths[4]+widths[5], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[6], 8, formatMontant(total), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[7], 8, "", "1", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("transactions-%s.pdf", time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// TransactionsExcel renders a period report as an xlsx workbook
func (s *ExportService) TransactionsExcel(txs []*models.Transaction, start, end string) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Date", "Type", "Revendeur", "Client", "Moyen de paiement", "Montant", "Statut", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E6E6E6"}},
	})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", endCell, headerStyle)
	}

	for rowIdx, tx := range txs {
		revendeur, client := "", ""
		if tx.Revendeur != nil {
			revendeur = tx.Revendeur.Name
		}
		if tx.Client != nil {
			client = tx.Client.Nom
		}

		values := []interface{}{
			tx.ID,
			tx.CreatedAt.Format("02/01/2006 15:04"),
			tx.Type,
			revendeur,
			client,
			tx.MoyenPaiement,
			tx.Montant,
			tx.Statut,
			tx.Note,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "D", "E", 28)
	f.SetColWidth(sheet, "F", "F", 18)
	f.SetColWidth(sheet, "I", "I", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func formatMontant(montant float64) string {
	return fmt.Sprintf("%.2f Ar", montant)
}

func periodLabel(start, end string) string {
	switch {
	case start != "" && end != "":
		return fmt.Sprintf("Periode du %s au %s", start, end)
	case start != "":
		return fmt.Sprintf("Periode depuis le %s", start)
	case end != "":
		return fmt.Sprintf("Periode jusqu'au %s", end)
	}
	return "Toutes les transactions"
}
