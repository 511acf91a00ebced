package handlers

import (
	"errors"
	"fmt"

	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/core/services"
	"formafusion-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ExportHandler handles PDF and Excel export endpoints
type ExportHandler struct {
	transactionService *services.TransactionService
	exportService      *services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(
	transactionService *services.TransactionService,
	exportService *services.ExportService,
) *ExportHandler {
	return &ExportHandler{
		transactionService: transactionService,
		exportService:      exportService,
	}
}

// TransactionPDF exports a single transaction as a PDF receipt.
// Resellers can only export their own transactions.
// @Summary Export transaction receipt
// @Description Export a single transaction as a PDF receipt
// @Tags Exports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /export-pdf/transaction/{id} [get]
func (h *ExportHandler) TransactionPDF(c *fiber.Ctx) error {
	txID, err := c.ParamsInt("id")
	if err != nil || txID <= 0 {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	tx, err := h.transactionService.GetByID(c.Context(), uint(txID))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		return response.InternalServerError(c, "Failed to load transaction")
	}

	// Resellers only see their own rows
	role, _ := c.Locals("role").(string)
	if role != string(domain.RoleAdmin) {
		userID, _ := c.Locals("userID").(uint)
		if tx.RevendeurID == nil || *tx.RevendeurID != userID {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
	}

	pdfBytes, filename, err := h.exportService.TransactionPDF(tx)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate PDF")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

// Transactions exports a period of transactions as PDF or Excel.
// Resellers are scoped to their own rows, admins see everything.
// @Summary Export transactions
// @Description Export transactions over a period as a PDF report or Excel workbook
// @Tags Exports
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "pdf or excel" default(pdf)
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Response
// @Router /export-transactions [get]
func (h *ExportHandler) Transactions(c *fiber.Ctx) error {
	format := c.Query("format", "pdf")
	if format != "pdf" && format != "excel" {
		return response.BadRequest(c, "Format must be pdf or excel")
	}

	start := c.Query("start")
	end := c.Query("end")

	var revendeurID *uint
	role, _ := c.Locals("role").(string)
	if role != string(domain.RoleAdmin) {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		revendeurID = &userID
	}

	txs, err := h.transactionService.ListByPeriod(c.Context(), revendeurID, start, end)
	if err != nil {
		return response.InternalServerError(c, "Failed to load transactions")
	}

	var (
		fileBytes   []byte
		filename    string
		contentType string
	)

	if format == "excel" {
		fileBytes, filename, err = h.exportService.TransactionsExcel(txs, start, end)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	} else {
		fileBytes, filename, err = h.exportService.TransactionsPDF(txs, start, end)
		contentType = "application/pdf"
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to generate export")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(fileBytes)
}
