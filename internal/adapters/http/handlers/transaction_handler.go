package handlers

import (
	"errors"

	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/core/services"
	"formafusion-partners/internal/pkg/pagination"
	"formafusion-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles transaction endpoints
type TransactionHandler struct {
	transactionService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// List lists transactions scoped to the caller's role: admins see
// everything, resellers only their own rows
// @Summary List transactions
// @Description List transactions. Admins see all, resellers only their own.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	if role == string(domain.RoleAdmin) {
		params := pagination.GetParams(c)
		txs, total, err := h.transactionService.ListAll(c.Context(), params.Offset, params.Limit)
		if err != nil {
			return response.InternalServerError(c, "Failed to list transactions")
		}
		return response.Success(c, "Transactions retrieved successfully",
			pagination.NewResponse(txs, params, total))
	}

	txs, err := h.transactionService.ListForRevendeur(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", fiber.Map{
		"transactions": txs,
	})
}

// RetraitRequest represents a withdrawal request body
type RetraitRequest struct {
	Montant       float64 `json:"montant"`
	MoyenPaiement string  `json:"moyen_paiement"`
	Note          string  `json:"note"`
}

// CreateRetrait opens a withdrawal request for the authenticated reseller
// @Summary Request withdrawal
// @Description Open a withdrawal request. The amount must fit inside the available balance.
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RetraitRequest true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /transactions [post]
func (h *TransactionHandler) CreateRetrait(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RetraitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MoyenPaiement == "" {
		return response.BadRequest(c, "Payment method is required")
	}

	input := &services.RetraitInput{
		Montant:       req.Montant,
		MoyenPaiement: req.MoyenPaiement,
		Note:          req.Note,
	}

	tx, err := h.transactionService.CreateRetrait(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMontantInvalide):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, domain.ErrMoyenPaiement):
			return response.BadRequest(c, "Payment method must be mvola, orange, banque or autre")
		case errors.Is(err, domain.ErrSoldeInsuffisant):
			return response.Error(c, fiber.StatusUnprocessableEntity, "Amount exceeds available balance")
		default:
			return response.InternalServerError(c, "Failed to create withdrawal")
		}
	}

	return response.Created(c, "Withdrawal requested successfully", fiber.Map{
		"transaction": tx,
	})
}

// DecideRequest represents an admin decision request body
type DecideRequest struct {
	Statut string `json:"statut"`
	Note   string `json:"note"`
}

// Decide settles a pending transaction
// @Summary Decide transaction
// @Description Validate or refuse a pending transaction. Decided transactions are final.
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param body body DecideRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Decide(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	txID, err := c.ParamsInt("id")
	if err != nil || txID <= 0 {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Statut == "" {
		return response.BadRequest(c, "Status is required")
	}

	input := &services.DecideInput{
		Statut: req.Statut,
		Note:   req.Note,
	}

	tx, err := h.transactionService.Decide(c.Context(), adminID, uint(txID), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStatutDecision):
			return response.BadRequest(c, "Status must be valide or refuse")
		case errors.Is(err, domain.ErrTransactionNotFound):
			return response.NotFound(c, "Transaction not found")
		case errors.Is(err, domain.ErrTransactionFermee):
			return response.Conflict(c, "Transaction has already been decided")
		default:
			return response.InternalServerError(c, "Failed to decide transaction")
		}
	}

	return response.Success(c, "Transaction decided successfully", fiber.Map{
		"transaction": tx,
	})
}

// Solde returns the authenticated reseller's balance
// @Summary Get balance
// @Description Get the authenticated reseller's available balance breakdown
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /solde [get]
func (h *TransactionHandler) Solde(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	solde, err := h.transactionService.Solde(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute balance")
	}

	return response.Success(c, "Balance retrieved successfully", solde)
}
