package handlers

import (
	"errors"
	"net/url"

	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/core/services"
	"formafusion-partners/internal/pkg/pagination"
	"formafusion-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService *services.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List lists clients with optional search
// @Summary List clients
// @Description List all clients, optionally filtered by a search term over name, email and phone
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("search")

	clients, total, err := h.clientService.List(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list clients")
	}

	return response.Success(c, "Clients retrieved successfully",
		pagination.NewResponse(clients, params, total))
}

// MyClients lists the authenticated reseller's clients
// @Summary List own clients
// @Description List clients affiliated to the authenticated reseller
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /mes-clients [get]
func (h *ClientHandler) MyClients(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clients, err := h.clientService.ListByRevendeur(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list clients")
	}

	return response.Success(c, "Clients retrieved successfully", fiber.Map{
		"clients": clients,
	})
}

// RegisterClientRequest represents client registration request body
type RegisterClientRequest struct {
	Nom             string  `json:"nom"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Pays            string  `json:"pays"`
	MontantPaye     float64 `json:"montant_paye"`
	CodeAffiliation string  `json:"code_affiliation"`
}

// Register creates a new client
// @Summary Register client
// @Description Register a new client, optionally bound to a reseller by affiliation code
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterClientRequest true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /register-client [post]
func (h *ClientHandler) Register(c *fiber.Ctx) error {
	var req RegisterClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Nom == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	input := &services.RegisterClientInput{
		Nom:             req.Nom,
		Email:           req.Email,
		Phone:           req.Phone,
		Pays:            req.Pays,
		MontantPaye:     req.MontantPaye,
		CodeAffiliation: req.CodeAffiliation,
	}

	client, err := h.clientService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name and email are required")
		case errors.Is(err, domain.ErrClientAlreadyExists):
			return response.Conflict(c, "A client with this email already exists")
		case errors.Is(err, domain.ErrCodeAffiliation):
			return response.BadRequest(c, "Unknown affiliation code")
		default:
			return response.InternalServerError(c, "Failed to register client")
		}
	}

	return response.Created(c, "Client registered successfully", fiber.Map{
		"client": client,
	})
}

// UpdateStatutRequest represents a payment status update request body
type UpdateStatutRequest struct {
	StatutPaiement string   `json:"statut_paiement"`
	MontantPaye    *float64 `json:"montant_paye"`
}

// UpdateStatut updates a client's payment status
// @Summary Update client payment status
// @Description Update a client's payment status and optionally the paid amount
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param body body UpdateStatutRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/update-statut [patch]
func (h *ClientHandler) UpdateStatut(c *fiber.Ctx) error {
	clientID, err := c.ParamsInt("id")
	if err != nil || clientID <= 0 {
		return response.BadRequest(c, "Invalid client ID")
	}

	var req UpdateStatutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.StatutPaiement == "" {
		return response.BadRequest(c, "Payment status is required")
	}

	input := &services.UpdateStatutInput{
		StatutPaiement: req.StatutPaiement,
		MontantPaye:    req.MontantPaye,
	}

	client, err := h.clientService.UpdateStatut(c.Context(), uint(clientID), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatut):
			return response.BadRequest(c, "Payment status must be 'Non payé', 'Partiel' or 'Total payé'")
		case errors.Is(err, domain.ErrMontantInvalide):
			return response.BadRequest(c, "Paid amount cannot be negative")
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		default:
			return response.InternalServerError(c, "Failed to update client")
		}
	}

	return response.Success(c, "Client updated successfully", fiber.Map{
		"client": client,
	})
}

// ValiderPaiement confirms a client's payment and opens the commission
// @Summary Validate client payment
// @Description Confirm a fully paid client and open the pending commission transaction for its reseller
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /clients/{id}/valider-paiement [post]
func (h *ClientHandler) ValiderPaiement(c *fiber.Ctx) error {
	clientID, err := c.ParamsInt("id")
	if err != nil || clientID <= 0 {
		return response.BadRequest(c, "Invalid client ID")
	}

	result, err := h.clientService.ValiderPaiement(c.Context(), uint(clientID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, domain.ErrPaiementIncomplet):
			return response.Error(c, fiber.StatusUnprocessableEntity, "Client has not fully paid")
		case errors.Is(err, domain.ErrClientLibre):
			return response.Error(c, fiber.StatusUnprocessableEntity, "Client has no affiliated reseller")
		case errors.Is(err, domain.ErrMontantInvalide):
			return response.Error(c, fiber.StatusUnprocessableEntity, "Client has no recorded payment amount")
		default:
			return response.InternalServerError(c, "Failed to validate payment")
		}
	}

	data := fiber.Map{
		"client":      result.Client,
		"transaction": result.Transaction,
	}
	if result.Warning != "" {
		return response.SuccessWithWarning(c, "Payment validated", result.Warning, data)
	}
	return response.Success(c, "Payment validated successfully", data)
}

// Import imports a marketplace prospect as a client
// @Summary Import client by email
// @Description Look up a marketplace prospect by email and create the matching client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param email path string true "Prospect email"
// @Success 200 {object} response.Response
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /import-client/{email} [get]
func (h *ClientHandler) Import(c *fiber.Ctx) error {
	email := c.Params("email")
	if decoded, err := url.PathUnescape(email); err == nil {
		email = decoded
	}

	client, created, err := h.clientService.ImportByEmail(c.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Email is required")
		case errors.Is(err, domain.ErrProspectNotFound):
			return response.NotFound(c, "No prospect found for this email")
		default:
			return response.InternalServerError(c, "Failed to import client")
		}
	}

	if created {
		return response.Created(c, "Prospect imported successfully", fiber.Map{
			"client": client,
		})
	}
	return response.Success(c, "Client already exists", fiber.Map{
		"client": client,
	})
}
