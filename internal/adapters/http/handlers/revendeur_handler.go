package handlers

import (
	"errors"

	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/core/services"
	"formafusion-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RevendeurHandler handles reseller endpoints
type RevendeurHandler struct {
	revendeurService *services.RevendeurService
}

// NewRevendeurHandler creates a new reseller handler
func NewRevendeurHandler(revendeurService *services.RevendeurService) *RevendeurHandler {
	return &RevendeurHandler{revendeurService: revendeurService}
}

// List lists resellers with client counts
// @Summary List resellers
// @Description List all resellers with their affiliated client counts
// @Tags Revendeurs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /revendeurs [get]
func (h *RevendeurHandler) List(c *fiber.Ctx) error {
	revendeurs, err := h.revendeurService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list resellers")
	}

	return response.Success(c, "Resellers retrieved successfully", fiber.Map{
		"revendeurs": revendeurs,
	})
}

// RegisterRevendeurRequest represents reseller registration request body
type RegisterRevendeurRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Pays                 string `json:"pays"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates a new reseller account
// @Summary Register reseller
// @Description Create a reseller account with a fresh affiliation code and signup link
// @Tags Revendeurs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRevendeurRequest true "Reseller data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /register-revendeur [post]
func (h *RevendeurHandler) Register(c *fiber.Ctx) error {
	var req RegisterRevendeurRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.RegisterRevendeurInput{
		Name:                 req.Name,
		Email:                req.Email,
		Pays:                 req.Pays,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	}

	result, err := h.revendeurService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name and email are required")
		case errors.Is(err, services.ErrPasswordTooShort):
			return response.BadRequest(c, "Password must be at least 8 characters")
		case errors.Is(err, services.ErrPasswordMismatch):
			return response.BadRequest(c, "Password confirmation does not match")
		case errors.Is(err, services.ErrEmailTaken):
			return response.Conflict(c, "A user with this email already exists")
		default:
			return response.InternalServerError(c, "Failed to register reseller")
		}
	}

	return response.Created(c, "Reseller registered successfully", result)
}

// Profile returns the authenticated reseller's own profile
// @Summary Get reseller profile
// @Description Get the authenticated reseller's profile with affiliation code, link and client count
// @Tags Revendeurs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /mon-profil [get]
func (h *RevendeurHandler) Profile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	profile, clientsCount, err := h.revendeurService.Profile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrRevendeurNotFound) {
			return response.NotFound(c, "Reseller not found")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user":             profile.User,
		"code_affiliation": profile.CodeAffiliation,
		"lien_affiliation": profile.LienAffiliation,
		"clients_count":    clientsCount,
	})
}
