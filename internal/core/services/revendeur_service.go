package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/adapters/persistence/repositories"
	"formafusion-partners/internal/config"
	"formafusion-partners/internal/core/domain"
	"formafusion-partners/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Revendeur errors
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
)

// RevendeurService handles reseller business logic
type RevendeurService struct {
	userRepo   repositories.UserRepository
	clientRepo repositories.ClientRepository
	cfg        *config.Config
}

// NewRevendeurService creates a new reseller service
func NewRevendeurService(
	userRepo repositories.UserRepository,
	clientRepo repositories.ClientRepository,
	cfg *config.Config,
) *RevendeurService {
	return &RevendeurService{
		userRepo:   userRepo,
		clientRepo: clientRepo,
		cfg:        cfg,
	}
}

// RegisterRevendeurInput represents reseller registration input
type RegisterRevendeurInput struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Pays                 string `json:"pays"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// RevendeurCreated carries the created account with the exact
// affiliation code and signup link to hand to the reseller
type RevendeurCreated struct {
	User            *models.UserResponse `json:"user"`
	CodeAffiliation string               `json:"code_affiliation"`
	LienAffiliation string               `json:"lien_affiliation"`
}

// List lists resellers with their affiliated client counts
func (s *RevendeurService) List(ctx context.Context) ([]*models.RevendeurResponse, error) {
	return s.userRepo.ListRevendeurs(ctx)
}

// Register creates a reseller account with a fresh affiliation code.
// The code returned here is stored verbatim, never re-derived.
func (s *RevendeurService) Register(ctx context.Context, input *RegisterRevendeurInput) (*RevendeurCreated, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.PasswordConfirmation {
		return nil, ErrPasswordMismatch
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	code := generateCodeAffiliation()
	user := &models.User{
		Name:            strings.TrimSpace(input.Name),
		Email:           email,
		Password:        hashedPassword,
		Role:            string(domain.RoleRevendeur),
		Pays:            strings.TrimSpace(input.Pays),
		CodeAffiliation: &code,
		IsActive:        true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Reseller registered: %s [%s]", user.Email, code)

	return &RevendeurCreated{
		User:            user.ToResponse(),
		CodeAffiliation: code,
		LienAffiliation: s.AffiliationLink(code),
	}, nil
}

// Profile returns a reseller's own profile with affiliation code,
// signup link and client count
func (s *RevendeurService) Profile(ctx context.Context, userID uint) (*RevendeurCreated, int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrRevendeurNotFound
		}
		return nil, 0, err
	}

	count, err := s.clientRepo.CountByRevendeur(ctx, user.ID)
	if err != nil {
		return nil, 0, err
	}

	profile := &RevendeurCreated{User: user.ToResponse()}
	if user.CodeAffiliation != nil {
		profile.CodeAffiliation = *user.CodeAffiliation
		profile.LienAffiliation = s.AffiliationLink(*user.CodeAffiliation)
	}
	return profile, count, nil
}

// AffiliationLink builds the public signup URL carrying a reseller code
func (s *RevendeurService) AffiliationLink(code string) string {
	return fmt.Sprintf("%s?ref=%s", s.cfg.Affiliate.SignupBaseURL, code)
}

// generateCodeAffiliation produces a short unique reseller code.
// Uniqueness rides on the uuid; the column's unique index is the
// final guard.
func generateCodeAffiliation() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "REV-" + raw[:10]
}
