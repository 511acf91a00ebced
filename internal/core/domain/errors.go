package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Client errors
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client email already registered")
	ErrInvalidStatut       = errors.New("invalid payment status")
	ErrClientLibre         = errors.New("client has no affiliated reseller")
	ErrPaiementIncomplet   = errors.New("client has not fully paid")
	ErrProspectNotFound    = errors.New("no prospect found for this email")
)

// Revendeur errors
var (
	ErrRevendeurNotFound = errors.New("reseller not found")
	ErrCodeAffiliation   = errors.New("unknown affiliation code")
)

// Transaction errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrMontantInvalide     = errors.New("amount must be greater than zero")
	ErrSoldeInsuffisant    = errors.New("amount exceeds available balance")
	ErrMoyenPaiement       = errors.New("unknown payment method")
	ErrTransactionFermee   = errors.New("transaction already decided")
	ErrStatutDecision      = errors.New("decision must be valide or refuse")
)
