package domain

// Role represents a user role in the system
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRevendeur Role = "revendeur"
)

// ============================================================
// Canonical vocabulary
// The legacy frontend drifted between spellings ("Total payé"
// vs "valide", /paiement vs /update-statut). Every status string
// in the system comes from here, nowhere else.
// ============================================================

// Client payment statuses
const (
	StatutNonPaye   = "Non payé"
	StatutPartiel   = "Partiel"
	StatutTotalPaye = "Total payé"
)

// ValidStatutPaiement reports whether s is a known client payment status
func ValidStatutPaiement(s string) bool {
	return s == StatutNonPaye || s == StatutPartiel || s == StatutTotalPaye
}

// Transaction statuses
const (
	TxEnAttente = "en_attente"
	TxValide    = "valide"
	TxRefuse    = "refuse"
)

// Transaction types
const (
	TxTypePaiement = "paiement"
	TxTypeRetrait  = "retrait"
)

// Moyens de paiement accepted for withdrawals
const (
	MoyenMvola  = "mvola"
	MoyenOrange = "orange"
	MoyenBanque = "banque"
	MoyenAutre  = "autre"
)

// ValidMoyenPaiement reports whether m is an accepted payment method
func ValidMoyenPaiement(m string) bool {
	switch m {
	case MoyenMvola, MoyenOrange, MoyenBanque, MoyenAutre:
		return true
	}
	return false
}

// DefaultCommissionRate is the reseller share of a validated payment
const DefaultCommissionRate = 0.30
