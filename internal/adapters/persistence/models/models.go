package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table (admins and revendeurs)
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password        string         `gorm:"size:255;not null" json:"-"`
	Role            string         `gorm:"size:20;default:'revendeur'" json:"role"`
	Pays            string         `gorm:"size:100" json:"pays,omitempty"`
	CodeAffiliation *string        `gorm:"uniqueIndex;size:40" json:"code_affiliation,omitempty"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Pays            string    `json:"pays,omitempty"`
	CodeAffiliation string    `json:"code_affiliation,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Pays:      u.Pays,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.CodeAffiliation != nil {
		resp.CodeAffiliation = *u.CodeAffiliation
	}
	return resp
}

// RevendeurResponse DTO - reseller listing row
type RevendeurResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Pays            string    `json:"pays,omitempty"`
	CodeAffiliation string    `json:"code_affiliation"`
	ClientsCount    int64     `json:"clients_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Clients
// ============================================================

// Client represents clients table. RevendeurID set means the client
// came through an affiliation link ("affilié"), nil means "libre".
type Client struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Nom            string         `gorm:"size:100;not null" json:"nom"`
	Email          string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone          string         `gorm:"size:30" json:"phone,omitempty"`
	Pays           string         `gorm:"size:100" json:"pays,omitempty"`
	MontantPaye    float64        `gorm:"type:decimal(15,2);default:0" json:"montant_paye"`
	DatePaiement   *time.Time     `json:"date_paiement,omitempty"`
	StatutPaiement string         `gorm:"size:20;not null;default:'Non payé'" json:"statut_paiement"`
	RevendeurID    *uint          `gorm:"index" json:"revendeur_id,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Revendeur *User `gorm:"foreignKey:RevendeurID" json:"revendeur,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

// IsAffilie reports whether the client is bound to a reseller
func (c *Client) IsAffilie() bool {
	return c.RevendeurID != nil
}

// ============================================================
// Prospects (external registry - Read Only!)
// Fed by the marketplace signup site, consumed by import-client.
// ============================================================

// Prospect represents the prospects table
type Prospect struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nom       string    `gorm:"size:100;not null" json:"nom"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone,omitempty"`
	Pays      string    `gorm:"size:100" json:"pays,omitempty"`
	RefCode   string    `gorm:"size:40" json:"ref_code,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Prospect) TableName() string {
	return "prospects"
}

// ============================================================
// Transactions
// ============================================================

// Transaction represents transactions table.
// type paiement  = commission settlement for a client payment
// type retrait   = reseller withdrawal request
type Transaction struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Type          string         `gorm:"size:20;not null;index" json:"type"`
	Montant       float64        `gorm:"type:decimal(15,2);not null" json:"montant"`
	MoyenPaiement string         `gorm:"size:20" json:"moyen_paiement,omitempty"`
	Statut        string         `gorm:"size:20;not null;default:'en_attente';index" json:"statut"`
	Note          string         `gorm:"type:text" json:"note,omitempty"`
	ClientID      *uint          `gorm:"index" json:"client_id,omitempty"`
	RevendeurID   *uint          `gorm:"index" json:"revendeur_id,omitempty"`
	DecidedBy     *uint          `json:"decided_by,omitempty"`
	DecidedAt     *time.Time     `json:"decided_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Client    *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Revendeur *User   `gorm:"foreignKey:RevendeurID" json:"revendeur,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsPending reports whether the transaction still awaits a decision
func (t *Transaction) IsPending() bool {
	return t.Statut == "en_attente"
}

// TransactionResponse DTO - flattens the relations the list screens need
type TransactionResponse struct {
	ID            uint       `json:"id"`
	Type          string     `json:"type"`
	Montant       float64    `json:"montant"`
	MoyenPaiement string     `json:"moyen_paiement,omitempty"`
	Statut        string     `json:"statut"`
	Note          string     `json:"note,omitempty"`
	Client        *PartyRef  `json:"client,omitempty"`
	Revendeur     *PartyRef  `json:"revendeur,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PartyRef identifies a client or reseller on a transaction row
type PartyRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (t *Transaction) ToResponse() *TransactionResponse {
	resp := &TransactionResponse{
		ID:            t.ID,
		Type:          t.Type,
		Montant:       t.Montant,
		MoyenPaiement: t.MoyenPaiement,
		Statut:        t.Statut,
		Note:          t.Note,
		DecidedAt:     t.DecidedAt,
		CreatedAt:     t.CreatedAt,
	}
	if t.Client != nil {
		resp.Client = &PartyRef{ID: t.Client.ID, Name: t.Client.Nom, Email: t.Client.Email}
	}
	if t.Revendeur != nil {
		resp.Revendeur = &PartyRef{ID: t.Revendeur.ID, Name: t.Revendeur.Name, Email: t.Revendeur.Email}
	}
	return resp
}

// ============================================================
// Notifications
// ============================================================

// Notification represents notifications table
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Message   string     `gorm:"type:text;not null" json:"-"`
	ReadAt    *time.Time `gorm:"index" json:"read_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationResponse DTO - message wrapped under data, the shape the
// notification list screen consumes
type NotificationResponse struct {
	ID        uint             `json:"id"`
	Data      NotificationData `json:"data"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationData carries the displayable payload
type NotificationData struct {
	Message string `json:"message"`
}

func (n *Notification) ToResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Data:      NotificationData{Message: n.Message},
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables.
// The prospects table is migrated too so dev environments can seed it,
// but the application never writes to it outside seeding.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Client{},
		&Prospect{},
		&Transaction{},
		&Notification{},
	)
}
