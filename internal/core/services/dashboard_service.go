package services

import (
	"context"
	"sort"
	"time"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/config"
	"formafusion-partners/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService computes the admin dashboard aggregates. It reads
// the database directly: these are reporting queries, not business
// operations, and GORM's grouped scans fit them better than widening
// every repository interface.
type DashboardService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, cfg *config.Config) *DashboardService {
	return &DashboardService{db: db, cfg: cfg}
}

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	TotalClients             int64                     `json:"total_clients"`
	ClientsParStatut         map[string]int64          `json:"clients_par_statut"`
	TotalRevendeurs          int64                     `json:"total_revendeurs"`
	TotalTransactions        int64                     `json:"total_transactions"`
	TransactionsParStatut    map[string]int64          `json:"transactions_par_statut"`
	TotalPaiementValide      float64                   `json:"total_paiement_valide"`
	TotalCommission          float64                   `json:"total_commission"`
	TotalRetraitsValides     float64                   `json:"total_retraits_valides"`
	TransactionsParMois      []MonthlyBucket           `json:"transactions_par_mois"`
	TopRevendeursSolde       []TopRevendeurSolde       `json:"top_revendeurs_solde"`
	TopRevendeursTransaction []TopRevendeurTransaction `json:"top_revendeurs_transaction"`
	TopRevendeursClients     []TopRevendeurClient      `json:"top_revendeurs_clients"`
}

// MonthlyBucket aggregates transaction volume for one calendar month
type MonthlyBucket struct {
	Mois      string  `json:"mois"`
	Paiements float64 `json:"paiements"`
	Retraits  float64 `json:"retraits"`
}

// TopRevendeurSolde ranks resellers by available balance
type TopRevendeurSolde struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Solde float64 `json:"solde"`
}

// TopRevendeurTransaction ranks resellers by transaction volume
type TopRevendeurTransaction struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	TransactionsCount int64  `json:"transactions_count"`
}

// TopRevendeurClient ranks resellers by affiliated client count
type TopRevendeurClient struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ClientsCount int64  `json:"clients_count"`
}

// Stats assembles the full dashboard
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ClientsParStatut:      make(map[string]int64),
		TransactionsParStatut: make(map[string]int64),
	}

	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Client{}).Count(&stats.TotalClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", domain.RoleRevendeur, true).
		Count(&stats.TotalRevendeurs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Transaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}

	if err := s.countsByColumn(db, &models.Client{}, "statut_paiement", stats.ClientsParStatut); err != nil {
		return nil, err
	}
	for _, statut := range []string{domain.StatutNonPaye, domain.StatutPartiel, domain.StatutTotalPaye} {
		if _, ok := stats.ClientsParStatut[statut]; !ok {
			stats.ClientsParStatut[statut] = 0
		}
	}

	if err := s.countsByColumn(db, &models.Transaction{}, "statut", stats.TransactionsParStatut); err != nil {
		return nil, err
	}
	for _, statut := range []string{domain.TxEnAttente, domain.TxValide, domain.TxRefuse} {
		if _, ok := stats.TransactionsParStatut[statut]; !ok {
			stats.TransactionsParStatut[statut] = 0
		}
	}

	if err := db.Model(&models.Transaction{}).
		Where("type = ? AND statut = ?", domain.TxTypePaiement, domain.TxValide).
		Select("COALESCE(SUM(montant), 0)").
		Scan(&stats.TotalPaiementValide).Error; err != nil {
		return nil, err
	}
	stats.TotalCommission = s.cfg.Commission.Rate * stats.TotalPaiementValide

	if err := db.Model(&models.Transaction{}).
		Where("type = ? AND statut = ?", domain.TxTypeRetrait, domain.TxValide).
		Select("COALESCE(SUM(montant), 0)").
		Scan(&stats.TotalRetraitsValides).Error; err != nil {
		return nil, err
	}

	monthly, err := s.monthlyBuckets(db)
	if err != nil {
		return nil, err
	}
	stats.TransactionsParMois = monthly

	topSolde, err := s.topRevendeursBySolde(db)
	if err != nil {
		return nil, err
	}
	stats.TopRevendeursSolde = topSolde

	topTransactions, err := s.topRevendeursByTransactions(db)
	if err != nil {
		return nil, err
	}
	stats.TopRevendeursTransaction = topTransactions

	topClients, err := s.topRevendeursByClients(db)
	if err != nil {
		return nil, err
	}
	stats.TopRevendeursClients = topClients

	return stats, nil
}

func (s *DashboardService) countsByColumn(db *gorm.DB, model interface{}, column string, out map[string]int64) error {
	var rows []struct {
		Label string
		Total int64
	}
	err := db.Model(model).
		Select(column + " AS label, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		out[row.Label] = row.Total
	}
	return nil
}

// monthlyBuckets sums validated volume per calendar month over the
// last 12 months. Bucketing happens Go-side so the query stays
// portable between MySQL and the sqlite test database.
func (s *DashboardService) monthlyBuckets(db *gorm.DB) ([]MonthlyBucket, error) {
	since := time.Now().AddDate(0, -11, 0)
	since = time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.Local)

	var rows []struct {
		Type      string
		Montant   float64
		CreatedAt time.Time
	}
	err := db.Model(&models.Transaction{}).
		Select("type, montant, created_at").
		Where("statut = ?", domain.TxValide).
		Where("created_at >= ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthlyBucket)
	buckets := make([]MonthlyBucket, 0, 12)
	cursor := since
	for i := 0; i < 12; i++ {
		key := cursor.Format("2006-01")
		buckets = append(buckets, MonthlyBucket{Mois: key})
		byMonth[key] = &buckets[len(buckets)-1]
		cursor = cursor.AddDate(0, 1, 0)
	}

	for _, row := range rows {
		bucket, ok := byMonth[row.CreatedAt.Format("2006-01")]
		if !ok {
			continue
		}
		switch row.Type {
		case domain.TxTypePaiement:
			bucket.Paiements += row.Montant
		case domain.TxTypeRetrait:
			bucket.Retraits += row.Montant
		}
	}

	return buckets, nil
}

func (s *DashboardService) topRevendeursBySolde(db *gorm.DB) ([]TopRevendeurSolde, error) {
	type sumRow struct {
		RevendeurID uint
		Total       float64
	}

	var paiements []sumRow
	err := db.Model(&models.Transaction{}).
		Select("revendeur_id, COALESCE(SUM(montant), 0) AS total").
		Where("type = ? AND statut = ? AND revendeur_id IS NOT NULL", domain.TxTypePaiement, domain.TxValide).
		Group("revendeur_id").
		Scan(&paiements).Error
	if err != nil {
		return nil, err
	}

	var retraits []sumRow
	err = db.Model(&models.Transaction{}).
		Select("revendeur_id, COALESCE(SUM(montant), 0) AS total").
		Where("type = ? AND statut IN ? AND revendeur_id IS NOT NULL", domain.TxTypeRetrait, []string{domain.TxEnAttente, domain.TxValide}).
		Group("revendeur_id").
		Scan(&retraits).Error
	if err != nil {
		return nil, err
	}

	soldes := make(map[uint]float64)
	for _, row := range paiements {
		soldes[row.RevendeurID] = s.cfg.Commission.Rate * row.Total
	}
	for _, row := range retraits {
		soldes[row.RevendeurID] -= row.Total
	}

	ranking := make([]TopRevendeurSolde, 0, len(soldes))
	for id, solde := range soldes {
		ranking = append(ranking, TopRevendeurSolde{ID: id, Solde: solde})
	}
	sort.Slice(ranking, func(i, j int) bool { return ranking[i].Solde > ranking[j].Solde })
	if len(ranking) > 3 {
		ranking = ranking[:3]
	}

	ids := make([]uint, len(ranking))
	for i, row := range ranking {
		ids[i] = row.ID
	}
	names, err := s.userNames(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range ranking {
		ranking[i].Name = names[ranking[i].ID]
	}
	return ranking, nil
}

func (s *DashboardService) topRevendeursByTransactions(db *gorm.DB) ([]TopRevendeurTransaction, error) {
	var ranking []TopRevendeurTransaction
	err := db.Model(&models.Transaction{}).
		Select("revendeur_id AS id, COUNT(*) AS transactions_count").
		Where("revendeur_id IS NOT NULL").
		Group("revendeur_id").
		Order("transactions_count DESC").
		Limit(3).
		Scan(&ranking).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(ranking))
	for i, row := range ranking {
		ids[i] = row.ID
	}
	names, err := s.userNames(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range ranking {
		ranking[i].Name = names[ranking[i].ID]
	}
	return ranking, nil
}

func (s *DashboardService) topRevendeursByClients(db *gorm.DB) ([]TopRevendeurClient, error) {
	var ranking []TopRevendeurClient
	err := db.Model(&models.Client{}).
		Select("revendeur_id AS id, COUNT(*) AS clients_count").
		Where("revendeur_id IS NOT NULL").
		Group("revendeur_id").
		Order("clients_count DESC").
		Limit(3).
		Scan(&ranking).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(ranking))
	for i, row := range ranking {
		ids[i] = row.ID
	}
	names, err := s.userNames(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range ranking {
		ranking[i].Name = names[ranking[i].ID]
	}
	return ranking, nil
}

func (s *DashboardService) userNames(db *gorm.DB, ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
