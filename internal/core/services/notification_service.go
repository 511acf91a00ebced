package services

import (
	"context"
	"fmt"
	"log"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/adapters/persistence/repositories"
	"formafusion-partners/internal/core/domain"
)

// NotificationService handles in-app notifications. Delivery is
// best-effort: a failed notification never fails the operation that
// triggered it, it only logs.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListForUser lists a user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]*models.NotificationResponse, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, n.ToResponse())
	}
	return responses, nil
}

// CountUnread counts a user's unread notifications
func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkAllRead marks every notification of a user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// NotifyRetraitRequested tells every admin a withdrawal awaits decision
func (s *NotificationService) NotifyRetraitRequested(ctx context.Context, revendeurName string, montant float64) {
	msg := fmt.Sprintf("Nouvelle demande de retrait de %.2f Ar par %s.", montant, revendeurName)
	if err := s.notificationRepo.CreateForAdmins(ctx, msg); err != nil {
		log.Printf("⚠️ Failed to notify admins of withdrawal request: %v", err)
	}
}

// NotifyCommissionCreated tells the reseller their commission was
// opened after a client payment validation, and every admin that a
// commission transaction awaits decision
func (s *NotificationService) NotifyCommissionCreated(ctx context.Context, revendeurID uint, clientName string, montant float64) {
	msg := fmt.Sprintf("Paiement du client %s validé : votre commission de %.2f Ar est en attente.", clientName, montant)
	notification := &models.Notification{UserID: revendeurID, Message: msg}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("⚠️ Failed to notify reseller %d of commission: %v", revendeurID, err)
	}

	adminMsg := fmt.Sprintf("Paiement du client %s validé : commission de %.2f Ar en attente.", clientName, montant)
	if err := s.notificationRepo.CreateForAdmins(ctx, adminMsg); err != nil {
		log.Printf("⚠️ Failed to notify admins of commission: %v", err)
	}
}

// NotifyTransactionDecided tells the reseller their transaction was
// validated or refused
func (s *NotificationService) NotifyTransactionDecided(ctx context.Context, revendeurID uint, tx *models.Transaction) {
	label := "paiement"
	if tx.Type == domain.TxTypeRetrait {
		label = "retrait"
	}

	var msg string
	if tx.Statut == domain.TxValide {
		msg = fmt.Sprintf("Votre %s de %.2f Ar a été validé.", label, tx.Montant)
	} else {
		msg = fmt.Sprintf("Votre %s de %.2f Ar a été refusé.", label, tx.Montant)
		if tx.Note != "" {
			msg = fmt.Sprintf("%s Motif : %s", msg, tx.Note)
		}
	}

	notification := &models.Notification{UserID: revendeurID, Message: msg}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("⚠️ Failed to notify reseller %d of decision: %v", revendeurID, err)
	}
}

// NotifyClientAffilie tells a reseller a new client registered with
// their affiliation code
func (s *NotificationService) NotifyClientAffilie(ctx context.Context, revendeurID uint, clientName string) {
	msg := fmt.Sprintf("Nouveau client affilié : %s.", clientName)
	notification := &models.Notification{UserID: revendeurID, Message: msg}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("⚠️ Failed to notify reseller %d of new client: %v", revendeurID, err)
	}
}

// NotifyPendingReminder tells every admin how many transactions have
// been waiting too long (daily cron)
func (s *NotificationService) NotifyPendingReminder(ctx context.Context, count int, oldestHours float64) error {
	msg := fmt.Sprintf("Rappel : %d transaction(s) en attente depuis plus de 48h (la plus ancienne depuis %.0fh).", count, oldestHours)
	return s.notificationRepo.CreateForAdmins(ctx, msg)
}
