package services

import (
	"context"
	"log"
	"time"

	"formafusion-partners/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

const pendingReminderHours = 48

// CronService runs the scheduled jobs: the daily reminder for stale
// pending transactions and refresh token cleanup.
type CronService struct {
	cron             *cron.Cron
	transactionRepo  repositories.TransactionRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notifications    *NotificationService
}

// NewCronService creates a new cron service
func NewCronService(
	transactionRepo repositories.TransactionRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notifications *NotificationService,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		transactionRepo:  transactionRepo,
		refreshTokenRepo: refreshTokenRepo,
		notifications:    notifications,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Daily at 08:30: remind admins of transactions pending too long
	if _, err := s.cron.AddFunc("30 8 * * *", s.RunPendingReminder); err != nil {
		return err
	}

	// Nightly at 03:00: purge expired refresh tokens
	if _, err := s.cron.AddFunc("0 3 * * *", s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron jobs scheduled")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron jobs stopped")
}

// RunPendingReminder notifies admins about en_attente transactions
// older than 48h. Exported so it can be triggered outside the schedule.
func (s *CronService) RunPendingReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pending, err := s.transactionRepo.ListPendingOlderThan(ctx, pendingReminderHours)
	if err != nil {
		log.Printf("⚠️ Pending reminder failed: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	oldest := time.Since(pending[0].CreatedAt).Hours()
	if err := s.notifications.NotifyPendingReminder(ctx, len(pending), oldest); err != nil {
		log.Printf("⚠️ Pending reminder notification failed: %v", err)
		return
	}

	log.Printf("✅ Pending reminder sent: %d transaction(s) waiting", len(pending))
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Refresh token cleanup failed: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
