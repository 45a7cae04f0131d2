package scheduler

import (
	"context"
	"log"

	"bract/internal/domain/notification"
	"bract/internal/domain/subscription"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// SyncJob runs the subscription sync across all users.
type SyncJob struct {
	service *subscription.SyncService
}

func NewSyncJob(service *subscription.SyncService) *SyncJob {
	return &SyncJob{service: service}
}

func (j *SyncJob) Name() string { return "subscription sync" }

func (j *SyncJob) Run(ctx context.Context) error {
	summary := j.service.Run(ctx)
	log.Printf("SyncJob: %d users, %d synced, %d new, %d errors",
		summary.TotalUsersProcessed, summary.TotalSubscriptionsSynced, summary.TotalNewSubscriptions, len(summary.Errors))
	for _, errMsg := range summary.Errors {
		log.Printf("SyncJob: %s", errMsg)
	}
	return nil
}

// DispatchJob runs the reminder dispatch across all users.
type DispatchJob struct {
	service *notification.DispatchService
}

func NewDispatchJob(service *notification.DispatchService) *DispatchJob {
	return &DispatchJob{service: service}
}

func (j *DispatchJob) Name() string { return "reminder dispatch" }

func (j *DispatchJob) Run(ctx context.Context) error {
	summary := j.service.Run(ctx)
	log.Printf("DispatchJob: %d users, %d emails, %d errors",
		summary.TotalUsersProcessed, summary.TotalEmailsSent, len(summary.Errors))
	for _, errMsg := range summary.Errors {
		log.Printf("DispatchJob: %s", errMsg)
	}
	return nil
}
