// Package app wires configuration, infrastructure, services, and handlers
// into one container shared by the Lambda entrypoints and the local server.
package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsses "github.com/aws/aws-sdk-go-v2/service/ses"

	"bract/internal/config"
	"bract/internal/domain/notification"
	"bract/internal/domain/subscription"
	"bract/internal/infrastructure/dynamo"
	"bract/internal/infrastructure/plaid"
	sesinfra "bract/internal/infrastructure/ses"
	handlers "bract/internal/interfaces/lambda"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Config *config.Config

	Institutions *dynamo.InstitutionRepository
	Accounts     *dynamo.AccountRepository
	Reminders    *dynamo.ReminderRepository

	PlaidClient *plaid.Client

	SyncService     *subscription.SyncService
	DispatchService *notification.DispatchService

	LinkHandler     *handlers.LinkHandler
	ReminderHandler *handlers.ReminderHandler
	JobHandler      *handlers.JobHandler
}

// NewDependencies initializes all application dependencies in order:
// AWS clients, repositories, domain services, handlers.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	store := dynamo.New(dynamodb.NewFromConfig(awsCfg))
	institutions := dynamo.NewInstitutionRepository(store, cfg.Tables.Institutions)
	accounts := dynamo.NewAccountRepository(store, cfg.Tables.Accounts)
	reminders := dynamo.NewReminderRepository(store, cfg.Tables.Reminders)

	plaidClient := plaid.NewClient(cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Environment)

	sesClient := awsses.NewFromConfig(awsCfg, func(o *awsses.Options) {
		o.Region = cfg.Email.Region
	})
	sender := sesinfra.NewSender(sesClient, cfg.Email.FromAddress)

	syncService := subscription.NewSyncService(plaidClient, institutions, reminders)
	dispatchService := notification.NewDispatchService(reminders, notification.PlaceholderResolver{}, sender)

	return &Dependencies{
		Config:          cfg,
		Institutions:    institutions,
		Accounts:        accounts,
		Reminders:       reminders,
		PlaidClient:     plaidClient,
		SyncService:     syncService,
		DispatchService: dispatchService,
		LinkHandler:     handlers.NewLinkHandler(plaidClient, institutions, accounts, cfg.CORS.AllowedOrigin),
		ReminderHandler: handlers.NewReminderHandler(reminders, cfg.CORS.AllowedOrigin),
		JobHandler:      handlers.NewJobHandler(syncService, dispatchService),
	}, nil
}
