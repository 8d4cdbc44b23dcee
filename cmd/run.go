package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"meltyfi/application"
	"meltyfi/config"
	"meltyfi/database"
	"meltyfi/domain/interfaces"
	"meltyfi/infrastructure"
	"meltyfi/repository"
)

// Run initializes and starts the lottery engine
func Run(ctx context.Context) error {
	log.Println("Starting lottery engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS
	log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := natsClient.EnsureLotteryEventStream(); err != nil {
		natsClient.Close()
		db.Close()
		return fmt.Errorf("failed to ensure lottery event stream: %w", err)
	}
	log.Println("NATS connection established successfully")

	// Initialize event publishing
	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventPublisher)

	// Initialize collaborators
	custodian := infrastructure.NewNATSPrizeCustodian(natsClient)
	minter := infrastructure.NewNATSChocoChipMinter(natsClient)
	gateway := infrastructure.NewNATSPaymentGateway(natsClient)
	// Local oracle fulfills shortly after the request, so draws complete on a
	// later worker tick the same way an external oracle would deliver
	randomness := infrastructure.NewLocalRandomnessSource(30 * time.Second)

	settings := interfaces.LotterySettings{
		RoyaltyPercent: cfg.RoyaltyPercent,
		LimitPercent:   cfg.LimitPercent,
		MaxSupplyCap:   cfg.MaxSupplyCap,
		ChocoChipRate:  cfg.ChocoChipRate,
		Treasury:       cfg.TreasuryAddress,
		Vault:          cfg.VaultAddress,
	}

	app := application.NewLotteryApp(uowFactory, settings, custodian, minter, gateway, randomness)

	// Start the expiry worker
	worker := application.NewExpiryWorker(app, cfg.ScanInterval)
	stopWorker := worker.Start(ctx)

	// Wait for context cancellation
	log.Printf("Lottery engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down lottery engine...")
	stopWorker()

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
