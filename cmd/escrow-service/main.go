package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gigvault/escrow-service/internal/app/background"
	"github.com/gigvault/escrow-service/internal/config"
	"github.com/gigvault/escrow-service/internal/delivery/http/handlers"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
	"github.com/gigvault/escrow-service/internal/infrastructure/ledger"
	"github.com/gigvault/escrow-service/internal/infrastructure/metrics"
	"github.com/gigvault/escrow-service/internal/infrastructure/migrate"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/repository"
	adminuc "github.com/gigvault/escrow-service/internal/usecase/admin"
	automationuc "github.com/gigvault/escrow-service/internal/usecase/automation"
	disputeuc "github.com/gigvault/escrow-service/internal/usecase/dispute"
	jobuc "github.com/gigvault/escrow-service/internal/usecase/job"
	milestoneuc "github.com/gigvault/escrow-service/internal/usecase/milestone"
	verifieruc "github.com/gigvault/escrow-service/internal/usecase/verifier"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.Migrations.Enabled {
		if err := migrate.RunMigrations(db, cfg.Migrations.Path); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init repos
	jobRepo := repository.NewDefaultJobRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	verifierRepo := repository.NewDefaultVerifierRepository(db)
	automationRepo := repository.NewDefaultAutomationConfigRepository(db)
	eventRepo := repository.NewDefaultEventRepository(db)
	settingsRepo := repository.NewDefaultSettingsRepository(db)

	// Metrics registry backs every usecase and the ledger client
	escrowMetrics := metrics.NewEscrowMetrics()

	// Admin usecase first: it is the settings provider for the rest
	adminUsecase, err := adminuc.NewDefaultAdminUsecase(settingsRepo)
	if err != nil {
		log.Fatalf("failed to init platform settings: %v", err)
	}

	// Init ledger client
	ledgerAddr := fmt.Sprintf("http://%s:%s", cfg.LedgerService.Host, cfg.LedgerService.Port)
	ledgerClient := ledger.NewHTTPLedgerClient(ledgerAddr, cfg.LedgerService.Timeout, escrowMetrics.LedgerRetriesTotal)

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	escrowPublisher := publisher.NewEscrowPublisher(brokers, cfg.KafkaService.MilestoneTopic, cfg.KafkaService.DisputeTopic)

	// Init usecases
	jobUsecase := jobuc.NewDefaultJobUsecase(
		jobRepo, automationRepo, eventRepo, ledgerClient, adminUsecase,
		escrowPublisher, escrowMetrics, cfg.LedgerService.Timeout,
	)
	milestoneUsecase := milestoneuc.NewDefaultMilestoneUsecase(
		jobRepo, disputeRepo, verifierRepo, automationRepo, eventRepo,
		ledgerClient, adminUsecase, escrowPublisher, escrowMetrics,
		cfg.Platform.AccountID, cfg.LedgerService.Timeout,
	)
	disputeUsecase := disputeuc.NewDefaultDisputeUsecase(
		disputeRepo, jobRepo, eventRepo, adminUsecase, milestoneUsecase,
		escrowPublisher, escrowMetrics,
	)
	verifierUsecase := verifieruc.NewDefaultVerifierUsecase(verifierRepo)
	automationUsecase := automationuc.NewDefaultAutomationUsecase(
		jobRepo, automationRepo, adminUsecase, milestoneUsecase,
		escrowMetrics, cfg.Scheduler.BatchSize,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background auto-approval scheduler
	backgroundTasks := background.NewBackgroundTasks(automationUsecase, cfg.Scheduler.Interval)
	backgroundTasks.StartAll(ctx)

	// HTTP API
	mux := handlers.NewRouter(
		handlers.NewJobHandler(jobUsecase),
		handlers.NewMilestoneHandler(milestoneUsecase),
		handlers.NewDisputeHandler(disputeUsecase),
		handlers.NewVerifierHandler(verifierUsecase),
		handlers.NewAdminHandler(adminUsecase),
		handlers.NewAutomationHandler(automationUsecase),
	)

	httpAddr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	server := &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Printf("escrow service listening on %s", httpAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http server failed: %v", err)
	}
}
