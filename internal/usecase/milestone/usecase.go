package usecase

import (
	"log/slog"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
	"github.com/gigvault/escrow-service/internal/infrastructure/metrics"
)

type MilestoneUsecase interface {
	StartMilestone(jobID string, idx int, actorID string) error
	SubmitMilestone(jobID string, idx int, actorID, submissionRef string) error
	ApproveMilestone(jobID string, idx int, actorID string) error
	VerifierApprove(jobID string, idx int, verifierID string, report domain.VerifierReport) error
	// AutoApprove reports whether it finalized the milestone. Stale
	// invocations (already completed, disputed) are no-ops, not errors.
	AutoApprove(jobID string, idx int) (bool, error)
	GetMilestone(jobID string, idx int) (*domain.Milestone, error)
}

type EventPublisher interface {
	PublishMilestone(event publisher.MilestoneEvent) error
}

type DefaultMilestoneUsecase struct {
	jobRepo        domain.JobRepository
	disputeRepo    domain.DisputeRepository
	verifierRepo   domain.VerifierRepository
	automationRepo domain.AutomationConfigRepository
	eventRepo      domain.EventRepository
	ledger         domain.LedgerPort
	settings       domain.SettingsProvider
	publisher      EventPublisher
	metrics        *metrics.EscrowMetrics

	platformAccountID string
	ledgerTimeout     time.Duration
}

func NewDefaultMilestoneUsecase(
	jobRepo domain.JobRepository,
	disputeRepo domain.DisputeRepository,
	verifierRepo domain.VerifierRepository,
	automationRepo domain.AutomationConfigRepository,
	eventRepo domain.EventRepository,
	ledger domain.LedgerPort,
	settings domain.SettingsProvider,
	pub EventPublisher,
	m *metrics.EscrowMetrics,
	platformAccountID string,
	ledgerTimeout time.Duration,
) *DefaultMilestoneUsecase {
	return &DefaultMilestoneUsecase{
		jobRepo:           jobRepo,
		disputeRepo:       disputeRepo,
		verifierRepo:      verifierRepo,
		automationRepo:    automationRepo,
		eventRepo:         eventRepo,
		ledger:            ledger,
		settings:          settings,
		publisher:         pub,
		metrics:           m,
		platformAccountID: platformAccountID,
		ledgerTimeout:     ledgerTimeout,
	}
}

func (uc *DefaultMilestoneUsecase) GetMilestone(jobID string, idx int) (*domain.Milestone, error) {
	return uc.jobRepo.GetMilestone(jobID, idx)
}

func (uc *DefaultMilestoneUsecase) guardNotPaused() error {
	settings, err := uc.settings.Current()
	if err != nil {
		return err
	}
	if settings.Paused {
		return domain.ErrEnginePaused
	}
	return nil
}

func (uc *DefaultMilestoneUsecase) appendEvent(event *domain.EscrowEvent) {
	if err := uc.eventRepo.Append(event); err != nil {
		slog.Error("failed to append escrow event", "job_id", event.JobID, "event_type", event.EventType, "error", err.Error())
	}
}

func (uc *DefaultMilestoneUsecase) publishMilestoneEvent(event publisher.MilestoneEvent) {
	go func(event publisher.MilestoneEvent) {
		if err := uc.publisher.PublishMilestone(event); err != nil {
			slog.Error("failed to publish kafka MilestoneEvent", "job_id", event.JobID, "event_type", event.EventType, "error", err.Error())
		}
	}(event)
}
