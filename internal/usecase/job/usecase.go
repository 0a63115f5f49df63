package usecase

import (
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
	"github.com/gigvault/escrow-service/internal/infrastructure/metrics"
)

type MilestoneSpec struct {
	Description        string
	Amount             int64
	Deadline           time.Time
	VerificationMethod domain.VerificationMethod
	VerificationPolicy domain.VerificationPolicy
	AutoApprovalDelay  time.Duration
}

type AutomationSpec struct {
	PollInterval      time.Duration
	AutoApprovalDelay time.Duration
	MinQualityScore   int
}

type CreateJobInput struct {
	ClientID        string
	FreelancerID    string
	LedgerAccountID string
	Milestones      []MilestoneSpec
	// Automation opts a ClientOnly job into time-based approval.
	Automation *AutomationSpec
}

type JobUsecase interface {
	CreateJob(input *CreateJobInput) (*domain.Job, error)
	DepositFunds(jobID, actorID string) error
	CancelJob(jobID, actorID string) error
	UpdateAutomationConfig(jobID, actorID string, input *UpdateAutomationInput) (*domain.AutomationConfig, error)
	GetJobByID(jobID string) (*domain.Job, error)
	GetJobsByParty(partyID string, page, limit int64) ([]*domain.Job, int64, error)
	GetJobEvents(jobID string, limit int) ([]*domain.EscrowEvent, error)
}

type EventPublisher interface {
	PublishMilestone(event publisher.MilestoneEvent) error
}

type DefaultJobUsecase struct {
	jobRepo        domain.JobRepository
	automationRepo domain.AutomationConfigRepository
	eventRepo      domain.EventRepository
	ledger         domain.LedgerPort
	settings       domain.SettingsProvider
	publisher      EventPublisher
	metrics        *metrics.EscrowMetrics

	ledgerTimeout time.Duration
}

func NewDefaultJobUsecase(
	jobRepo domain.JobRepository,
	automationRepo domain.AutomationConfigRepository,
	eventRepo domain.EventRepository,
	ledger domain.LedgerPort,
	settings domain.SettingsProvider,
	pub EventPublisher,
	m *metrics.EscrowMetrics,
	ledgerTimeout time.Duration,
) *DefaultJobUsecase {
	return &DefaultJobUsecase{
		jobRepo:        jobRepo,
		automationRepo: automationRepo,
		eventRepo:      eventRepo,
		ledger:         ledger,
		settings:       settings,
		publisher:      pub,
		metrics:        m,
		ledgerTimeout:  ledgerTimeout,
	}
}

func (uc *DefaultJobUsecase) guardNotPaused() error {
	settings, err := uc.settings.Current()
	if err != nil {
		return err
	}
	if settings.Paused {
		return domain.ErrEnginePaused
	}
	return nil
}
