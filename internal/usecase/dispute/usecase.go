package usecase

import (
	"log/slog"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
	"github.com/gigvault/escrow-service/internal/infrastructure/metrics"
)

type DisputeUsecase interface {
	RaiseDispute(jobID string, idx int, actorID, reason, evidenceRef string) (*domain.Dispute, error)
	ResolveDispute(disputeID, winnerID, actorID string) error
	GetDisputeByID(disputeID string) (*domain.Dispute, error)
	GetJobDisputes(jobID string) ([]*domain.Dispute, error)
}

// ResolutionFinalizer is the milestone payout path used when the freelancer
// wins a dispute.
type ResolutionFinalizer interface {
	FinalizeFromResolution(jobID string, idx int, actorID string) error
}

type DisputeEventPublisher interface {
	PublishDispute(event publisher.DisputeEvent) error
}

type DefaultDisputeUsecase struct {
	disputeRepo domain.DisputeRepository
	jobRepo     domain.JobRepository
	eventRepo   domain.EventRepository
	settings    domain.SettingsProvider
	finalizer   ResolutionFinalizer
	publisher   DisputeEventPublisher
	metrics     *metrics.EscrowMetrics
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	jobRepo domain.JobRepository,
	eventRepo domain.EventRepository,
	settings domain.SettingsProvider,
	finalizer ResolutionFinalizer,
	pub DisputeEventPublisher,
	m *metrics.EscrowMetrics,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		disputeRepo: disputeRepo,
		jobRepo:     jobRepo,
		eventRepo:   eventRepo,
		settings:    settings,
		finalizer:   finalizer,
		publisher:   pub,
		metrics:     m,
	}
}

func (disputeUc *DefaultDisputeUsecase) appendEvent(event *domain.EscrowEvent) {
	if err := disputeUc.eventRepo.Append(event); err != nil {
		slog.Error("failed to append escrow event", "job_id", event.JobID, "event_type", event.EventType, "error", err.Error())
	}
}

func (disputeUc *DefaultDisputeUsecase) publishDisputeEvent(event publisher.DisputeEvent) {
	go func(event publisher.DisputeEvent) {
		if err := disputeUc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish kafka DisputeEvent", "dispute_id", event.DisputeID, "error", err.Error())
		}
	}(event)
}
