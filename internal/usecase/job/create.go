package usecase

import (
	"log/slog"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

func (uc *DefaultJobUsecase) CreateJob(input *CreateJobInput) (*domain.Job, error) {
	if err := uc.guardNotPaused(); err != nil {
		return nil, err
	}
	settings, err := uc.settings.Current()
	if err != nil {
		return nil, err
	}

	if input.ClientID == "" || input.FreelancerID == "" {
		return nil, domain.E(domain.KindInvalidArgument, "client and freelancer identities are required")
	}
	if input.ClientID == input.FreelancerID {
		return nil, domain.E(domain.KindInvalidArgument, "client and freelancer must differ")
	}
	if input.LedgerAccountID == "" {
		return nil, domain.E(domain.KindInvalidArgument, "ledger account reference is required")
	}
	if len(input.Milestones) == 0 {
		return nil, domain.E(domain.KindInvalidArgument, "at least one milestone is required")
	}

	now := time.Now()
	var totalAmount int64
	milestones := make([]domain.Milestone, 0, len(input.Milestones))
	for i, spec := range input.Milestones {
		if spec.Amount <= 0 {
			return nil, domain.E(domain.KindInvalidArgument, "milestone %d amount must be positive, got %d", i, spec.Amount)
		}
		if !spec.Deadline.After(now) {
			return nil, domain.E(domain.KindInvalidArgument, "milestone %d deadline must be in the future", i)
		}
		switch spec.VerificationMethod {
		case domain.VerifyClientOnly, domain.VerifyOracleOnly, domain.VerifyHybrid, domain.VerifyOffchainVerifier:
		default:
			return nil, domain.E(domain.KindInvalidArgument, "milestone %d has unknown verification method %q", i, spec.VerificationMethod)
		}
		if !spec.VerificationPolicy.Valid() {
			return nil, domain.E(domain.KindInvalidArgument, "milestone %d verification policy is malformed", i)
		}

		delay := spec.AutoApprovalDelay
		if delay == 0 {
			delay = settings.AutoApprovalDelay
		}
		if input.Automation != nil && spec.AutoApprovalDelay == 0 && input.Automation.AutoApprovalDelay > 0 {
			delay = input.Automation.AutoApprovalDelay
		}
		if delay < domain.MinAutoApprovalDelay {
			return nil, domain.E(domain.KindInvalidArgument, "milestone %d auto-approval delay below minimum %s", i, domain.MinAutoApprovalDelay)
		}

		totalAmount += spec.Amount
		milestones = append(milestones, domain.Milestone{
			ID:                 uuid.New().String(),
			Idx:                i,
			Description:        spec.Description,
			Amount:             spec.Amount,
			Deadline:           spec.Deadline,
			Status:             domain.MilestonePending,
			VerificationMethod: spec.VerificationMethod,
			VerificationPolicy: spec.VerificationPolicy,
			AutoApprovalDelay:  delay,
		})
	}

	job := &domain.Job{
		ID:              uuid.New().String(),
		ClientID:        input.ClientID,
		FreelancerID:    input.FreelancerID,
		LedgerAccountID: input.LedgerAccountID,
		TotalAmount:     totalAmount,
		FeeBps:          settings.FeeBps,
		Status:          domain.JobActive,
		DisputeDeadline: now.Add(settings.DisputeWindow),
		Milestones:      milestones,
	}
	for i := range job.Milestones {
		job.Milestones[i].JobID = job.ID
	}

	if err := uc.jobRepo.CreateJob(job); err != nil {
		return nil, err
	}

	if input.Automation != nil {
		pollInterval := input.Automation.PollInterval
		if pollInterval < domain.MinSchedulerInterval {
			pollInterval = domain.MinSchedulerInterval
		}
		autoDelay := input.Automation.AutoApprovalDelay
		if autoDelay == 0 {
			autoDelay = settings.AutoApprovalDelay
		}
		cfg := &domain.AutomationConfig{
			JobID:             job.ID,
			Enabled:           true,
			PollInterval:      pollInterval,
			AutoApprovalDelay: autoDelay,
			MinQualityScore:   input.Automation.MinQualityScore,
		}
		if err := uc.automationRepo.CreateConfig(cfg); err != nil {
			return nil, err
		}
	}

	uc.appendEvent(&domain.EscrowEvent{
		JobID:     job.ID,
		EventType: domain.EventJobCreated,
		ActorID:   input.ClientID,
		Amount:    totalAmount,
	})
	uc.publishMilestoneEvent(publisher.MilestoneEvent{
		JobID:        job.ID,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		EventType:    string(domain.EventJobCreated),
		Amount:       totalAmount,
	})
	if uc.metrics != nil {
		uc.metrics.JobsCreatedTotal.Inc()
	}

	return job, nil
}

func (uc *DefaultJobUsecase) appendEvent(event *domain.EscrowEvent) {
	if err := uc.eventRepo.Append(event); err != nil {
		slog.Error("failed to append escrow event", "job_id", event.JobID, "event_type", event.EventType, "error", err.Error())
	}
}

func (uc *DefaultJobUsecase) publishMilestoneEvent(event publisher.MilestoneEvent) {
	go func(event publisher.MilestoneEvent) {
		if err := uc.publisher.PublishMilestone(event); err != nil {
			slog.Error("failed to publish kafka MilestoneEvent", "job_id", event.JobID, "event_type", event.EventType, "error", err.Error())
		}
	}(event)
}
