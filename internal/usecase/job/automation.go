package usecase

import (
	"fmt"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
)

type UpdateAutomationInput struct {
	Enabled           bool
	PollInterval      time.Duration
	AutoApprovalDelay time.Duration
	MinQualityScore   int
}

// UpdateAutomationConfig lets either job party change the automation knobs
// of an ACTIVE job. A job created without automation gets a config on first
// update. The same floors CreateJob applies hold here: the poll interval is
// clamped and an explicit delay below the minimum is rejected.
func (uc *DefaultJobUsecase) UpdateAutomationConfig(jobID, actorID string, input *UpdateAutomationInput) (*domain.AutomationConfig, error) {
	if err := uc.guardNotPaused(); err != nil {
		return nil, err
	}
	settings, err := uc.settings.Current()
	if err != nil {
		return nil, err
	}

	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsParty(actorID) {
		return nil, domain.E(domain.KindUnauthorized, "only the client or freelancer may change automation")
	}
	if job.Status != domain.JobActive {
		return nil, domain.E(domain.KindInvalidState, "job status is %s, expected ACTIVE", job.Status)
	}

	pollInterval := input.PollInterval
	if pollInterval < domain.MinSchedulerInterval {
		pollInterval = domain.MinSchedulerInterval
	}
	autoDelay := input.AutoApprovalDelay
	if autoDelay == 0 {
		autoDelay = settings.AutoApprovalDelay
	}
	if autoDelay < domain.MinAutoApprovalDelay {
		return nil, domain.E(domain.KindInvalidArgument, "auto-approval delay below minimum %s", domain.MinAutoApprovalDelay)
	}
	if input.MinQualityScore < 0 || input.MinQualityScore > 100 {
		return nil, domain.E(domain.KindInvalidArgument, "minimum quality score out of range: %d", input.MinQualityScore)
	}

	cfg := &domain.AutomationConfig{
		JobID:             jobID,
		Enabled:           input.Enabled,
		PollInterval:      pollInterval,
		AutoApprovalDelay: autoDelay,
		MinQualityScore:   input.MinQualityScore,
	}

	_, err = uc.automationRepo.GetConfigByJobID(jobID)
	switch {
	case err == nil:
		if err := uc.automationRepo.UpdateConfig(cfg); err != nil {
			return nil, err
		}
	case domain.KindOf(err) == domain.KindNotFound:
		if err := uc.automationRepo.CreateConfig(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	uc.appendEvent(&domain.EscrowEvent{
		JobID:     jobID,
		EventType: domain.EventAutomationUpdated,
		ActorID:   actorID,
		Detail:    fmt.Sprintf("enabled=%t delay=%s", cfg.Enabled, cfg.AutoApprovalDelay),
	})

	return cfg, nil
}
