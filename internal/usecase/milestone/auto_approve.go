package usecase

import (
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
)

// AutoApprove is the scheduler's finalize path. It re-validates everything
// the scan saw, because the milestone may have been approved or disputed
// between scan and execute: stale candidates degrade to the (false, nil)
// no-op instead of erroring the batch.
func (uc *DefaultMilestoneUsecase) AutoApprove(jobID string, idx int) (bool, error) {
	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return false, err
	}
	if job.Status != domain.JobActive {
		return false, nil
	}

	milestone, err := uc.jobRepo.GetMilestone(jobID, idx)
	if err != nil {
		return false, err
	}
	if milestone.Settled() || milestone.Status == domain.MilestoneDisputed {
		return false, nil
	}
	if milestone.Status != domain.MilestoneSubmitted || !milestone.PendingAutoApproval {
		return false, nil
	}

	eligible, err := uc.autoApprovalEligible(milestone)
	if err != nil {
		return false, err
	}
	if !eligible {
		return false, nil
	}
	if !milestone.AutoApprovalDue(time.Now()) {
		return false, nil
	}

	dispute, err := uc.disputeRepo.GetActiveDispute(milestone.ID)
	if err != nil {
		return false, err
	}
	if dispute != nil {
		return false, nil
	}

	err = uc.finalize(job, milestone, domain.SourceAutoApproval, "scheduler")
	if domain.IsAlreadyProcessed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (uc *DefaultMilestoneUsecase) autoApprovalEligible(milestone *domain.Milestone) (bool, error) {
	switch milestone.VerificationMethod {
	case domain.VerifyOracleOnly, domain.VerifyHybrid:
		return true, nil
	case domain.VerifyClientOnly:
		cfg, err := uc.automationRepo.GetConfigByJobID(milestone.JobID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				return false, nil
			}
			return false, err
		}
		return cfg.Enabled, nil
	}
	return false, nil
}
