package usecase

import (
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
)

// SubmitMilestone records the deliverable reference. A missed deadline is
// recorded on the event, not enforced as a block: late delivery is still
// payable unless the client disputes it.
func (uc *DefaultMilestoneUsecase) SubmitMilestone(jobID string, idx int, actorID, submissionRef string) error {
	if err := uc.guardNotPaused(); err != nil {
		return err
	}
	if submissionRef == "" {
		return domain.E(domain.KindInvalidArgument, "submission reference is required")
	}

	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return err
	}
	if actorID != job.FreelancerID {
		return domain.E(domain.KindUnauthorized, "only the freelancer may submit a milestone")
	}
	if job.Status != domain.JobActive {
		return domain.E(domain.KindInvalidState, "job status is %s, expected ACTIVE", job.Status)
	}

	milestone, err := uc.jobRepo.GetMilestone(jobID, idx)
	if err != nil {
		return err
	}
	if milestone.Status != domain.MilestoneInProgress {
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, expected IN_PROGRESS", idx, milestone.Status)
	}

	now := time.Now()
	pendingAuto, err := uc.schedulerEligible(milestone)
	if err != nil {
		return err
	}

	if err := uc.jobRepo.SetMilestoneSubmitted(jobID, idx, submissionRef, now, pendingAuto); err != nil {
		return err
	}

	detail := ""
	if now.After(milestone.Deadline) {
		detail = "deadline missed"
	}
	uc.appendEvent(&domain.EscrowEvent{
		JobID:       job.ID,
		MilestoneID: milestone.ID,
		EventType:   domain.EventMilestoneSubmitted,
		ActorID:     actorID,
		Amount:      milestone.Amount,
		Detail:      detail,
	})
	uc.publishMilestoneEvent(publisher.MilestoneEvent{
		JobID:        job.ID,
		MilestoneID:  milestone.ID,
		MilestoneIdx: idx,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		EventType:    string(domain.EventMilestoneSubmitted),
		Amount:       milestone.Amount,
		Detail:       detail,
	})

	return nil
}

// schedulerEligible decides whether submission flags the milestone for the
// auto-approval scheduler. Oracle and hybrid milestones always are; client-only
// milestones only when the job opted into automation.
func (uc *DefaultMilestoneUsecase) schedulerEligible(milestone *domain.Milestone) (bool, error) {
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
