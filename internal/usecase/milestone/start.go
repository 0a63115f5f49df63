package usecase

import (
	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
)

func (uc *DefaultMilestoneUsecase) StartMilestone(jobID string, idx int, actorID string) error {
	if err := uc.guardNotPaused(); err != nil {
		return err
	}

	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return err
	}
	if actorID != job.FreelancerID {
		return domain.E(domain.KindUnauthorized, "only the freelancer may start a milestone")
	}
	if job.Status != domain.JobActive {
		return domain.E(domain.KindInvalidState, "job status is %s, expected ACTIVE", job.Status)
	}
	if !job.FundsDeposited {
		return domain.E(domain.KindInvalidState, "funds must be deposited before work starts")
	}

	milestone, err := uc.jobRepo.GetMilestone(jobID, idx)
	if err != nil {
		return err
	}
	if milestone.Status != domain.MilestonePending {
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, expected PENDING", idx, milestone.Status)
	}

	if err := uc.jobRepo.UpdateMilestoneStatus(jobID, idx, domain.MilestoneInProgress); err != nil {
		return err
	}

	uc.appendEvent(&domain.EscrowEvent{
		JobID:       job.ID,
		MilestoneID: milestone.ID,
		EventType:   domain.EventMilestoneStarted,
		ActorID:     actorID,
		Amount:      milestone.Amount,
	})
	uc.publishMilestoneEvent(publisher.MilestoneEvent{
		JobID:        job.ID,
		MilestoneID:  milestone.ID,
		MilestoneIdx: idx,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		EventType:    string(domain.EventMilestoneStarted),
		Amount:       milestone.Amount,
	})

	return nil
}
