package usecase

import (
	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
)

// CancelJob lets the client walk away before any work started. Deposited
// funds stay escrowed for client withdrawal; no fee is charged.
func (uc *DefaultJobUsecase) CancelJob(jobID, actorID string) error {
	if err := uc.guardNotPaused(); err != nil {
		return err
	}

	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return err
	}
	if actorID != job.ClientID {
		return domain.E(domain.KindUnauthorized, "only the client may cancel the job")
	}
	if job.Status != domain.JobActive {
		return domain.E(domain.KindInvalidState, "cannot cancel job with status %s", job.Status)
	}
	for i := range job.Milestones {
		if job.Milestones[i].Status != domain.MilestonePending {
			return domain.E(domain.KindInvalidState, "milestone %d already started, job can only be cancelled while all milestones are pending", job.Milestones[i].Idx)
		}
	}

	if err := uc.jobRepo.CancelPendingMilestones(jobID); err != nil {
		return err
	}
	if err := uc.jobRepo.UpdateJobStatus(jobID, domain.JobCancelled); err != nil {
		return err
	}

	uc.appendEvent(&domain.EscrowEvent{
		JobID:     job.ID,
		EventType: domain.EventJobCancelled,
		ActorID:   actorID,
	})
	uc.publishMilestoneEvent(publisher.MilestoneEvent{
		JobID:        job.ID,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		EventType:    string(domain.EventJobCancelled),
	})
	if uc.metrics != nil {
		uc.metrics.JobsCancelledTotal.Inc()
	}

	return nil
}
