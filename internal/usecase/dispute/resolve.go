package usecase

import (
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
)

// ResolveDispute records the resolver's ruling. Freelancer win pays out via
// the regular finalize path; client win cancels the milestone and leaves the
// escrowed amount refundable. Either way the job returns to ACTIVE and the
// whole-job completion check reruns.
func (disputeUc *DefaultDisputeUsecase) ResolveDispute(disputeID, winnerID, actorID string) error {
	settings, err := disputeUc.settings.Current()
	if err != nil {
		return err
	}
	if settings.Paused {
		return domain.ErrEnginePaused
	}
	if !settings.IsResolver(actorID) {
		return domain.E(domain.KindUnauthorized, "actor %s is not an authorized dispute resolver", actorID)
	}

	dispute, err := disputeUc.disputeRepo.GetDisputeByID(disputeID)
	if err != nil {
		return err
	}
	if dispute.Resolved {
		return domain.E(domain.KindAlreadyProcessed, "dispute %s already resolved in favor of %s", disputeID, dispute.WinnerID)
	}

	job, err := disputeUc.jobRepo.GetJobByID(dispute.JobID)
	if err != nil {
		return err
	}
	if winnerID != job.ClientID && winnerID != job.FreelancerID {
		return domain.E(domain.KindInvalidArgument, "winner must be the job's client or freelancer")
	}

	var milestone *domain.Milestone
	for i := range job.Milestones {
		if job.Milestones[i].ID == dispute.MilestoneID {
			milestone = &job.Milestones[i]
			break
		}
	}
	if milestone == nil {
		return domain.E(domain.KindNotFound, "milestone %s not found on job %s", dispute.MilestoneID, dispute.JobID)
	}

	wantStatus := domain.MilestoneCancelled
	var transitionErr error
	if winnerID == job.FreelancerID {
		wantStatus = domain.MilestoneCompleted
		transitionErr = disputeUc.finalizer.FinalizeFromResolution(job.ID, milestone.Idx, actorID)
	} else {
		transitionErr = disputeUc.jobRepo.ResolveCancelMilestone(job.ID, milestone.Idx)
	}
	if transitionErr != nil {
		if !domain.IsAlreadyProcessed(transitionErr) {
			return transitionErr
		}
		// A prior attempt moved the milestone but failed before marking the
		// dispute resolved. Proceed to the bookkeeping only when the settled
		// status matches this ruling, so a retry cannot flip the outcome.
		current, err := disputeUc.jobRepo.GetMilestone(job.ID, milestone.Idx)
		if err != nil {
			return err
		}
		if current.Status != wantStatus {
			return domain.E(domain.KindInvalidState, "milestone %d already settled as %s, cannot resolve for %s", milestone.Idx, current.Status, winnerID)
		}
	}

	now := time.Now()
	if err := disputeUc.disputeRepo.MarkResolved(disputeID, winnerID, now); err != nil {
		return err
	}
	if err := disputeUc.jobRepo.UpdateJobStatus(job.ID, domain.JobActive); err != nil {
		return err
	}

	winnerSide := "client"
	if winnerID == job.FreelancerID {
		winnerSide = "freelancer"
	}
	disputeUc.appendEvent(&domain.EscrowEvent{
		JobID:          job.ID,
		MilestoneID:    milestone.ID,
		EventType:      domain.EventDisputeResolved,
		FinalizeSource: domain.SourceDisputeResolution,
		ActorID:        actorID,
		Amount:         milestone.Amount,
		Detail:         "winner: " + winnerSide,
	})
	disputeUc.publishDisputeEvent(publisher.DisputeEvent{
		DisputeID:    disputeID,
		JobID:        job.ID,
		MilestoneID:  milestone.ID,
		MilestoneIdx: milestone.Idx,
		InitiatorID:  dispute.InitiatorID,
		WinnerID:     winnerID,
		Reason:       dispute.Reason,
		Status:       string(domain.EventDisputeResolved),
	})
	if disputeUc.metrics != nil {
		disputeUc.metrics.DisputesResolvedTotal.WithLabelValues(winnerSide).Inc()
	}

	disputeUc.checkJobCompletion(job)
	return nil
}

func (disputeUc *DefaultDisputeUsecase) checkJobCompletion(job *domain.Job) {
	completed, err := disputeUc.jobRepo.CompleteJobIfSettled(job.ID)
	if err != nil || !completed {
		return
	}
	disputeUc.appendEvent(&domain.EscrowEvent{
		JobID:     job.ID,
		EventType: domain.EventJobCompleted,
	})
	if disputeUc.metrics != nil {
		disputeUc.metrics.JobsCompletedTotal.Inc()
	}
}
