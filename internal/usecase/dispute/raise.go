package usecase

import (
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
	"github.com/jaevor/go-nanoid"
)

func (disputeUc *DefaultDisputeUsecase) RaiseDispute(jobID string, idx int, actorID, reason, evidenceRef string) (*domain.Dispute, error) {
	settings, err := disputeUc.settings.Current()
	if err != nil {
		return nil, err
	}
	if settings.Paused {
		return nil, domain.ErrEnginePaused
	}
	if reason == "" {
		return nil, domain.E(domain.KindInvalidArgument, "dispute reason is required")
	}

	job, err := disputeUc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsParty(actorID) {
		return nil, domain.E(domain.KindUnauthorized, "only the client or freelancer may raise a dispute")
	}
	if job.Status != domain.JobActive {
		return nil, domain.E(domain.KindInvalidState, "job status is %s, expected ACTIVE", job.Status)
	}
	now := time.Now()
	if now.After(job.DisputeDeadline) {
		return nil, domain.E(domain.KindWindowExpired, "dispute window closed at %s", job.DisputeDeadline.Format(time.RFC3339))
	}

	milestone, err := disputeUc.jobRepo.GetMilestone(jobID, idx)
	if err != nil {
		return nil, err
	}
	if !milestone.Disputable() {
		return nil, domain.E(domain.KindInvalidState, "milestone %d status is %s, cannot be disputed", idx, milestone.Status)
	}

	active, err := disputeUc.disputeRepo.GetActiveDispute(milestone.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.E(domain.KindInvalidState, "milestone %d already has an open dispute %s", idx, active.ID)
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	dispute := &domain.Dispute{
		ID:          idGenerator(),
		JobID:       jobID,
		MilestoneID: milestone.ID,
		InitiatorID: actorID,
		Reason:      reason,
		EvidenceRef: evidenceRef,
		CreatedAt:   now,
	}
	// The repository re-checks the milestone status under the row lock and
	// records the dispute in the same transaction, so a finalize racing this
	// call either settles first (and the dispute is rejected) or waits and
	// then sees DISPUTED. The flip also clears any pending auto-approval so
	// the scheduler can never pay out a contested milestone.
	if err := disputeUc.jobRepo.MarkMilestoneDisputed(jobID, idx, dispute); err != nil {
		return nil, err
	}

	disputeUc.appendEvent(&domain.EscrowEvent{
		JobID:       jobID,
		MilestoneID: milestone.ID,
		EventType:   domain.EventDisputeRaised,
		ActorID:     actorID,
		Amount:      milestone.Amount,
		Detail:      reason,
	})
	disputeUc.publishDisputeEvent(publisher.DisputeEvent{
		DisputeID:    dispute.ID,
		JobID:        jobID,
		MilestoneID:  milestone.ID,
		MilestoneIdx: idx,
		InitiatorID:  actorID,
		Reason:       reason,
		EvidenceRef:  evidenceRef,
		Status:       string(domain.EventDisputeRaised),
	})
	if disputeUc.metrics != nil {
		disputeUc.metrics.DisputesRaisedTotal.Inc()
	}

	return dispute, nil
}
