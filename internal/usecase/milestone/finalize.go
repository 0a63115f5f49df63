package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
	"github.com/gigvault/escrow-service/internal/usecase/fee"
)

// finalize is the single pay-and-complete path shared by every approval
// source. The repository serializes it on the milestone row; the ledger
// transfer runs inside that critical section and the status flip commits
// only when the transfer succeeded.
func (uc *DefaultMilestoneUsecase) finalize(job *domain.Job, milestone *domain.Milestone, source domain.FinalizeSource, actorID string) error {
	netAmount, feeAmount, err := fee.Split(milestone.Amount, job.FeeBps)
	if err != nil {
		return err
	}

	req := &domain.FinalizeRequest{
		JobID:        job.ID,
		MilestoneIdx: milestone.Idx,
		Source:       source,
		ApprovedAt:   time.Now(),
		TransferFn: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), uc.ledgerTimeout)
			defer cancel()
			if err := uc.ledger.Transfer(ctx, job.LedgerAccountID, job.FreelancerID, netAmount); err != nil {
				return err
			}
			if feeAmount > 0 {
				if err := uc.ledger.Transfer(ctx, job.LedgerAccountID, uc.platformAccountID, feeAmount); err != nil {
					// The payout leg already settled; rolling back the status
					// must not trigger a second payout.
					return fmt.Errorf("platform fee leg failed after freelancer payout: %v: %w", err, domain.ErrReconcileRequired)
				}
			}
			return nil
		},
	}

	if err := uc.jobRepo.ProcessFinalize(req); err != nil {
		switch {
		case errors.Is(err, domain.ErrReconcileRequired):
			uc.appendEvent(&domain.EscrowEvent{
				JobID:          job.ID,
				MilestoneID:    milestone.ID,
				EventType:      domain.EventFinalizeReconcile,
				FinalizeSource: source,
				ActorID:        actorID,
				Amount:         netAmount,
				Fee:            feeAmount,
				Detail:         err.Error(),
			})
			if uc.metrics != nil {
				uc.metrics.FinalizeFailuresTotal.WithLabelValues("RECONCILE").Inc()
			}
		case domain.KindOf(err) == domain.KindLedgerFailure:
			uc.appendEvent(&domain.EscrowEvent{
				JobID:          job.ID,
				MilestoneID:    milestone.ID,
				EventType:      domain.EventFinalizeFailed,
				FinalizeSource: source,
				ActorID:        actorID,
				Amount:         netAmount,
				Fee:            feeAmount,
				Detail:         err.Error(),
			})
			if uc.metrics != nil {
				uc.metrics.FinalizeFailuresTotal.WithLabelValues(string(domain.KindLedgerFailure)).Inc()
			}
		}
		return err
	}

	uc.appendEvent(&domain.EscrowEvent{
		JobID:          job.ID,
		MilestoneID:    milestone.ID,
		EventType:      domain.EventMilestoneFinalized,
		FinalizeSource: source,
		ActorID:        actorID,
		Amount:         netAmount,
		Fee:            feeAmount,
	})
	uc.publishMilestoneEvent(publisher.MilestoneEvent{
		JobID:        job.ID,
		MilestoneID:  milestone.ID,
		MilestoneIdx: milestone.Idx,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		EventType:    string(domain.EventMilestoneFinalized),
		Source:       string(source),
		Amount:       netAmount,
		Fee:          feeAmount,
	})
	if uc.metrics != nil {
		uc.metrics.MilestonesFinalizedTotal.WithLabelValues(string(source)).Inc()
		uc.metrics.MilestonesFinalizedAmount.WithLabelValues(string(source)).Add(float64(netAmount))
		uc.metrics.PlatformFeeTotal.Add(float64(feeAmount))
	}

	uc.checkJobCompletion(job)
	return nil
}

// checkJobCompletion flips the job to COMPLETED once every milestone
// settled. The payout already happened, so failures here are logged rather
// than surfaced: the next settling transition repeats the check.
func (uc *DefaultMilestoneUsecase) checkJobCompletion(job *domain.Job) {
	completed, err := uc.jobRepo.CompleteJobIfSettled(job.ID)
	if err != nil {
		slog.Error("job completion check failed", "job_id", job.ID, "error", err.Error())
		return
	}
	if !completed {
		return
	}

	uc.appendEvent(&domain.EscrowEvent{
		JobID:     job.ID,
		EventType: domain.EventJobCompleted,
	})
	uc.publishMilestoneEvent(publisher.MilestoneEvent{
		JobID:        job.ID,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		EventType:    string(domain.EventJobCompleted),
	})
	if uc.metrics != nil {
		uc.metrics.JobsCompletedTotal.Inc()
	}
}
